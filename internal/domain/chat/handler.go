package chat

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobmarket/internal/pkg/response"
)

// Handler exposes chat REST endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRoomRequest struct {
	ContractorID string `json:"contractor_id" binding:"required"`
	ClientID     string `json:"client_id" binding:"required"`
}

// CreateGeneralRoom handles POST /chat/rooms. Idempotent: repeated calls
// for the same pair return the same room.
func (h *Handler) CreateGeneralRoom(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if userID != req.ContractorID && userID != req.ClientID {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You must be a participant of the room")
		return
	}

	room, created, err := h.service.GetOrCreateGeneralRoom(c.Request.Context(), req.ContractorID, req.ClientID)
	if err == ErrInvalidParticipant {
		response.Error(c, http.StatusBadRequest, "INVALID_PARTICIPANTS", err.Error())
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create chat room")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, room)
}

// ListRooms handles GET /chat/rooms.
func (h *Handler) ListRooms(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	rooms, err := h.service.ListRooms(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list rooms")
		return
	}
	response.Success(c, http.StatusOK, rooms)
}

// GetMessages handles GET /chat/rooms/:id/messages.
func (h *Handler) GetMessages(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.service.ListMessages(c.Request.Context(), c.Param("id"), userID, limit, offset)
	switch err {
	case nil:
		response.Success(c, http.StatusOK, messages)
	case ErrRoomNotFound:
		response.NotFound(c, "Room not found")
	case ErrNotParticipant:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch messages")
	}
}

type sendMessageRequest struct {
	Content    string `json:"content" binding:"required"`
	SenderName string `json:"sender_name"`
}

// SendMessage handles POST /chat/rooms/:id/messages.
func (h *Handler) SendMessage(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), c.Param("id"), userID, req.SenderName, req.Content)
	switch err {
	case nil:
		response.Success(c, http.StatusCreated, msg)
	case ErrRoomNotFound:
		response.NotFound(c, "Room not found")
	case ErrNotParticipant:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case ErrEmptyMessage:
		response.Error(c, http.StatusBadRequest, "EMPTY_MESSAGE", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "SEND_FAILED", "Failed to send message")
	}
}

// Reconcile handles POST /internal/chat/reconcile, the repair sweep for
// assigned jobs missing their general room.
func (h *Handler) Reconcile(c *gin.Context) {
	result, err := h.service.ReconcileAssignedJobs(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "RECONCILE_FAILED", "Failed to reconcile chat rooms")
		return
	}
	response.Success(c, http.StatusOK, result)
}
