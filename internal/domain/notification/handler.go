package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobmarket/internal/pkg/response"
	"jobmarket/internal/pkg/timeutil"
)

// Handler exposes webhook endpoints and user-facing token/preference APIs.
type Handler struct {
	dispatcher *Dispatcher
	repo       Repository
}

func NewHandler(dispatcher *Dispatcher, repo Repository) *Handler {
	return &Handler{dispatcher: dispatcher, repo: repo}
}

// JobWebhook handles the "new job row" database webhook. There is no dedup
// for webhook retries; the job id is logged so repeats can be spotted.
func (h *Handler) JobWebhook(c *gin.Context) {
	var req JobWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), req.Record)
	switch err {
	case nil:
		response.Success(c, http.StatusOK, result)
	case ErrInvalidJob:
		response.Error(c, http.StatusBadRequest, "INVALID_JOB", err.Error())
	case ErrMissingCredentials:
		response.Error(c, http.StatusInternalServerError, "PUSH_NOT_CONFIGURED", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "DISPATCH_FAILED", "Failed to dispatch notifications")
	}
}

// ChatWebhook handles the "new chat message row" database webhook.
func (h *Handler) ChatWebhook(c *gin.Context) {
	var req ChatWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.dispatcher.DispatchChatMessage(c.Request.Context(), req.Record)
	switch err {
	case nil:
		response.Success(c, http.StatusOK, result)
	case ErrInvalidMessage:
		response.Error(c, http.StatusBadRequest, "INVALID_MESSAGE", err.Error())
	case ErrMissingCredentials:
		response.Error(c, http.StatusInternalServerError, "PUSH_NOT_CONFIGURED", err.Error())
	case ErrRoomNotFound:
		response.NotFound(c, "Chat room not found")
	default:
		response.Error(c, http.StatusInternalServerError, "DISPATCH_FAILED", "Failed to dispatch notification")
	}
}

// TestPush sends a canned payload to one user's devices.
func (h *Handler) TestPush(c *gin.Context) {
	var req TestPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.dispatcher.SendTest(c.Request.Context(), req.UserID)
	if err == ErrMissingCredentials {
		response.Error(c, http.StatusInternalServerError, "PUSH_NOT_CONFIGURED", err.Error())
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "SEND_FAILED", "Failed to send test push")
		return
	}
	response.Success(c, http.StatusOK, result)
}

// RegisterDeviceToken stores (or re-binds) a device token for the caller.
func (h *Handler) RegisterDeviceToken(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req RegisterDeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	dt, err := h.repo.RegisterToken(c.Request.Context(), userID, req.Token, req.Platform)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "REGISTER_FAILED", "Failed to register device token")
		return
	}
	response.Success(c, http.StatusCreated, dt)
}

// ListDeviceTokens returns the caller's registered tokens.
func (h *Handler) ListDeviceTokens(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	tokens, err := h.repo.ListTokensByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list device tokens")
		return
	}
	response.Success(c, http.StatusOK, tokens)
}

// DeleteDeviceToken removes one of the caller's tokens (app logout).
func (h *Handler) DeleteDeviceToken(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	token := c.Param("token")
	if err := h.repo.DeleteToken(c.Request.Context(), userID, token); err != nil {
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete device token")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": token})
}

// GetPreferences returns the caller's stored preferences, or defaults.
func (h *Handler) GetPreferences(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	pref, err := h.repo.GetPreference(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch preferences")
		return
	}
	if pref == nil {
		pref = DefaultPreference(userID)
	}
	response.Success(c, http.StatusOK, pref)
}

// UpdatePreferences patches the caller's preferences.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if req.QuietHoursStart != nil && *req.QuietHoursStart != "" {
		if _, err := timeutil.ParseClock(*req.QuietHoursStart); err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_QUIET_HOURS", "quiet_hours_start must be HH:MM or HH:MM:SS")
			return
		}
	}
	if req.QuietHoursEnd != nil && *req.QuietHoursEnd != "" {
		if _, err := timeutil.ParseClock(*req.QuietHoursEnd); err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_QUIET_HOURS", "quiet_hours_end must be HH:MM or HH:MM:SS")
			return
		}
	}

	pref, err := h.repo.GetPreference(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch preferences")
		return
	}
	if pref == nil {
		pref = DefaultPreference(userID)
	}

	if req.EnableNewJobNotifications != nil {
		pref.EnableNewJobNotifications = *req.EnableNewJobNotifications
	}
	if req.EnableChatNotifications != nil {
		pref.EnableChatNotifications = *req.EnableChatNotifications
	}
	if req.QuietHoursStart != nil {
		pref.QuietHoursStart = *req.QuietHoursStart
	}
	if req.QuietHoursEnd != nil {
		pref.QuietHoursEnd = *req.QuietHoursEnd
	}

	if err := h.repo.UpsertPreference(c.Request.Context(), pref); err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update preferences")
		return
	}
	response.Success(c, http.StatusOK, pref)
}
