package contractor

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobmarket/internal/pkg/response"
)

// Handler exposes contractor discovery endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /contractors with filter query params.
func (h *Handler) List(c *gin.Context) {
	f := Filter{
		Search:    c.Query("search"),
		Services:  splitParam(c.Query("services")),
		Locations: splitParam(c.Query("locations")),
		SortBy:    c.DefaultQuery("sort_by", "rating"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if v := c.Query("min_rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "min_rating must be a number")
			return
		}
		f.MinRating = rating
	}
	f.AvailableOnly = c.Query("available_only") == "true"
	f.Limit = intParam(c.Query("limit"), 20)
	f.Offset = intParam(c.Query("offset"), 0)

	result, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list contractors")
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Get handles GET /contractors/:id.
func (h *Handler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err == ErrNotFound {
		response.NotFound(c, "Contractor not found")
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch contractor")
		return
	}
	response.Success(c, http.StatusOK, view)
}

type updateAvailabilityRequest struct {
	Status    string     `json:"status" binding:"required"`
	Message   string     `json:"message"`
	BusyUntil *time.Time `json:"busy_until"`
}

// UpdateAvailability handles PATCH /contractors/:id/availability. Only the
// profile's own user may change it.
func (h *Handler) UpdateAvailability(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req updateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	id := c.Param("id")
	view, err := h.service.Get(c.Request.Context(), id)
	if err == ErrNotFound {
		response.NotFound(c, "Contractor not found")
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch contractor")
		return
	}
	if view.UserID != userID {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your profile")
		return
	}

	if err := h.service.SetAvailability(c.Request.Context(), id, req.Status, req.Message, req.BusyUntil); err != nil {
		if err == ErrInvalidStatus {
			response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "status must be available, busy or offline")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update availability")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
