package contractor

import "github.com/gin-gonic/gin"

// RegisterRoutes registers public discovery routes
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	contractors := r.Group("/contractors")
	{
		contractors.GET("", h.List)
		contractors.GET("/:id", h.Get)
	}
}

// RegisterProtectedRoutes registers routes requiring an authenticated user
func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	contractors := r.Group("/contractors")
	{
		contractors.PATCH("/:id/availability", h.UpdateAvailability)
	}
}
