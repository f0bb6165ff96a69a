package notification

import "github.com/gin-gonic/gin"

// RegisterRoutes registers user-facing notification routes (JWT protected)
func RegisterRoutes(protected *gin.RouterGroup, h *Handler) {
	notif := protected.Group("/notifications")
	{
		prefs := notif.Group("/preferences")
		{
			prefs.GET("", h.GetPreferences)
			prefs.PATCH("", h.UpdatePreferences)
		}

		devices := notif.Group("/device-tokens")
		{
			devices.POST("", h.RegisterDeviceToken)
			devices.GET("", h.ListDeviceTokens)
			devices.DELETE("/:token", h.DeleteDeviceToken)
		}
	}
}

// RegisterInternalRoutes registers webhook and operator endpoints, guarded
// by the internal-token middleware.
func RegisterInternalRoutes(internal *gin.RouterGroup, h *Handler) {
	internal.POST("/jobs/webhook", h.JobWebhook)
	internal.POST("/chat-messages/webhook", h.ChatWebhook)
	internal.POST("/test-push", h.TestPush)
}
