package chat

import "github.com/gin-gonic/gin"

// RegisterRoutes registers chat routes under the protected group
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	rooms := r.Group("/chat/rooms")
	{
		rooms.POST("", h.CreateGeneralRoom)
		rooms.GET("", h.ListRooms)
		rooms.GET("/:id/messages", h.GetMessages)
		rooms.POST("/:id/messages", h.SendMessage)
	}
}

// RegisterWSRoute registers the websocket endpoint. Auth happens inside the
// handler via the token query parameter.
func RegisterWSRoute(r *gin.RouterGroup, ws *WSHandler) {
	r.GET("/ws", ws.HandleWebSocket)
}

// RegisterInternalRoutes registers maintenance endpoints guarded by the
// internal-token middleware.
func RegisterInternalRoutes(internal *gin.RouterGroup, h *Handler) {
	internal.POST("/chat/reconcile", h.Reconcile)
}
