package routes

import (
	"github.com/gin-gonic/gin"

	"stackit/controllers"
	"stackit/notify"
)

func NotificationRouter(r *gin.Engine, notifications *controllers.NotificationController, hub *notify.Hub, requireAuth gin.HandlerFunc) {
	guarded := r.Group("/notifications", requireAuth)
	guarded.GET("", notifications.List)
	guarded.PATCH("", notifications.UpdateRead)
	guarded.PATCH("/mark-all-read", notifications.MarkAllRead)
	guarded.DELETE("/:notification_id", notifications.Delete)
	guarded.POST("/test", notifications.SeedTest)

	r.GET("/ws", requireAuth, hub.HandleWS)
}
