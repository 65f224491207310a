package routes

import (
	"github.com/gin-gonic/gin"

	"stackit/controllers"
)

func AuthRouter(r *gin.Engine, auth *controllers.AuthController, requireAuth gin.HandlerFunc) {
	r.POST("/auth/register", auth.Register)
	r.POST("/auth/login", auth.Login)
	r.POST("/auth/logout", auth.Logout)
	r.GET("/auth/verify-email", auth.VerifyEmail)

	guarded := r.Group("/auth", requireAuth)
	guarded.GET("/validate", auth.Validate)
	guarded.POST("/send-verification", auth.SendVerification)
}
