package routes

import (
	"github.com/gin-gonic/gin"

	"stackit/controllers"
)

func ProfileRouter(r *gin.Engine, profile *controllers.ProfileController, requireAuth gin.HandlerFunc) {
	guarded := r.Group("/profile", requireAuth)
	guarded.GET("", profile.Get)
	guarded.PATCH("", profile.Update)
	guarded.PATCH("/change-password", profile.ChangePassword)
}
