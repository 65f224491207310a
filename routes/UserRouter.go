package routes

import (
	"github.com/gin-gonic/gin"

	"stackit/controllers"
)

func UserRouter(r *gin.Engine, users *controllers.UserController, requireAuth gin.HandlerFunc) {
	r.GET("/search/users", requireAuth, users.Search)
	r.GET("/users/:user_id", requireAuth, users.Get)
}
