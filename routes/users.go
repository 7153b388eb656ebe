package routes

import (
	"fanhub-backend/handlers/fanworks/bookmarks"
	"fanhub-backend/handlers/users"
	"fanhub-backend/middleware"
	"fanhub-backend/models"

	"github.com/gin-gonic/gin"
)

func UsersRoutes(r *gin.Engine) {
	// Own account lives under /me so it cannot collide with /users/:id
	me := r.Group("/me")
	me.Use(middleware.JWTAuth())
	{
		me.GET("", users.GetMyProfile)
		me.PUT("", middleware.RequireNotBanned(), users.UpdateMyProfile)
		me.GET("/bookmarks", bookmarks.GetMyBookmarks)
	}

	usersRoutes := r.Group("/users")
	{
		usersRoutes.GET("/:id", users.GetUserByID)

		// Administration: ban gate first, then role
		usersRoutes.GET("", middleware.JWTAuth(), middleware.RequireNotBanned(),
			middleware.RequireRole(models.ModeratorRole), users.GetAllUsers)
		usersRoutes.PUT("/:id/role", middleware.JWTAuth(), middleware.RequireNotBanned(),
			middleware.RequireRole(models.AdminRole), users.UpdateUserRole)
		usersRoutes.PUT("/:id/age-verify", middleware.JWTAuth(), middleware.RequireNotBanned(),
			middleware.RequireRole(models.ModeratorRole), users.SetAgeVerified)
	}
}
