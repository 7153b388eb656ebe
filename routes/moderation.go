package routes

import (
	"fanhub-backend/handlers/moderation"
	"fanhub-backend/middleware"
	"fanhub-backend/models"

	"github.com/gin-gonic/gin"
)

func ModerationRoutes(r *gin.Engine) {
	mod := r.Group("/moderation")
	mod.Use(middleware.JWTAuth(), middleware.RequireNotBanned(), middleware.RequireRole(models.ModeratorRole))
	{
		mod.PUT("/fanworks/:id/hide", moderation.HideFanwork)
		mod.PUT("/fanworks/:id/unhide", moderation.UnhideFanwork)
		mod.PUT("/users/:id/ban", moderation.BanUser)
		mod.PUT("/users/:id/unban", moderation.UnbanUser)
	}
}
