package routes

import (
	"fanhub-backend/handlers/reports"
	"fanhub-backend/middleware"
	"fanhub-backend/models"

	"github.com/gin-gonic/gin"
)

func ReportsRoutes(r *gin.Engine) {
	reportsRoutes := r.Group("/reports")
	reportsRoutes.Use(middleware.JWTAuth(), middleware.RequireNotBanned())
	{
		reportsRoutes.POST("", reports.CreateReport)
		reportsRoutes.GET("", middleware.RequireRole(models.ModeratorRole), reports.GetAllReports)
		reportsRoutes.PUT("/:id/review", middleware.RequireRole(models.ModeratorRole), reports.ReviewReport)
	}
}
