package routes

import (
	"fanhub-backend/handlers/tags"

	"github.com/gin-gonic/gin"
)

func TagsRoutes(r *gin.Engine) {
	r.GET("/tags", tags.GetAllTags)
}
