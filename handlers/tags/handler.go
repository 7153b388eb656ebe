package tags

import (
	"net/http"

	"fanhub-backend/db"
	"fanhub-backend/models"

	"github.com/gin-gonic/gin"
)

// @Summary List all tags
// @Description Retrieve all tags, ordered by name
// @Tags tags
// @Produce json
// @Success 200 {array} models.Tag
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /tags [get]
func GetAllTags(c *gin.Context) {
	var tags []models.Tag

	result := db.DB.Order("name ASC").Find(&tags)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": result.Error.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, tags)
}
