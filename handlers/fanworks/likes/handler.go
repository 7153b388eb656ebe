package likes

import (
	"errors"
	"net/http"

	"fanhub-backend/db"
	"fanhub-backend/handlers/fanworks"
	"fanhub-backend/middleware"
	"fanhub-backend/models"
	"fanhub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Toggle like on a fanwork
// @Description Add or remove a like; the response carries the resulting state
// @Tags fanworks
// @Produce json
// @Param id path string true "Fanwork ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "liked: resulting state"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Fanwork not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /fanworks/{id}/like [post]
func ToggleLike(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	fanworkID := c.Param("id")

	var fanwork models.Fanwork
	if err := db.DB.First(&fanwork, "id = ?", fanworkID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fanwork not found"})
		return
	}
	if !fanworks.VisibleTo(&fanwork, identity) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fanwork not found"})
		return
	}

	var like models.Like
	result := db.DB.Where("fanwork_id = ? AND user_id = ?", fanworkID, identity.UserID).First(&like)

	if result.Error == nil {
		// The like exists, remove it
		if err := db.DB.Delete(&like).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error removing like: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Like removed successfully", "liked": false})
		return
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking like: " + result.Error.Error()})
		return
	}

	like = models.Like{
		FanworkID: fanworkID,
		UserID:    identity.UserID,
	}

	if err := db.DB.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent toggle inserted the row first; converge on "present"
			c.JSON(http.StatusOK, gin.H{"message": "Like added successfully", "liked": true})
			return
		}
		utils.LogErrorWithUser(identity.UserID, err, "Error adding like in ToggleLike")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding like: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Like added successfully", "liked": true})
}
