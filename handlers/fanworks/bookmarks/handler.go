package bookmarks

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

// @Summary Toggle bookmark on a fanwork
// @Description Add or remove a bookmark; the response carries the resulting state
// @Tags fanworks
// @Produce json
// @Param id path string true "Fanwork ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "bookmarked: resulting state"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Fanwork not found"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /fanworks/{id}/bookmark [post]
func ToggleBookmark(c *gin.Context) {
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

	var bookmark models.Bookmark
	result := db.DB.Where("fanwork_id = ? AND user_id = ?", fanworkID, identity.UserID).First(&bookmark)

	if result.Error == nil {
		if err := db.DB.Delete(&bookmark).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error removing bookmark: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Bookmark removed successfully", "bookmarked": false})
		return
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking bookmark: " + result.Error.Error()})
		return
	}

	bookmark = models.Bookmark{
		FanworkID: fanworkID,
		UserID:    identity.UserID,
	}

	if err := db.DB.Create(&bookmark).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusOK, gin.H{"message": "Bookmark added successfully", "bookmarked": true})
			return
		}
		utils.LogErrorWithUser(identity.UserID, err, "Error adding bookmark in ToggleBookmark")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding bookmark: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bookmark added successfully", "bookmarked": true})
}

// @Summary List own bookmarks
// @Description Fanworks bookmarked by the authenticated user, newest bookmark first
// @Tags fanworks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Fanwork
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /users/me/bookmarks [get]
func GetMyBookmarks(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var works []models.Fanwork
	err := db.DB.Model(&models.Fanwork{}).Preload("Tags").
		Joins("JOIN bookmarks ON bookmarks.fanwork_id = fanworks.id").
		Where("bookmarks.user_id = ?", identity.UserID).
		Where("is_hidden = ? OR author_id = ?", false, identity.UserID).
		Order("bookmarks.created_at DESC").
		Find(&works).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving bookmarks: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, works)
}
