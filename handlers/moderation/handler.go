package moderation

import (
	"net/http"
	"time"

	"fanhub-backend/db"
	"fanhub-backend/middleware"
	"fanhub-backend/models"
	"fanhub-backend/utils"

	"github.com/gin-gonic/gin"
)

type moderationInput struct {
	Reason string `json:"reason" binding:"required"`
}

// @Summary Hide a fanwork (moderator only)
// @Description Hide the fanwork from public listing and read paths
// @Tags moderation
// @Accept json
// @Produce json
// @Param id path string true "Fanwork ID"
// @Param body body moderationInput true "Moderation reason"
// @Security BearerAuth
// @Success 200 {object} models.Fanwork
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 403 {object} map[string]string "error: Forbidden"
// @Failure 404 {object} map[string]string "error: Fanwork not found"
// @Router /moderation/fanworks/{id}/hide [put]
func HideFanwork(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var input moderationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var fanwork models.Fanwork
	if err := db.DB.First(&fanwork, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fanwork not found"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"is_hidden":         true,
		"moderation_reason": input.Reason,
		"moderated_at":      now,
		"moderated_by":      identity.UserID,
	}
	if err := db.DB.Model(&fanwork).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error hiding fanwork: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(identity.UserID, "Fanwork successfully hidden in HideFanwork")
	c.JSON(http.StatusOK, fanwork)
}

// @Summary Unhide a fanwork (moderator only)
// @Description Restore the fanwork to public visibility
// @Tags moderation
// @Produce json
// @Param id path string true "Fanwork ID"
// @Security BearerAuth
// @Success 200 {object} models.Fanwork
// @Failure 403 {object} map[string]string "error: Forbidden"
// @Failure 404 {object} map[string]string "error: Fanwork not found"
// @Router /moderation/fanworks/{id}/unhide [put]
func UnhideFanwork(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var fanwork models.Fanwork
	if err := db.DB.First(&fanwork, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fanwork not found"})
		return
	}

	updates := map[string]interface{}{
		"is_hidden":         false,
		"moderation_reason": "",
		"moderated_at":      nil,
		"moderated_by":      "",
	}
	if err := db.DB.Model(&fanwork).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error unhiding fanwork: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(identity.UserID, "Fanwork successfully unhidden in UnhideFanwork")
	c.JSON(http.StatusOK, fanwork)
}

// @Summary Ban a user (moderator only)
// @Description Ban the user from all authenticated actions; their content remains
// @Tags moderation
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body moderationInput true "Ban reason"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: User banned"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 403 {object} map[string]string "error: Forbidden"
// @Failure 404 {object} map[string]string "error: User not found"
// @Router /moderation/users/{id}/ban [put]
func BanUser(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var input moderationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.ID == identity.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot ban your own account"})
		return
	}

	// A moderator cannot ban a peer or a superior
	if user.Role.AtLeast(identity.Role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot ban a user of equal or higher role"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"is_banned":  true,
		"ban_reason": input.Reason,
		"banned_at":  now,
		"banned_by":  identity.UserID,
	}
	// Banning never cascades: the user's fanworks and comments stay up
	// unless a moderator hides them separately.
	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error banning user: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(identity.UserID, "User successfully banned in BanUser")
	c.JSON(http.StatusOK, gin.H{"message": "User banned successfully"})
}

// @Summary Unban a user (moderator only)
// @Description Lift the user's ban
// @Tags moderation
// @Produce json
// @Param id path string true "User ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: User unbanned"
// @Failure 403 {object} map[string]string "error: Forbidden"
// @Failure 404 {object} map[string]string "error: User not found"
// @Router /moderation/users/{id}/unban [put]
func UnbanUser(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var user models.User
	if err := db.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{
		"is_banned":  false,
		"ban_reason": "",
		"banned_at":  nil,
		"banned_by":  "",
	}
	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error unbanning user: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(identity.UserID, "User successfully unbanned in UnbanUser")
	c.JSON(http.StatusOK, gin.H{"message": "User unbanned successfully"})
}
