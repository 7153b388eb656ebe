package comment

import (
	"net/http"

	"fanhub-backend/db"
	"fanhub-backend/handlers/fanworks"
	"fanhub-backend/middleware"
	"fanhub-backend/models"
	"fanhub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary List a fanwork's comments
// @Description Comments on the fanwork, oldest first
// @Tags fanworks
// @Produce json
// @Param id path string true "Fanwork ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} map[string]string "error: Fanwork not found"
// @Router /fanworks/{id}/comments [get]
func GetCommentsByFanworkID(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
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

	var comments []models.Comment
	if err := db.DB.Where("fanwork_id = ?", fanworkID).Order("created_at ASC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving comments: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// @Summary Comment on a fanwork
// @Description Add a comment to the fanwork
// @Tags fanworks
// @Accept json
// @Produce json
// @Param id path string true "Fanwork ID"
// @Param comment body models.CommentCreate true "Comment content"
// @Security BearerAuth
// @Success 201 {object} models.Comment
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Fanwork not found"
// @Router /fanworks/{id}/comments [post]
func CreateComment(c *gin.Context) {
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

	var input models.CommentCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	comment := models.Comment{
		FanworkID: fanworkID,
		UserID:    identity.UserID,
		Content:   input.Content,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		utils.LogErrorWithUser(identity.UserID, err, "Error creating comment in CreateComment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating comment: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(identity.UserID, "Comment successfully created in CreateComment")
	c.JSON(http.StatusCreated, comment)
}

// @Summary Delete a comment
// @Description Delete a comment, author or moderator only, cascading its reports
// @Tags fanworks
// @Produce json
// @Param id path string true "Comment ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Comment deleted successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Forbidden"
// @Failure 404 {object} map[string]string "error: Comment not found"
// @Router /comments/{id} [delete]
func DeleteComment(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var comment models.Comment
	if err := db.DB.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.UserID != identity.UserID && !identity.Role.AtLeast(models.ModeratorRole) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this comment"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting comment: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(identity.UserID, "Comment successfully deleted in DeleteComment")
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
