package reports

import (
	"net/http"
	"slices"
	"time"

	"fanhub-backend/db"
	"fanhub-backend/middleware"
	"fanhub-backend/models"
	"fanhub-backend/utils"

	"github.com/gin-gonic/gin"
)

// @Summary Report a fanwork, comment or user
// @Description File a report targeting exactly one of fanworkId, commentId or targetUserId
// @Tags reports
// @Accept json
// @Produce json
// @Param report body models.ReportCreate true "Report"
// @Security BearerAuth
// @Success 201 {object} models.Report
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Target not found"
// @Router /reports [post]
func CreateReport(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var input models.ReportCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if !slices.Contains(models.ValidReportReasons, input.Reason) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report reason"})
		return
	}

	targets := 0
	for _, t := range []string{input.FanworkID, input.CommentID, input.TargetUserID} {
		if t != "" {
			targets++
		}
	}
	if targets != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Exactly one of fanworkId, commentId or targetUserId is required"})
		return
	}

	report := models.Report{
		ReportedBy:  identity.UserID,
		Reason:      input.Reason,
		Description: input.Description,
		Status:      models.ReportPending,
	}

	switch {
	case input.FanworkID != "":
		var fanwork models.Fanwork
		if err := db.DB.First(&fanwork, "id = ?", input.FanworkID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fanwork not found"})
			return
		}
		report.FanworkID = &fanwork.ID
	case input.CommentID != "":
		var comment models.Comment
		if err := db.DB.First(&comment, "id = ?", input.CommentID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		report.CommentID = &comment.ID
	default:
		var user models.User
		if err := db.DB.First(&user, "id = ?", input.TargetUserID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		report.TargetUserID = &user.ID
	}

	if err := db.DB.Create(&report).Error; err != nil {
		utils.LogErrorWithUser(identity.UserID, err, "Error creating report in CreateReport")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating report: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(identity.UserID, "Report successfully created in CreateReport")
	c.JSON(http.StatusCreated, report)
}

// @Summary List reports (moderator only)
// @Description All reports, optionally filtered by status and target kind, newest first
// @Tags moderation
// @Produce json
// @Param status query string false "Filter by status"
// @Param target query string false "Filter by target kind: fanwork, comment or user"
// @Security BearerAuth
// @Success 200 {array} models.Report
// @Failure 400 {object} map[string]string "error: Invalid target filter"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Forbidden"
// @Router /reports [get]
func GetAllReports(c *gin.Context) {
	query := db.DB.Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if target := c.Query("target"); target != "" {
		switch target {
		case "fanwork":
			query = query.Where("fanwork_id IS NOT NULL")
		case "comment":
			query = query.Where("comment_id IS NOT NULL")
		case "user":
			query = query.Where("target_user_id IS NOT NULL")
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Target must be fanwork, comment or user"})
			return
		}
	}

	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving reports: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, reports)
}

// @Summary Review a report (moderator only)
// @Description Transition a pending report to a terminal status, exactly once
// @Tags moderation
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param review body models.ReportReview true "New status and action taken"
// @Security BearerAuth
// @Success 200 {object} models.Report
// @Failure 400 {object} map[string]string "error: Invalid status"
// @Failure 404 {object} map[string]string "error: Report not found"
// @Failure 409 {object} map[string]string "error: Report already reviewed"
// @Router /reports/{id}/review [put]
func ReviewReport(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	reportID := c.Param("id")

	var input models.ReportReview
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if !models.TerminalStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be REVIEWED, RESOLVED or DISMISSED"})
		return
	}

	now := time.Now()
	// Conditional update: only a pending report may transition, so two
	// concurrent reviewers cannot both win.
	result := db.DB.Model(&models.Report{}).
		Where("id = ? AND status = ?", reportID, models.ReportPending).
		Updates(map[string]interface{}{
			"status":            input.Status,
			"reviewed_by":       identity.UserID,
			"reviewed_at":       now,
			"moderation_action": input.Action,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error reviewing report: " + result.Error.Error()})
		return
	}

	if result.RowsAffected == 0 {
		var report models.Report
		if err := db.DB.First(&report, "id = ?", reportID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "Report is already in a terminal status"})
		return
	}

	var report models.Report
	if err := db.DB.First(&report, "id = ?", reportID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving reviewed report: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(identity.UserID, "Report successfully reviewed in ReviewReport")
	c.JSON(http.StatusOK, report)
}
