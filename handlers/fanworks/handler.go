package fanworks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fanhub-backend/db"
	"fanhub-backend/middleware"
	"fanhub-backend/models"
	"fanhub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// VisibleTo reports whether the caller may see the fanwork at all. Hidden
// works stay visible to their owner and to moderators.
func VisibleTo(fanwork *models.Fanwork, identity *middleware.Identity) bool {
	if !fanwork.IsHidden {
		return true
	}
	if identity == nil {
		return false
	}
	return identity.UserID == fanwork.AuthorID || identity.Role.AtLeast(models.ModeratorRole)
}

// ageExempt reports whether the age gate applies to the caller for this work.
func ageExempt(fanwork *models.Fanwork, identity *middleware.Identity) bool {
	if identity == nil {
		return false
	}
	return identity.AgeVerified ||
		identity.UserID == fanwork.AuthorID ||
		identity.Role.AtLeast(models.ModeratorRole)
}

// GetCounts recomputes like/comment/bookmark counts from the relation tables.
// There is no cached counter to drift out of sync.
func GetCounts(fanworkID string) (models.FanworkCounts, error) {
	var counts models.FanworkCounts

	if err := db.DB.Model(&models.Like{}).Where("fanwork_id = ?", fanworkID).Count(&counts.Likes).Error; err != nil {
		return counts, err
	}
	if err := db.DB.Model(&models.Comment{}).Where("fanwork_id = ?", fanworkID).Count(&counts.Comments).Error; err != nil {
		return counts, err
	}
	if err := db.DB.Model(&models.Bookmark{}).Where("fanwork_id = ?", fanworkID).Count(&counts.Bookmarks).Error; err != nil {
		return counts, err
	}

	return counts, nil
}

// resolveTags returns tag rows for the given names, creating missing ones.
// A duplicate-name race loses to the unique index and re-reads the winner.
func resolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	var tags []models.Tag
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var tag models.Tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = models.Tag{Name: name}
			if err := tx.Create(&tag).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
						return nil, err
					}
				} else {
					return nil, err
				}
			}
		} else if err != nil {
			return nil, err
		}

		tags = append(tags, tag)
	}
	return tags, nil
}

// applyVisibility narrows a listing query to the rows the caller may see.
func applyVisibility(query *gorm.DB, identity *middleware.Identity) *gorm.DB {
	if identity != nil && identity.Role.AtLeast(models.ModeratorRole) {
		return query
	}

	safeRatings := []models.Rating{models.AllAges, models.Teen}

	if identity == nil {
		return query.
			Where("is_hidden = ?", false).
			Where("rating IN ?", safeRatings)
	}

	query = query.Where("is_hidden = ? OR author_id = ?", false, identity.UserID)
	if !identity.AgeVerified {
		query = query.Where("rating IN ? OR author_id = ?", safeRatings, identity.UserID)
	}
	return query
}

func parseTagNames(raw string) []string {
	if raw == "" {
		return nil
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		names = strings.Split(raw, ",")
	}
	return names
}

// @Summary Create a new fanwork
// @Description Upload an artwork/comic image or submit fanfiction text
// @Tags fanworks
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param type formData string true "ARTWORK, FANFICTION or COMIC"
// @Param rating formData string true "ALL_AGES, TEEN, MATURE or EXPLICIT"
// @Param textContent formData string false "Fanfiction text (markdown)"
// @Param tags formData string false "Tag names (JSON array or comma-separated)"
// @Param file formData file false "Artwork/comic image"
// @Security BearerAuth
// @Success 201 {object} models.Fanwork
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Age verification required"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /fanworks [post]
func CreateFanwork(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	title := c.Request.FormValue("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	fanworkType := models.FanworkType(c.Request.FormValue("type"))
	if !models.ValidFanworkType(fanworkType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fanwork type"})
		return
	}

	rating := models.Rating(c.Request.FormValue("rating"))
	if !models.ValidRating(rating) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rating"})
		return
	}

	// Publishing age-gated material requires a verified author
	if models.AgeGated(rating) && !identity.AgeVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "Age verification required to publish mature content"})
		return
	}

	fanwork := models.Fanwork{
		Title:       title,
		Description: c.Request.FormValue("description"),
		Type:        fanworkType,
		Rating:      rating,
		AuthorID:    identity.UserID,
	}

	switch fanworkType {
	case models.Fanfiction:
		fanwork.TextContent = c.Request.FormValue("textContent")
		if fanwork.TextContent == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text content is required for fanfiction"})
			return
		}
	default:
		file, err := c.FormFile("file")
		if err != nil || file == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "An image file is required for artwork and comics"})
			return
		}
		fileURL, err := utils.UploadImage(file, "fanworks", strings.ToLower(string(fanworkType)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Error uploading file: " + err.Error()})
			return
		}
		fanwork.FileURL = fileURL
		fanwork.TextContent = c.Request.FormValue("textContent")
	}

	tagNames := parseTagNames(c.Request.FormValue("tags"))
	tags, err := resolveTags(db.DB, tagNames)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error resolving tags: " + err.Error()})
		return
	}
	fanwork.Tags = tags

	if err := db.DB.Create(&fanwork).Error; err != nil {
		utils.LogErrorWithUser(identity.UserID, err, "Error creating fanwork in CreateFanwork")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating fanwork: " + err.Error()})
		return
	}

	if err := db.DB.Preload("Tags").First(&fanwork, "id = ?", fanwork.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving created fanwork: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(identity.UserID, "Fanwork successfully created in CreateFanwork")
	c.JSON(http.StatusCreated, fanwork)
}

// @Summary Browse fanworks
// @Description List fanworks with optional filters, newest first
// @Tags fanworks
// @Produce json
// @Param type query []string false "Filter by type (repeatable)"
// @Param rating query []string false "Filter by rating (repeatable)"
// @Param tag query string false "Filter by tag name"
// @Param author query string false "Filter by author ID"
// @Param q query string false "Free-text search over title and description"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Fanwork
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /fanworks [get]
func GetAllFanworks(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	query := db.DB.Model(&models.Fanwork{}).Preload("Tags").Order("fanworks.created_at DESC")
	query = applyVisibility(query, identity)

	if types := c.QueryArray("type"); len(types) > 0 {
		query = query.Where("type IN ?", types)
	}
	if ratings := c.QueryArray("rating"); len(ratings) > 0 {
		query = query.Where("rating IN ?", ratings)
	}
	if author := c.Query("author"); author != "" {
		query = query.Where("author_id = ?", author)
	}
	if tag := c.Query("tag"); tag != "" {
		query = query.
			Joins("JOIN fanwork_tags ON fanworks.id = fanwork_tags.fanwork_id").
			Joins("JOIN tags ON tags.id = fanwork_tags.tag_id").
			Where("tags.name = ?", tag)
	}
	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	limit := 20
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
		if limit > 100 {
			limit = 100
		}
	}
	offset := 0
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	query = query.Limit(limit).Offset(offset)

	var fanworks []models.Fanwork
	if err := query.Find(&fanworks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving fanworks: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, fanworks)
}

// @Summary Browse mature fanworks
// @Description List mature and explicit fanworks, age-verified callers only
// @Tags fanworks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Fanwork
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Age verification required"
// @Router /browse/mature [get]
func GetMatureFanworks(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	query := db.DB.Model(&models.Fanwork{}).Preload("Tags").
		Where("rating IN ?", []models.Rating{models.Mature, models.Explicit}).
		Order("fanworks.created_at DESC")
	if identity == nil || !identity.Role.AtLeast(models.ModeratorRole) {
		ownerID := ""
		if identity != nil {
			ownerID = identity.UserID
		}
		query = query.Where("is_hidden = ? OR author_id = ?", false, ownerID)
	}

	var fanworks []models.Fanwork
	if err := query.Find(&fanworks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving fanworks: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, fanworks)
}

type fanworkDetail struct {
	models.Fanwork
	Counts          models.FanworkCounts `json:"counts"`
	RenderedContent string               `json:"renderedContent,omitempty"`
	// Derived from the reports table for moderators, never stored
	ReportCount *int64 `json:"reportCount,omitempty"`
}

// @Summary Get a fanwork by ID
// @Description Retrieve a fanwork with its derived counts and rendered text
// @Tags fanworks
// @Produce json
// @Param id path string true "Fanwork ID"
// @Success 200 {object} models.Fanwork
// @Failure 403 {object} map[string]string "error: Age verification required"
// @Failure 404 {object} map[string]string "error: Fanwork not found"
// @Router /fanworks/{id} [get]
func GetFanworkByID(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var fanwork models.Fanwork
	if err := db.DB.Preload("Tags").First(&fanwork, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fanwork not found"})
		return
	}

	if !VisibleTo(&fanwork, identity) {
		// Hidden works do not exist for ordinary callers
		c.JSON(http.StatusNotFound, gin.H{"error": "Fanwork not found"})
		return
	}

	if models.AgeGated(fanwork.Rating) && !ageExempt(&fanwork, identity) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Age verification required"})
		return
	}

	counts, err := GetCounts(fanwork.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error computing counts: " + err.Error()})
		return
	}

	detail := fanworkDetail{
		Fanwork: fanwork,
		Counts:  counts,
	}
	if fanwork.TextContent != "" {
		detail.RenderedContent = utils.RenderMarkdown(fanwork.TextContent)
	}
	if identity != nil && identity.Role.AtLeast(models.ModeratorRole) {
		var reportCount int64
		if err := db.DB.Model(&models.Report{}).Where("fanwork_id = ?", fanwork.ID).Count(&reportCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error computing report count: " + err.Error()})
			return
		}
		detail.ReportCount = &reportCount
	}

	c.JSON(http.StatusOK, detail)
}

// @Summary Get a fanwork's counts
// @Description Like/comment/bookmark counts, computed from the relation tables
// @Tags fanworks
// @Produce json
// @Param id path string true "Fanwork ID"
// @Success 200 {object} models.FanworkCounts
// @Failure 404 {object} map[string]string "error: Fanwork not found"
// @Router /fanworks/{id}/counts [get]
func GetFanworkCounts(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var fanwork models.Fanwork
	if err := db.DB.First(&fanwork, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fanwork not found"})
		return
	}

	if !VisibleTo(&fanwork, identity) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fanwork not found"})
		return
	}

	counts, err := GetCounts(fanwork.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error computing counts: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, counts)
}

// @Summary Update a fanwork
// @Description Update a fanwork's fields, owner or moderator only
// @Tags fanworks
// @Accept json
// @Produce json
// @Param id path string true "Fanwork ID"
// @Param fanwork body models.FanworkUpdate true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.Fanwork
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Forbidden"
// @Failure 404 {object} map[string]string "error: Fanwork not found"
// @Router /fanworks/{id} [put]
func UpdateFanwork(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var fanwork models.Fanwork
	if err := db.DB.Preload("Tags").First(&fanwork, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fanwork not found"})
		return
	}

	if fanwork.AuthorID != identity.UserID && !identity.Role.AtLeast(models.ModeratorRole) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to update this fanwork"})
		return
	}

	var input models.FanworkUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if input.Title != "" {
		fanwork.Title = input.Title
	}
	if input.Description != "" {
		fanwork.Description = input.Description
	}
	if input.Rating != "" {
		rating := models.Rating(input.Rating)
		if !models.ValidRating(rating) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rating"})
			return
		}
		if models.AgeGated(rating) && !identity.AgeVerified && !identity.Role.AtLeast(models.ModeratorRole) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Age verification required to publish mature content"})
			return
		}
		fanwork.Rating = rating
	}
	if input.TextContent != "" {
		fanwork.TextContent = input.TextContent
	}

	if input.Tags != nil {
		tags, err := resolveTags(db.DB, input.Tags)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error resolving tags: " + err.Error()})
			return
		}
		if err := db.DB.Model(&fanwork).Association("Tags").Replace(&tags); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating tags: " + err.Error()})
			return
		}
	}

	if err := db.DB.Save(&fanwork).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating fanwork: " + err.Error()})
		return
	}

	if err := db.DB.Preload("Tags").First(&fanwork, "id = ?", fanwork.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving updated fanwork: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(identity.UserID, "Fanwork successfully updated in UpdateFanwork")
	c.JSON(http.StatusOK, fanwork)
}

// @Summary Delete a fanwork
// @Description Hard delete with cascade to likes, bookmarks, comments and reports
// @Tags fanworks
// @Produce json
// @Param id path string true "Fanwork ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Fanwork deleted successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Forbidden"
// @Failure 404 {object} map[string]string "error: Fanwork not found"
// @Router /fanworks/{id} [delete]
func DeleteFanwork(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var fanwork models.Fanwork
	if err := db.DB.First(&fanwork, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fanwork not found"})
		return
	}

	if fanwork.AuthorID != identity.UserID && !identity.Role.AtLeast(models.ModeratorRole) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this fanwork"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&fanwork).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("fanwork_id = ?", fanwork.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("fanwork_id = ?", fanwork.ID).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		// Reports on the fanwork itself and on its comments go with it
		if err := tx.Where("fanwork_id = ?", fanwork.ID).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id IN (?)",
			tx.Model(&models.Comment{}).Select("id").Where("fanwork_id = ?", fanwork.ID),
		).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("fanwork_id = ?", fanwork.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&fanwork).Error
	})
	if err != nil {
		utils.LogErrorWithUser(identity.UserID, err, "Error deleting fanwork in DeleteFanwork")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting fanwork: " + err.Error()})
		return
	}

	if fanwork.FileURL != "" {
		_ = utils.DeleteImage(fanwork.FileURL)
	}

	utils.LogSuccessWithUser(identity.UserID, "Fanwork successfully deleted in DeleteFanwork")
	c.JSON(http.StatusOK, gin.H{"message": "Fanwork deleted successfully"})
}
