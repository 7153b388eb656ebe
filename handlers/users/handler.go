package users

import (
	"net/http"

	"fanhub-backend/db"
	"fanhub-backend/middleware"
	"fanhub-backend/models"
	"fanhub-backend/utils"

	"github.com/gin-gonic/gin"
)

// @Summary Get own profile
// @Description Retrieve the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /users/me [get]
func GetMyProfile(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", identity.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Update own profile
// @Description Update username, bio or profile picture
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.UserUpdate true "Profile fields"
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 409 {object} map[string]string "error: Username already used"
// @Router /users/me [put]
func UpdateMyProfile(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var input models.UserUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", identity.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if input.UserName != "" && input.UserName != user.UserName {
		if !utils.ValidateUsername(input.UserName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username format"})
			return
		}
		var existing models.User
		if err := db.DB.Where("user_name = ? AND id <> ?", input.UserName, user.ID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "This username is already used"})
			return
		}
		user.UserName = input.UserName
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.ProfilePicture != "" {
		user.ProfilePicture = input.ProfilePicture
	}

	if err := db.DB.Save(&user).Error; err != nil {
		utils.LogErrorWithUser(user.ID, err, "Error updating profile in UpdateMyProfile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating profile: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(user.ID, "Profile successfully updated in UpdateMyProfile")
	c.JSON(http.StatusOK, user)
}

// @Summary Get a public profile
// @Description Retrieve a user's public profile by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string "error: User not found"
// @Router /users/{id} [get]
func GetUserByID(c *gin.Context) {
	var user models.User
	if err := db.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary List all users (moderator only)
// @Description Retrieve all users, newest first
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Forbidden"
// @Router /users [get]
func GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := db.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving users: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

type roleUpdate struct {
	Role models.Role `json:"role" binding:"required"`
}

// @Summary Change a user's role (admin only)
// @Description Set the role of the target user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param role body roleUpdate true "New role"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Role updated"
// @Failure 400 {object} map[string]string "error: Invalid role"
// @Failure 403 {object} map[string]string "error: Forbidden"
// @Failure 404 {object} map[string]string "error: User not found"
// @Router /users/{id}/role [put]
func UpdateUserRole(c *gin.Context) {
	var input roleUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if !models.ValidRole(input.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := db.DB.Model(&user).Update("role", input.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating role: " + err.Error()})
		return
	}

	identity := middleware.CurrentIdentity(c)
	utils.LogSuccessWithUser(identity.UserID, "Role successfully updated in UpdateUserRole")
	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully"})
}

// @Summary Mark a user as age-verified (moderator only)
// @Description Grant or revoke access to age-gated content
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Age verification updated"
// @Failure 403 {object} map[string]string "error: Forbidden"
// @Failure 404 {object} map[string]string "error: User not found"
// @Router /users/{id}/age-verify [put]
func SetAgeVerified(c *gin.Context) {
	var input struct {
		AgeVerified bool `json:"ageVerified"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := db.DB.Model(&user).Update("age_verified", input.AgeVerified).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating age verification: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Age verification updated successfully"})
}
