package middleware

import (
	"errors"
	"net/http"
	"strings"

	"fanhub-backend/db"
	"fanhub-backend/models"
	"fanhub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// IdentityKey is the gin context key under which the resolved identity is stored.
const IdentityKey = "identity"

// Identity is the caller resolved once per request: the handlers never touch
// raw JWT claims.
type Identity struct {
	UserID      string
	Role        models.Role
	IsBanned    bool
	AgeVerified bool
}

// CurrentIdentity returns the resolved identity, or nil for anonymous callers.
func CurrentIdentity(c *gin.Context) *Identity {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	identity, ok := v.(*Identity)
	if !ok {
		return nil
	}
	return identity
}

func extractBearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	authHeader = strings.Trim(authHeader, "\"' ")

	if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		authHeader = "Bearer " + authHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}

	return strings.Trim(parts[1], "\"' "), true
}

// resolveIdentity validates the bearer token and loads the user row behind it.
// A token whose subject no longer exists is treated as invalid.
func resolveIdentity(c *gin.Context) (*Identity, error) {
	tokenString, ok := extractBearerToken(c)
	if !ok {
		return nil, errors.New("authorization header missing or malformed")
	}

	claims, err := utils.DecodeJWT(tokenString)
	if err != nil {
		return nil, errors.New("invalid or expired token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, errors.New("user not found in token")
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user no longer exists")
		}
		return nil, err
	}

	return &Identity{
		UserID:      user.ID,
		Role:        user.Role,
		IsBanned:    user.IsBanned,
		AgeVerified: user.AgeVerified,
	}, nil
}

// JWTAuth requires a valid credential and stores the resolved identity.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolveIdentity(c)
		if err != nil {
			utils.SendError(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}
		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// OptionalAuth resolves the identity when a credential is present but lets
// anonymous callers through.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, err := resolveIdentity(c); err == nil {
			c.Set(IdentityKey, identity)
		}
		c.Next()
	}
}

// RequireNotBanned blocks banned callers whatever their role. It must be
// chained after JWTAuth and before any role check.
func RequireNotBanned() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil {
			utils.SendError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if identity.IsBanned {
			utils.SendError(c, http.StatusForbidden, "account is banned")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole blocks callers whose role ranks below min.
func RequireRole(min models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil {
			utils.SendError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if !identity.Role.AtLeast(min) {
			utils.SendError(c, http.StatusForbidden, "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAgeVerified gates routes serving mature or explicit material.
func RequireAgeVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil {
			utils.SendError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if !identity.AgeVerified {
			utils.SendError(c, http.StatusForbidden, "age verification required")
			c.Abort()
			return
		}
		c.Next()
	}
}
