package models

import (
	"database/sql"
	"time"
)

type Role string

const (
	UserRole      Role = "USER"
	ModeratorRole Role = "MODERATOR"
	AdminRole     Role = "ADMIN"
)

var roleRank = map[Role]int{
	UserRole:      1,
	ModeratorRole: 2,
	AdminRole:     3,
}

// AtLeast reports whether the role ranks at or above min (USER < MODERATOR < ADMIN).
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

func ValidRole(r Role) bool {
	_, ok := roleRank[r]
	return ok
}

type User struct {
	ID              string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email           string       `json:"email" gorm:"uniqueIndex;not null"`
	UserName        string       `json:"username" gorm:"column:user_name;uniqueIndex;not null"`
	Password        string       `json:"-" gorm:"not null"`
	Bio             string       `json:"bio"`
	ProfilePicture  string       `json:"profilePicture" gorm:"column:profile_picture"`
	Role            Role         `json:"role" gorm:"size:20;default:'USER'"`
	IsBanned        bool         `json:"isBanned" gorm:"column:is_banned;default:false"`
	BanReason       string       `json:"banReason,omitempty" gorm:"column:ban_reason"`
	BannedAt        *time.Time   `json:"bannedAt,omitempty" gorm:"column:banned_at"`
	BannedBy        string       `json:"bannedBy,omitempty" gorm:"column:banned_by"`
	AgeVerified     bool         `json:"ageVerified" gorm:"column:age_verified;default:false"`
	EmailVerifiedAt sql.NullTime `json:"-" gorm:"column:email_verified_at"`
	VerifyCode      string       `json:"-" gorm:"column:verify_code;size:40"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

type UserCreate struct {
	Email    string `json:"email" binding:"required"`
	UserName string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserLogin struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserUpdate struct {
	UserName       string `json:"username"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture"`
}

func (User) TableName() string {
	return "users"
}
