package models

import (
	"time"
)

// Same uniqueness rule as Like: one Bookmark row per (user, fanwork).
type Bookmark struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string    `json:"userId" gorm:"column:user_id;uniqueIndex:idx_bookmark_user_fanwork;not null"`
	FanworkID string    `json:"fanworkId" gorm:"column:fanwork_id;uniqueIndex:idx_bookmark_user_fanwork;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
