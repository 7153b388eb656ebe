package models

import (
	"time"
)

// At most one Like row may exist per (user, fanwork); the composite unique
// index is what makes concurrent duplicate toggles converge.
type Like struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string    `json:"userId" gorm:"column:user_id;uniqueIndex:idx_like_user_fanwork;not null"`
	FanworkID string    `json:"fanworkId" gorm:"column:fanwork_id;uniqueIndex:idx_like_user_fanwork;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}
