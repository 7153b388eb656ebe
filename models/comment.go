package models

import (
	"time"
)

type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FanworkID string    `json:"fanworkId" gorm:"column:fanwork_id;index;not null"`
	UserID    string    `json:"userId" gorm:"column:user_id;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

type CommentCreate struct {
	Content string `json:"content" binding:"required"`
}

func (Comment) TableName() string {
	return "comments"
}
