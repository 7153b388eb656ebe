package models

import (
	"time"
)

type FanworkType string

const (
	Artwork    FanworkType = "ARTWORK"
	Fanfiction FanworkType = "FANFICTION"
	Comic      FanworkType = "COMIC"
)

type Rating string

const (
	AllAges  Rating = "ALL_AGES"
	Teen     Rating = "TEEN"
	Mature   Rating = "MATURE"
	Explicit Rating = "EXPLICIT"
)

func ValidFanworkType(t FanworkType) bool {
	switch t {
	case Artwork, Fanfiction, Comic:
		return true
	}
	return false
}

func ValidRating(r Rating) bool {
	switch r {
	case AllAges, Teen, Mature, Explicit:
		return true
	}
	return false
}

// AgeGated reports whether the rating requires an age-verified viewer.
func AgeGated(r Rating) bool {
	return r == Mature || r == Explicit
}

type Fanwork struct {
	ID          string      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title       string      `json:"title" gorm:"not null"`
	Description string      `json:"description" gorm:"type:text"`
	Type        FanworkType `json:"type" gorm:"size:20;not null"`
	Rating      Rating      `json:"rating" gorm:"size:20;not null"`
	TextContent string      `json:"textContent,omitempty" gorm:"column:text_content;type:text"`
	FileURL     string      `json:"fileUrl,omitempty" gorm:"column:file_url"`
	AuthorID    string      `json:"authorId" gorm:"column:author_id;index;not null"`
	Tags        []Tag       `json:"tags" gorm:"many2many:fanwork_tags;"`

	IsHidden         bool       `json:"isHidden" gorm:"column:is_hidden;default:false"`
	ModerationReason string     `json:"moderationReason,omitempty" gorm:"column:moderation_reason"`
	ModeratedAt      *time.Time `json:"moderatedAt,omitempty" gorm:"column:moderated_at"`
	ModeratedBy      string     `json:"moderatedBy,omitempty" gorm:"column:moderated_by"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FanworkCounts are always recomputed from the relation tables, never cached.
type FanworkCounts struct {
	Likes     int64 `json:"likes"`
	Comments  int64 `json:"comments"`
	Bookmarks int64 `json:"bookmarks"`
}

type FanworkCreate struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Type        string   `json:"type" binding:"required"`
	Rating      string   `json:"rating" binding:"required"`
	TextContent string   `json:"textContent"`
	Tags        []string `json:"tags"`
}

type FanworkUpdate struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Rating      string   `json:"rating"`
	TextContent string   `json:"textContent"`
	Tags        []string `json:"tags"`
}

func (Fanwork) TableName() string {
	return "fanworks"
}
