package models

import "time"

type ReportReason string

const (
	HARASSMENT      ReportReason = "HARASSMENT"
	SELF_HARM       ReportReason = "SELF_HARM"
	VIOLENCE        ReportReason = "VIOLENCE"
	NUDITY          ReportReason = "NUDITY"
	SPAM            ReportReason = "SPAM"
	PLAGIARISM      ReportReason = "PLAGIARISM"
	UNDERAGE_ACCESS ReportReason = "UNDERAGE_ACCESS"
	ILLEGAL_CONTENT ReportReason = "ILLEGAL_CONTENT"
)

var ValidReportReasons = []ReportReason{
	HARASSMENT, SELF_HARM, VIOLENCE, NUDITY,
	SPAM, PLAGIARISM, UNDERAGE_ACCESS, ILLEGAL_CONTENT,
}

type ReportStatus string

const (
	ReportPending   ReportStatus = "PENDING"
	ReportReviewed  ReportStatus = "REVIEWED"
	ReportResolved  ReportStatus = "RESOLVED"
	ReportDismissed ReportStatus = "DISMISSED"
)

// TerminalStatus reports whether no further transition is defined from s.
// Every status except PENDING is terminal.
func TerminalStatus(s ReportStatus) bool {
	return s == ReportReviewed || s == ReportResolved || s == ReportDismissed
}

// A report targets exactly one of a fanwork, a comment or a user.
type Report struct {
	ID               string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FanworkID        *string      `json:"fanworkId,omitempty" gorm:"column:fanwork_id;index"`
	CommentID        *string      `json:"commentId,omitempty" gorm:"column:comment_id;index"`
	TargetUserID     *string      `json:"targetUserId,omitempty" gorm:"column:target_user_id;index"`
	ReportedBy       string       `json:"reportedBy" gorm:"column:reported_by;not null"`
	Reason           ReportReason `json:"reason" gorm:"not null"`
	Description      string       `json:"description" gorm:"type:text"`
	Status           ReportStatus `json:"status" gorm:"size:20;default:'PENDING'"`
	ReviewedBy       string       `json:"reviewedBy,omitempty" gorm:"column:reviewed_by"`
	ReviewedAt       *time.Time   `json:"reviewedAt,omitempty" gorm:"column:reviewed_at"`
	ModerationAction string       `json:"moderationAction,omitempty" gorm:"column:moderation_action"`
	CreatedAt        time.Time    `json:"createdAt"`
}

type ReportCreate struct {
	FanworkID    string       `json:"fanworkId"`
	CommentID    string       `json:"commentId"`
	TargetUserID string       `json:"targetUserId"`
	Reason       ReportReason `json:"reason" binding:"required"`
	Description  string       `json:"description"`
}

type ReportReview struct {
	Status ReportStatus `json:"status" binding:"required"`
	Action string       `json:"action"`
}

func (Report) TableName() string {
	return "reports"
}
