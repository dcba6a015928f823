package models

import "time"

// Feedback types accepted from clients; anything else is stored as given.
const (
	FeedbackTypeGeneral = "general"
	FeedbackTypeBug     = "bug"
	FeedbackTypeFeature = "feature"
	FeedbackTypeOther   = "other"
)

// Feedback is a user submission stored in the feedback table.
type Feedback struct {
	ID        string    `db:"id" json:"id"`
	Type      string    `db:"type" json:"type"`
	Message   string    `db:"message" json:"message"`
	Email     *string   `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}

// FeedbackFilter narrows feedback listings.
type FeedbackFilter struct {
	Type     string
	Page     int
	PageSize int
}
