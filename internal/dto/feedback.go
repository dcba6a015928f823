package dto

// FeedbackRequest is a user feedback submission.
type FeedbackRequest struct {
	Type    string  `json:"type" validate:"omitempty,max=32"`
	Message string  `json:"message" validate:"required,max=5000"`
	Email   *string `json:"email" validate:"omitempty,email"`
}

// FeedbackQuery pages through stored feedback.
type FeedbackQuery struct {
	Type     string `form:"type"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// FeedbackAccepted acknowledges a submission.
type FeedbackAccepted struct {
	Message string `json:"message"`
}
