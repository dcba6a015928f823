package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/studentools-api/internal/dto"
	"github.com/noah-isme/studentools-api/internal/models"
	appErrors "github.com/noah-isme/studentools-api/pkg/errors"
	"github.com/noah-isme/studentools-api/pkg/jobs"
)

const (
	feedbackJobType     = "feedback.email"
	msgFeedbackReceived = "Feedback received successfully"
	defaultFeedbackPage = 20
)

type feedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error)
}

type mailSender interface {
	Enabled() bool
	Send(ctx context.Context, subject, html string) error
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// FeedbackService stores feedback and notifies the site owner.
type FeedbackService struct {
	repo      feedbackStore
	mailer    mailSender
	queue     jobEnqueuer
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewFeedbackService wires dependencies. A nil repo makes every call report the store as unavailable.
func NewFeedbackService(repo feedbackStore, mailer mailSender, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{
		repo:      repo,
		mailer:    mailer,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// UseQueue routes notifications through queue; without one they are not sent.
func (s *FeedbackService) UseQueue(queue jobEnqueuer) {
	s.queue = queue
}

// Submit persists the feedback and schedules an e-mail notification.
func (s *FeedbackService) Submit(ctx context.Context, req dto.FeedbackRequest) (*dto.FeedbackAccepted, error) {
	if s.repo == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "feedback storage unavailable")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}

	feedback := &models.Feedback{
		ID:        uuid.NewString(),
		Type:      normaliseFeedbackType(req.Type),
		Message:   strings.TrimSpace(req.Message),
		Email:     normaliseEmail(req.Email),
		CreatedAt: s.now().UTC(),
	}
	if feedback.Message == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message is required")
	}

	start := time.Now()
	err := s.repo.Create(ctx, feedback)
	s.metrics.ObserveDBQuery("feedback_create", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store feedback")
	}

	s.scheduleNotification(*feedback)
	return &dto.FeedbackAccepted{Message: msgFeedbackReceived}, nil
}

// List returns stored feedback, newest first.
func (s *FeedbackService) List(ctx context.Context, query dto.FeedbackQuery) ([]models.Feedback, *models.Pagination, error) {
	if s.repo == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrUnavailable, "feedback storage unavailable")
	}
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback query")
	}
	page := query.Page
	if page == 0 {
		page = 1
	}
	size := query.PageSize
	if size == 0 {
		size = defaultFeedbackPage
	}

	start := time.Now()
	items, total, err := s.repo.List(ctx, models.FeedbackFilter{Type: strings.ToLower(query.Type), Page: page, PageSize: size})
	s.metrics.ObserveDBQuery("feedback_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
	}
	if items == nil {
		items = []models.Feedback{}
	}
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// HandleNotification is the queue handler delivering one feedback e-mail.
func (s *FeedbackService) HandleNotification(ctx context.Context, job jobs.Job) error {
	feedback, ok := job.Payload.(models.Feedback)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", job.Payload, job.Type)
	}
	if err := s.mailer.Send(ctx, feedbackSubject(feedback.Type), feedbackHTML(feedback)); err != nil {
		s.metrics.RecordNotification(NotificationFailed)
		return err
	}
	s.metrics.RecordNotification(NotificationSent)
	return nil
}

func (s *FeedbackService) scheduleNotification(feedback models.Feedback) {
	if s.queue == nil || s.mailer == nil || !s.mailer.Enabled() {
		return
	}
	err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: feedbackJobType, Payload: feedback})
	if err != nil {
		level := s.logger.Warn
		if errors.Is(err, jobs.ErrQueueStopped) {
			level = s.logger.Error
		}
		level("feedback notification not queued", zap.String("feedback_id", feedback.ID), zap.Error(err))
	}
}

func normaliseFeedbackType(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return models.FeedbackTypeGeneral
	}
	return value
}

func normaliseEmail(raw *string) *string {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}
	return &value
}

func feedbackSubject(kind string) string {
	if kind == "" {
		return "StuDenTools Feedback"
	}
	return "StuDenTools Feedback: " + strings.ToUpper(kind[:1]) + kind[1:]
}

func feedbackHTML(feedback models.Feedback) string {
	sender := "Anonymous"
	if feedback.Email != nil {
		sender = *feedback.Email
	}
	var b strings.Builder
	b.WriteString("<h3>New Feedback Received</h3>")
	fmt.Fprintf(&b, "<p><strong>Type:</strong> %s</p>", html.EscapeString(feedback.Type))
	fmt.Fprintf(&b, "<p><strong>Message:</strong><br>%s</p>", strings.ReplaceAll(html.EscapeString(feedback.Message), "\n", "<br>"))
	fmt.Fprintf(&b, "<p><strong>User Email:</strong> %s</p>", html.EscapeString(sender))
	return b.String()
}
