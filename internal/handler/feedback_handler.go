package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studentools-api/internal/dto"
	"github.com/noah-isme/studentools-api/internal/models"
	"github.com/noah-isme/studentools-api/internal/service"
	appErrors "github.com/noah-isme/studentools-api/pkg/errors"
	"github.com/noah-isme/studentools-api/pkg/response"
)

type feedbackService interface {
	Submit(ctx context.Context, req dto.FeedbackRequest) (*dto.FeedbackAccepted, error)
	List(ctx context.Context, query dto.FeedbackQuery) ([]models.Feedback, *models.Pagination, error)
}

// FeedbackHandler accepts and lists user feedback.
type FeedbackHandler struct {
	service feedbackService
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: svc}
}

// Submit godoc
// @Summary Submit feedback
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body dto.FeedbackRequest true "Feedback"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /feedback/ [post]
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid feedback payload"))
		return
	}
	result, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List feedback (admin)
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Param type query string false "Feedback type"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /feedback/ [get]
func (h *FeedbackHandler) List(c *gin.Context) {
	var query dto.FeedbackQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid feedback query"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{}
	if claims := claimsFromContext(c); claims != nil {
		meta["requested_by"] = claims.UserID
	}
	response.JSON(c, http.StatusOK, items, pagination, meta)
}
