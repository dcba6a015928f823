package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studentools-api/internal/dto"
	"github.com/noah-isme/studentools-api/internal/middleware"
	"github.com/noah-isme/studentools-api/internal/models"
	appErrors "github.com/noah-isme/studentools-api/pkg/errors"
)

type feedbackServiceMock struct {
	submitted dto.FeedbackRequest
	query     dto.FeedbackQuery
	accepted  *dto.FeedbackAccepted
	items     []models.Feedback
	page      *models.Pagination
	err       error
}

func (m *feedbackServiceMock) Submit(ctx context.Context, req dto.FeedbackRequest) (*dto.FeedbackAccepted, error) {
	m.submitted = req
	return m.accepted, m.err
}

func (m *feedbackServiceMock) List(ctx context.Context, query dto.FeedbackQuery) ([]models.Feedback, *models.Pagination, error) {
	m.query = query
	return m.items, m.page, m.err
}

func TestFeedbackSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &feedbackServiceMock{accepted: &dto.FeedbackAccepted{Message: "Feedback submitted successfully"}}
	h := &FeedbackHandler{service: svc}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/feedback/", bytes.NewBufferString(`{"type":"bug","message":"Export button broken"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Submit(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bug", svc.submitted.Type)
	assert.Equal(t, "Export button broken", svc.submitted.Message)
	var body map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Feedback submitted successfully", body["data"]["message"])
}

func TestFeedbackSubmitUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &FeedbackHandler{service: &feedbackServiceMock{err: appErrors.Clone(appErrors.ErrUnavailable, "feedback storage is not configured")}}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/feedback/", bytes.NewBufferString(`{"message":"hi"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Submit(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "SERVICE_UNAVAILABLE")
}

func TestFeedbackListIncludesPaginationAndRequester(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &feedbackServiceMock{
		items: []models.Feedback{{ID: "fb-1", Type: "general", Message: "Nice"}},
		page:  &models.Pagination{Page: 2, PageSize: 1, TotalCount: 3},
	}
	h := &FeedbackHandler{service: svc}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/feedback/?type=general&page=2&page_size=1", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.FeedbackQuery{Type: "general", Page: 2, PageSize: 1}, svc.query)
	var body struct {
		Data       []models.Feedback      `json:"data"`
		Pagination models.Pagination      `json:"pagination"`
		Meta       map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "fb-1", body.Data[0].ID)
	assert.Equal(t, 3, body.Pagination.TotalCount)
	assert.Equal(t, "admin-1", body.Meta["requested_by"])
}
