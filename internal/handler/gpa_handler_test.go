package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studentools-api/internal/service"
)

func newGPARouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewGPAHandler(service.NewGPAService(nil))
	router := gin.New()
	router.POST("/api/gpa", h.Calculate)
	router.GET("/api/gpa/scales", h.Scales)
	return router
}

func TestGPAHandlerCalculate(t *testing.T) {
	router := newGPARouter()
	body := `{"courses":[{"name":"Math","grade":"A","credits":3},{"name":"Art","grade":"B","credits":2}],"scale_type":"4.0"}`
	req := httptest.NewRequest(http.MethodPost, "/api/gpa", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"gpa":3.6,"total_credits":5,"total_courses":2,"scale_type":"4.0"}}`, w.Body.String())
}

func TestGPAHandlerRejectsEmptyCourses(t *testing.T) {
	router := newGPARouter()
	req := httptest.NewRequest(http.MethodPost, "/api/gpa", bytes.NewBufferString(`{"courses":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestGPAHandlerScales(t *testing.T) {
	router := newGPARouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/gpa/scales", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Scales map[string]map[string]float64 `json:"scales"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 5.0, body.Data.Scales["5.0"]["A"])
	assert.Equal(t, 4.0, body.Data.Scales["4.0"]["A"])
}
