package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studentools-api/internal/dto"
	"github.com/noah-isme/studentools-api/internal/service"
	appErrors "github.com/noah-isme/studentools-api/pkg/errors"
	"github.com/noah-isme/studentools-api/pkg/response"
)

type gpaCalculator interface {
	Calculate(req dto.GPARequest) (*dto.GPAResult, error)
	Scales() dto.GPAScales
}

// GPAHandler exposes the GPA calculator.
type GPAHandler struct {
	service gpaCalculator
}

// NewGPAHandler constructs the handler.
func NewGPAHandler(svc *service.GPAService) *GPAHandler {
	return &GPAHandler{service: svc}
}

// Calculate godoc
// @Summary Calculate GPA
// @Tags GPA
// @Accept json
// @Produce json
// @Param payload body dto.GPARequest true "Graded courses and scale"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /gpa [post]
func (h *GPAHandler) Calculate(c *gin.Context) {
	var req dto.GPARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid gpa payload"))
		return
	}
	result, err := h.service.Calculate(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Scales godoc
// @Summary List GPA scales
// @Tags GPA
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gpa/scales [get]
func (h *GPAHandler) Scales(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Scales(), nil)
}
