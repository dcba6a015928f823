package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studentools-api/internal/dto"
	"github.com/noah-isme/studentools-api/internal/service"
	appErrors "github.com/noah-isme/studentools-api/pkg/errors"
	"github.com/noah-isme/studentools-api/pkg/response"
)

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
}

type timetableExporter interface {
	Export(ctx context.Context, req dto.GenerateTimetableRequest, format string) (*service.TimetableExport, error)
}

// TimetableHandler exposes automatic timetable endpoints.
type TimetableHandler struct {
	generator timetableGenerator
	exporter  timetableExporter
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(generator *service.TimetableService, exporter *service.TimetableExporter) *TimetableHandler {
	return &TimetableHandler{generator: generator, exporter: exporter}
}

// Generate godoc
// @Summary Generate a weekly timetable
// @Description Places every course session into the Monday-Friday grid. Infeasible constraints return success=false.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Courses, constraints, fixed events and preferences"
// @Success 200 {object} dto.GenerateTimetableResponse
// @Failure 400 {object} response.Envelope
// @Router /auto-timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable payload"))
		return
	}
	result, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, result)
}

// Export godoc
// @Summary Generate a timetable and download it
// @Tags Timetable
// @Accept json
// @Produce application/pdf
// @Produce text/csv
// @Param format query string false "pdf or csv" default(pdf)
// @Param payload body dto.GenerateTimetableRequest true "Courses, constraints, fixed events and preferences"
// @Success 200 {file} file
// @Failure 422 {object} response.Envelope
// @Router /auto-timetable/export [post]
func (h *TimetableHandler) Export(c *gin.Context) {
	var query dto.TimetableExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable payload"))
		return
	}
	file, err := h.exporter.Export(c.Request.Context(), req, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
