package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/studentools-api/internal/dto"
	appErrors "github.com/noah-isme/studentools-api/pkg/errors"
	"github.com/noah-isme/studentools-api/pkg/export"
)

// Supported timetable export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var timetableExportHeaders = []string{"Course", "Day", "Start", "End", "Color"}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// TimetableExport is a rendered timetable document.
type TimetableExport struct {
	Filename    string
	ContentType string
	Body        []byte
}

// TimetableExporter renders generated timetables as downloadable files.
type TimetableExporter struct {
	generator timetableGenerator
	csv       csvRenderer
	pdf       pdfRenderer
}

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
}

// NewTimetableExporter constructs an exporter; nil renderers fall back to the defaults.
func NewTimetableExporter(generator timetableGenerator, csv csvRenderer, pdf pdfRenderer) *TimetableExporter {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &TimetableExporter{generator: generator, csv: csv, pdf: pdf}
}

// Export generates the timetable and renders it in the requested format.
func (e *TimetableExporter) Export(ctx context.Context, req dto.GenerateTimetableRequest, format string) (*TimetableExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatPDF
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	result, err := e.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, appErrors.Clone(appErrors.ErrUnprocessable, result.Message)
	}

	data := timetableDataset(result.Timetable)
	switch format {
	case ExportFormatCSV:
		body, err := e.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable csv")
		}
		return &TimetableExport{Filename: "timetable.csv", ContentType: "text/csv", Body: body}, nil
	default:
		body, err := e.pdf.Render(data, "Weekly Timetable")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable pdf")
		}
		return &TimetableExport{Filename: "timetable.pdf", ContentType: "application/pdf", Body: body}, nil
	}
}

// timetableDataset orders entries by weekday then start time for printing.
func timetableDataset(entries []dto.TimetableEntry) export.Dataset {
	rows := make([]map[string]string, 0, len(entries))
	for _, day := range weekDays {
		dayRows := make([]dto.TimetableEntry, 0)
		for _, entry := range entries {
			if entry.Day == day {
				dayRows = append(dayRows, entry)
			}
		}
		sortEntriesByStart(dayRows)
		for _, entry := range dayRows {
			rows = append(rows, entryRow(entry))
		}
	}
	// entries on unrecognised days (fixed events only) go last, in input order
	for _, entry := range entries {
		if _, ok := weekDayIndex(entry.Day); !ok {
			rows = append(rows, entryRow(entry))
		}
	}
	return export.Dataset{Headers: timetableExportHeaders, Rows: rows, FillColumn: "Color"}
}

func entryRow(entry dto.TimetableEntry) map[string]string {
	return map[string]string{
		"Course": entry.CourseName,
		"Day":    entry.Day,
		"Start":  entry.StartTime,
		"End":    entry.EndTime,
		"Color":  entry.Color,
	}
}

func sortEntriesByStart(entries []dto.TimetableEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].StartTime < entries[j-1].StartTime; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}
