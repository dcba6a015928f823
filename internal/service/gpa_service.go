package service

import (
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/studentools-api/internal/dto"
	appErrors "github.com/noah-isme/studentools-api/pkg/errors"
)

// Supported GPA scales.
const (
	GPAScale4 = "4.0"
	GPAScale5 = "5.0"
)

var (
	gradeOrder4 = []string{"A", "B", "C", "D", "F"}

	gradeScales = map[string]map[string]float64{
		GPAScale4: {"A": 4, "B": 3, "C": 2, "D": 1, "F": 0},
		GPAScale5: {"A": 5, "B": 4, "C": 3, "D": 2, "E": 1, "F": 0},
	}
)

// GPAService computes credit-weighted grade point averages.
type GPAService struct {
	validator *validator.Validate
}

// NewGPAService constructs the calculator.
func NewGPAService(validate *validator.Validate) *GPAService {
	if validate == nil {
		validate = validator.New()
	}
	return &GPAService{validator: validate}
}

// Calculate returns the GPA rounded to two decimals. Any scale other than
// 5.0 uses the 4.0 mapping; unknown grades earn zero points but keep their credits.
func (s *GPAService) Calculate(req dto.GPARequest) (*dto.GPAResult, error) {
	if req.ScaleType == "" {
		req.ScaleType = GPAScale4
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid gpa payload")
	}

	scale := gradeScales[GPAScale4]
	if req.ScaleType == GPAScale5 {
		scale = gradeScales[GPAScale5]
	}

	var points, credits float64
	for _, course := range req.Courses {
		points += scale[strings.ToUpper(strings.TrimSpace(course.Grade))] * course.Credits
		credits += course.Credits
	}

	result := &dto.GPAResult{
		TotalCredits: credits,
		TotalCourses: len(req.Courses),
		ScaleType:    req.ScaleType,
	}
	if credits > 0 {
		result.GPA = math.Round(points/credits*100) / 100
	}
	return result, nil
}

// Scales lists both grade mappings and the grades accepted on the default scale.
func (s *GPAService) Scales() dto.GPAScales {
	scales := make(map[string]map[string]float64, len(gradeScales))
	for name, mapping := range gradeScales {
		copied := make(map[string]float64, len(mapping))
		for grade, value := range mapping {
			copied[grade] = value
		}
		scales[name] = copied
	}
	return dto.GPAScales{
		Scales:          scales,
		AvailableGrades: append([]string(nil), gradeOrder4...),
	}
}
