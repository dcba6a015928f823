package dto

// GPACourse is a graded course contributing to the GPA.
type GPACourse struct {
	Name    string  `json:"name,omitempty"`
	Grade   string  `json:"grade" validate:"required"`
	Credits float64 `json:"credits" validate:"gt=0"`
}

// GPARequest is the GPA calculator payload.
type GPARequest struct {
	Courses   []GPACourse `json:"courses" validate:"required,min=1,dive"`
	ScaleType string      `json:"scale_type"`
}

// GPAResult is the computed grade point average.
type GPAResult struct {
	GPA          float64 `json:"gpa"`
	TotalCredits float64 `json:"total_credits"`
	TotalCourses int     `json:"total_courses"`
	ScaleType    string  `json:"scale_type"`
}

// GPAScales lists the supported grade point mappings.
type GPAScales struct {
	Scales          map[string]map[string]float64 `json:"scales"`
	AvailableGrades []string                      `json:"available_grades"`
}
