package dto

// CourseRequest describes a course to be placed on the weekly grid.
type CourseRequest struct {
	Name          string   `json:"name" validate:"required"`
	Duration      int      `json:"duration" validate:"required,min=1"`
	PreferredDays []string `json:"preferred_days"`
}

// FreePeriod blocks time that must stay unscheduled.
type FreePeriod struct {
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// FixedEvent is an already scheduled, immovable block.
type FixedEvent struct {
	Name      string `json:"name" validate:"required"`
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// TimeConstraints bounds the daily window.
type TimeConstraints struct {
	StartTime   string       `json:"start_time"`
	EndTime     string       `json:"end_time"`
	FreePeriods []FreePeriod `json:"free_periods" validate:"omitempty,dive"`
}

// TimetablePreferences carries optional tuning knobs.
//
// CompactSchedule, PreferredDays and MinBreakDuration are accepted for
// compatibility with existing clients but are not enforced by the solver.
type TimetablePreferences struct {
	CompactSchedule    bool     `json:"compact_schedule"`
	PreferredDays      []string `json:"preferred_days"`
	MaxHoursPerDay     *int     `json:"max_hours_per_day" validate:"omitempty,min=0"`
	MinBreakDuration   *int     `json:"min_break_duration" validate:"omitempty,min=0"`
	MaxSessionDuration *int     `json:"max_session_duration" validate:"omitempty,min=0"`
}

// GenerateTimetableRequest is the auto-timetable payload.
type GenerateTimetableRequest struct {
	Courses     []CourseRequest      `json:"courses" validate:"dive"`
	Constraints TimeConstraints      `json:"constraints"`
	FixedEvents []FixedEvent         `json:"fixed_events" validate:"omitempty,dive"`
	Preferences TimetablePreferences `json:"preferences"`
	// Seed makes the search order reproducible when set.
	Seed *int64 `json:"seed,omitempty"`
}

// TimetableEntry is one placed block in the generated timetable.
type TimetableEntry struct {
	CourseName string `json:"course_name"`
	Day        string `json:"day"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Color      string `json:"color"`
}

// GenerateTimetableResponse is returned for both feasible and infeasible inputs.
type GenerateTimetableResponse struct {
	Timetable []TimetableEntry `json:"timetable"`
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
}

// TimetableExportQuery selects the export format.
type TimetableExportQuery struct {
	Format string `form:"format"`
}
