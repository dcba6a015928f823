package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studentools-api/internal/dto"
	appErrors "github.com/noah-isme/studentools-api/pkg/errors"
)

func TestParseHourTruncatesMinutes(t *testing.T) {
	hour, err := parseHour("09:45")
	require.NoError(t, err)
	assert.Equal(t, 9, hour)

	_, err = parseHour("nine")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestBuildScheduleGridRejectsInvertedWindow(t *testing.T) {
	_, _, err := buildScheduleGrid(dto.TimeConstraints{StartTime: "12:00", EndTime: "08:00"}, nil)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "INVALID_TIME_RANGE", appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "End time must be after start time", appErr.Message)

	_, _, err = buildScheduleGrid(dto.TimeConstraints{StartTime: "10:00", EndTime: "10:30"}, nil)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTimeRange))
}

func TestBuildScheduleGridDefaultsWindow(t *testing.T) {
	grid, window, err := buildScheduleGrid(dto.TimeConstraints{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, window.startHour)
	assert.Equal(t, 10, window.totalHours)
	assert.Len(t, grid.cells, daysPerWeek*10)
}

func TestBuildScheduleGridMarksFreePeriodsAndEvents(t *testing.T) {
	constraints := dto.TimeConstraints{
		StartTime: "08:00",
		EndTime:   "12:00",
		FreePeriods: []dto.FreePeriod{
			{Day: "Monday", StartTime: "07:00", EndTime: "09:00"},
			{Day: "Tuesday", StartTime: "09:00", EndTime: "11:00"},
			{Day: "Sunday", StartTime: "08:00", EndTime: "12:00"},
		},
	}
	events := []dto.FixedEvent{
		{Name: "Assembly", Day: "Tuesday", StartTime: "10:00", EndTime: "13:00"},
	}

	grid, _, err := buildScheduleGrid(constraints, events)
	require.NoError(t, err)

	assert.Equal(t, cellFree, grid.cell(0, 0).kind, "free period clipped to window start")
	assert.Equal(t, cellEmpty, grid.cell(0, 1).kind)
	assert.Equal(t, cellFree, grid.cell(1, 1).kind)
	assert.Equal(t, cellEvent, grid.cell(1, 2).kind, "fixed event overrides free period")
	assert.Equal(t, "Assembly", grid.cell(1, 2).label)
	assert.Equal(t, cellEvent, grid.cell(1, 3).kind, "fixed event clipped to window end")
	for day := 2; day < daysPerWeek; day++ {
		for hour := 0; hour < grid.hours; hour++ {
			assert.Equal(t, cellEmpty, grid.cell(day, hour).kind)
		}
	}
	assert.Equal(t, 2, grid.occupiedHours(1), "free cells do not count as occupied")
}

func TestBuildScheduleGridRejectsMalformedTimes(t *testing.T) {
	_, _, err := buildScheduleGrid(dto.TimeConstraints{
		FreePeriods: []dto.FreePeriod{{Day: "Monday", StartTime: "noon", EndTime: "13:00"}},
	}, nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestBuildScheduleGridIsIdempotent(t *testing.T) {
	constraints := dto.TimeConstraints{
		StartTime:   "08:00",
		EndTime:     "16:00",
		FreePeriods: []dto.FreePeriod{{Day: "Wednesday", StartTime: "12:00", EndTime: "13:00"}},
	}
	events := []dto.FixedEvent{
		{Name: "Lab", Day: "Friday", StartTime: "08:00", EndTime: "10:00"},
		{Name: "Sport", Day: "Monday", StartTime: "14:00", EndTime: "16:00"},
	}

	first, firstWindow, err := buildScheduleGrid(constraints, events)
	require.NoError(t, err)
	second, secondWindow, err := buildScheduleGrid(constraints, events)
	require.NoError(t, err)

	assert.Equal(t, firstWindow, secondWindow)
	assert.Equal(t, first.cells, second.cells)
}

func TestExpandCourseChunksSplitsLongCourses(t *testing.T) {
	chunks := expandCourseChunks([]dto.CourseRequest{
		{Name: "Physics", Duration: 5, PreferredDays: []string{"Monday"}},
	}, 2)

	require.Len(t, chunks, 3)
	durations := []int{chunks[0].Duration, chunks[1].Duration, chunks[2].Duration}
	assert.Equal(t, []int{2, 2, 1}, durations)
	for _, chunk := range chunks {
		assert.Equal(t, "Physics", chunk.Name)
		assert.Equal(t, []string{"Monday"}, chunk.PreferredDays)
		assert.True(t, chunk.allowsDay(0))
		assert.False(t, chunk.allowsDay(1))
	}
}

func TestExpandCourseChunksConservesDuration(t *testing.T) {
	courses := []dto.CourseRequest{
		{Name: "A", Duration: 7},
		{Name: "B", Duration: 3},
		{Name: "C", Duration: 1},
		{Name: "D", Duration: 9},
	}
	for _, maxSession := range []int{1, 2, 3, 4} {
		chunks := expandCourseChunks(courses, maxSession)
		totals := map[string]int{}
		for _, chunk := range chunks {
			assert.LessOrEqual(t, chunk.Duration, maxSession)
			assert.Greater(t, chunk.Duration, 0)
			totals[chunk.Name] += chunk.Duration
		}
		for _, course := range courses {
			assert.Equal(t, course.Duration, totals[course.Name], "max %d course %s", maxSession, course.Name)
		}
	}
}

func TestExpandCourseChunksWithoutLimitKeepsCourses(t *testing.T) {
	chunks := expandCourseChunks([]dto.CourseRequest{
		{Name: "Math", Duration: 6},
		{Name: "Math", Duration: 2},
		{Name: "Art", Duration: 1},
	}, 0)

	require.Len(t, chunks, 3)
	assert.Equal(t, 6, chunks[0].Duration)
	assert.Equal(t, chunks[0].Course, chunks[1].Course, "same name shares a course key")
	assert.NotEqual(t, chunks[0].Course, chunks[2].Course)
}

func TestSortChunksByDurationIsStable(t *testing.T) {
	chunks := expandCourseChunks([]dto.CourseRequest{
		{Name: "first", Duration: 1},
		{Name: "long", Duration: 3},
		{Name: "second", Duration: 1},
		{Name: "mid", Duration: 2},
	}, 0)
	sortChunksByDuration(chunks)

	names := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		names = append(names, chunk.Name)
	}
	assert.Equal(t, []string{"long", "mid", "first", "second"}, names)
}
