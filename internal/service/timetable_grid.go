package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/studentools-api/internal/dto"
	appErrors "github.com/noah-isme/studentools-api/pkg/errors"
)

const (
	defaultDayStart = "08:00"
	defaultDayEnd   = "18:00"
)

const daysPerWeek = 5

var weekDays = [daysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

func weekDayIndex(label string) (int, bool) {
	for i, day := range weekDays {
		if day == label {
			return i, true
		}
	}
	return 0, false
}

// parseHour reads the hour component of an HH:MM string; minutes are ignored.
func parseHour(raw string) (int, error) {
	hourPart := strings.TrimSpace(raw)
	if idx := strings.Index(hourPart, ":"); idx >= 0 {
		hourPart = hourPart[:idx]
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid time %q, expected HH:MM", raw))
	}
	return hour, nil
}

func formatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellFree
	cellEvent
	cellCourse
)

// gridCell is a tagged occupancy value. course and chunk are meaningful for
// cellCourse only; label for cellEvent only.
type gridCell struct {
	kind   cellKind
	course int
	chunk  int
	label  string
}

// scheduleGrid is a flat days×hours arena addressed by day*hours+hour.
type scheduleGrid struct {
	hours int
	cells []gridCell
}

func newScheduleGrid(hours int) *scheduleGrid {
	return &scheduleGrid{
		hours: hours,
		cells: make([]gridCell, daysPerWeek*hours),
	}
}

func (g *scheduleGrid) index(day, hour int) int {
	return day*g.hours + hour
}

func (g *scheduleGrid) cell(day, hour int) gridCell {
	return g.cells[g.index(day, hour)]
}

// mark writes value over [from, to) on day, clipped to the valid hour range.
func (g *scheduleGrid) mark(day, from, to int, value gridCell) {
	if from < 0 {
		from = 0
	}
	if to > g.hours {
		to = g.hours
	}
	for h := from; h < to; h++ {
		g.cells[g.index(day, h)] = value
	}
}

func (g *scheduleGrid) rangeEmpty(day, start, length int) bool {
	for h := start; h < start+length; h++ {
		if g.cells[g.index(day, h)].kind != cellEmpty {
			return false
		}
	}
	return true
}

func (g *scheduleGrid) dayHoldsCourse(day, course int) bool {
	for h := 0; h < g.hours; h++ {
		c := g.cells[g.index(day, h)]
		if c.kind == cellCourse && c.course == course {
			return true
		}
	}
	return false
}

// occupiedHours counts event and course cells; free periods do not count.
func (g *scheduleGrid) occupiedHours(day int) int {
	total := 0
	for h := 0; h < g.hours; h++ {
		switch g.cells[g.index(day, h)].kind {
		case cellEvent, cellCourse:
			total++
		}
	}
	return total
}

func (g *scheduleGrid) place(day, start, length, course, chunk int) {
	g.mark(day, start, start+length, gridCell{kind: cellCourse, course: course, chunk: chunk})
}

func (g *scheduleGrid) release(day, start, length int) {
	g.mark(day, start, start+length, gridCell{})
}

// timeWindow is the daily scheduling window in whole hours.
type timeWindow struct {
	startHour  int
	totalHours int
}

func (w timeWindow) offset(raw string) (int, error) {
	hour, err := parseHour(raw)
	if err != nil {
		return 0, err
	}
	return hour - w.startHour, nil
}

func resolveWindow(constraints dto.TimeConstraints) (timeWindow, error) {
	startRaw := constraints.StartTime
	if startRaw == "" {
		startRaw = defaultDayStart
	}
	endRaw := constraints.EndTime
	if endRaw == "" {
		endRaw = defaultDayEnd
	}
	start, err := parseHour(startRaw)
	if err != nil {
		return timeWindow{}, err
	}
	end, err := parseHour(endRaw)
	if err != nil {
		return timeWindow{}, err
	}
	if end-start <= 0 {
		return timeWindow{}, appErrors.Clone(appErrors.ErrInvalidTimeRange, "")
	}
	return timeWindow{startHour: start, totalHours: end - start}, nil
}

// buildScheduleGrid seeds a fresh grid with free periods, then fixed events.
// Fixed events win where both cover the same cell.
func buildScheduleGrid(constraints dto.TimeConstraints, events []dto.FixedEvent) (*scheduleGrid, timeWindow, error) {
	window, err := resolveWindow(constraints)
	if err != nil {
		return nil, timeWindow{}, err
	}
	grid := newScheduleGrid(window.totalHours)

	for _, fp := range constraints.FreePeriods {
		day, ok := weekDayIndex(fp.Day)
		if !ok {
			continue
		}
		from, to, err := window.span(fp.StartTime, fp.EndTime)
		if err != nil {
			return nil, timeWindow{}, err
		}
		grid.mark(day, from, to, gridCell{kind: cellFree})
	}

	for _, fe := range events {
		day, ok := weekDayIndex(fe.Day)
		if !ok {
			continue
		}
		from, to, err := window.span(fe.StartTime, fe.EndTime)
		if err != nil {
			return nil, timeWindow{}, err
		}
		grid.mark(day, from, to, gridCell{kind: cellEvent, label: fe.Name})
	}

	return grid, window, nil
}

func (w timeWindow) span(startRaw, endRaw string) (int, int, error) {
	from, err := w.offset(startRaw)
	if err != nil {
		return 0, 0, err
	}
	to, err := w.offset(endRaw)
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

// sessionChunk is a placeable piece of a course.
type sessionChunk struct {
	Name          string
	Course        int
	Duration      int
	PreferredDays []string

	hasPreference bool
	preferred     [daysPerWeek]bool
}

func (c sessionChunk) allowsDay(day int) bool {
	return !c.hasPreference || c.preferred[day]
}

// expandCourseChunks splits courses longer than maxSession into consecutive
// pieces of at most maxSession hours. maxSession <= 0 disables splitting.
// Courses sharing a name share a course key.
func expandCourseChunks(courses []dto.CourseRequest, maxSession int) []sessionChunk {
	keys := make(map[string]int, len(courses))
	chunks := make([]sessionChunk, 0, len(courses))
	for _, course := range courses {
		key, ok := keys[course.Name]
		if !ok {
			key = len(keys)
			keys[course.Name] = key
		}
		base := sessionChunk{
			Name:          course.Name,
			Course:        key,
			PreferredDays: course.PreferredDays,
			hasPreference: len(course.PreferredDays) > 0,
		}
		for _, label := range course.PreferredDays {
			if day, ok := weekDayIndex(label); ok {
				base.preferred[day] = true
			}
		}

		if maxSession <= 0 || course.Duration <= maxSession {
			base.Duration = course.Duration
			chunks = append(chunks, base)
			continue
		}
		for remaining := course.Duration; remaining > 0; {
			piece := remaining
			if piece > maxSession {
				piece = maxSession
			}
			chunk := base
			chunk.Duration = piece
			chunks = append(chunks, chunk)
			remaining -= piece
		}
	}
	return chunks
}

// sortChunksByDuration orders longest first, keeping input order among ties.
func sortChunksByDuration(chunks []sessionChunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Duration > chunks[j].Duration
	})
}
