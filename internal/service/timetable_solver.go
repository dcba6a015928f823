package service

import (
	"context"
	"errors"
)

// contextCheckInterval is how many placements happen between context checks.
const contextCheckInterval = 1024

var errSearchBudgetExhausted = errors.New("timetable search budget exhausted")

// orderSource randomises candidate order. *rand.Rand satisfies it.
type orderSource interface {
	Shuffle(n int, swap func(i, j int))
}

// identityOrder keeps candidates in ascending order; used for deterministic runs.
type identityOrder struct{}

func (identityOrder) Shuffle(int, func(i, j int)) {}

type placement struct {
	Day  int
	Hour int
}

type solverLimits struct {
	maxHoursPerDay  int
	sessionsLimited bool
	maxNodes        int
}

// searchFrame is the per-chunk state of the iterative depth-first search.
type searchFrame struct {
	chunk      int
	days       []int
	dayCursor  int
	hours      []int
	hourCursor int
	placed     bool
	at         placement
}

type timetableSolver struct {
	grid        *scheduleGrid
	chunks      []sessionChunk
	order       orderSource
	limits      solverLimits
	assignments []placement
	assigned    []bool
	nodes       int
}

func newTimetableSolver(grid *scheduleGrid, chunks []sessionChunk, order orderSource, limits solverLimits) *timetableSolver {
	if order == nil {
		order = identityOrder{}
	}
	return &timetableSolver{
		grid:        grid,
		chunks:      chunks,
		order:       order,
		limits:      limits,
		assignments: make([]placement, len(chunks)),
		assigned:    make([]bool, len(chunks)),
	}
}

// solve searches for the first placement of every chunk. It returns false
// with a nil error when the input is infeasible.
func (s *timetableSolver) solve(ctx context.Context) (bool, error) {
	if len(s.chunks) == 0 {
		return true, nil
	}

	stack := []*searchFrame{s.newFrame(0)}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		if frame.placed {
			s.undo(frame)
		}

		at, ok := s.nextCandidate(frame)
		if !ok {
			stack = stack[:len(stack)-1]
			continue
		}
		if err := s.tick(ctx); err != nil {
			return false, err
		}
		s.apply(frame, at)

		if frame.chunk+1 == len(s.chunks) {
			return true, nil
		}
		stack = append(stack, s.newFrame(frame.chunk+1))
	}
	return false, nil
}

func (s *timetableSolver) newFrame(chunkIdx int) *searchFrame {
	chunk := s.chunks[chunkIdx]
	days := s.shuffled(daysPerWeek)
	if chunk.hasPreference {
		ordered := make([]int, 0, len(days))
		for _, d := range days {
			if chunk.preferred[d] {
				ordered = append(ordered, d)
			}
		}
		for _, d := range days {
			if !chunk.preferred[d] {
				ordered = append(ordered, d)
			}
		}
		days = ordered
	}
	return &searchFrame{chunk: chunkIdx, days: days}
}

func (s *timetableSolver) nextCandidate(frame *searchFrame) (placement, bool) {
	chunk := s.chunks[frame.chunk]
	for frame.dayCursor < len(frame.days) {
		if frame.hours == nil {
			frame.hours = s.shuffled(s.grid.hours)
			frame.hourCursor = 0
		}
		day := frame.days[frame.dayCursor]
		for frame.hourCursor < len(frame.hours) {
			hour := frame.hours[frame.hourCursor]
			frame.hourCursor++
			if s.isSafe(chunk, day, hour) {
				return placement{Day: day, Hour: hour}, true
			}
		}
		frame.dayCursor++
		frame.hours = nil
	}
	return placement{}, false
}

func (s *timetableSolver) isSafe(chunk sessionChunk, day, start int) bool {
	if start+chunk.Duration > s.grid.hours {
		return false
	}
	if !s.grid.rangeEmpty(day, start, chunk.Duration) {
		return false
	}
	if !chunk.allowsDay(day) {
		return false
	}
	if s.limits.sessionsLimited && s.grid.dayHoldsCourse(day, chunk.Course) {
		return false
	}
	if s.limits.maxHoursPerDay > 0 && s.grid.occupiedHours(day)+chunk.Duration > s.limits.maxHoursPerDay {
		return false
	}
	return true
}

func (s *timetableSolver) apply(frame *searchFrame, at placement) {
	chunk := s.chunks[frame.chunk]
	s.grid.place(at.Day, at.Hour, chunk.Duration, chunk.Course, frame.chunk)
	s.assignments[frame.chunk] = at
	s.assigned[frame.chunk] = true
	frame.at = at
	frame.placed = true
}

func (s *timetableSolver) undo(frame *searchFrame) {
	chunk := s.chunks[frame.chunk]
	s.grid.release(frame.at.Day, frame.at.Hour, chunk.Duration)
	s.assigned[frame.chunk] = false
	frame.placed = false
}

func (s *timetableSolver) tick(ctx context.Context) error {
	s.nodes++
	if s.limits.maxNodes > 0 && s.nodes > s.limits.maxNodes {
		return errSearchBudgetExhausted
	}
	if s.nodes%contextCheckInterval == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (s *timetableSolver) shuffled(n int) []int {
	values := make([]int, n)
	for i := range values {
		values[i] = i
	}
	s.order.Shuffle(n, func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
	return values
}
