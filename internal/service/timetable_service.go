package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/noah-isme/studentools-api/internal/dto"
	appErrors "github.com/noah-isme/studentools-api/pkg/errors"
)

const (
	timetableCachePrefix = "timetable:v1:"
	fixedEventColor      = "#6b7280"

	msgTimetableGenerated  = "Timetable generated successfully"
	msgTimetableInfeasible = "Could not generate a valid timetable with given constraints"
	msgTimetableBudget     = "Timetable search budget exhausted"
)

var timetablePalette = []string{
	"#3b82f6", "#ef4444", "#10b981", "#f59e0b", "#8b5cf6",
	"#ec4899", "#06b6d4", "#84cc16", "#f97316", "#6366f1",
}

var timetableTracer = otel.Tracer("studentools/timetable")

type timetableCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// TimetableConfig governs generator behaviour.
type TimetableConfig struct {
	// MaxSearchNodes caps placements per request; zero means unlimited.
	MaxSearchNodes int
	// MaxCourses caps courses per request; zero means unlimited.
	MaxCourses int
	CacheTTL   time.Duration
}

// TimetableService builds weekly timetables with a backtracking search.
type TimetableService struct {
	validator *validator.Validate
	cache     timetableCache
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       TimetableConfig
	newOrder  func(seed *int64) orderSource
}

// NewTimetableService wires generator dependencies. cache and metrics may be nil.
func NewTimetableService(validate *validator.Validate, cache timetableCache, metrics *MetricsService, logger *zap.Logger, cfg TimetableConfig) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		validator: validate,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		newOrder:  randomOrder,
	}
}

// randomOrder returns a per-request source; math/rand sources are not safe for concurrent use.
func randomOrder(seed *int64) orderSource {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Generate validates the request, solves it and assembles the timetable.
// Infeasible input yields Success=false rather than an error.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}
	if s.cfg.MaxCourses > 0 && len(req.Courses) > s.cfg.MaxCourses {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("courses exceeds supported limit of %d", s.cfg.MaxCourses))
	}

	cacheKey := s.cacheKey(req)
	if cacheKey != "" {
		var cached dto.GenerateTimetableResponse
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, nil
		}
	}

	ctx, span := timetableTracer.Start(ctx, "timetable.generate")
	defer span.End()

	grid, window, err := buildScheduleGrid(req.Constraints, req.FixedEvents)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	maxSession := positive(req.Preferences.MaxSessionDuration)
	chunks := expandCourseChunks(req.Courses, maxSession)
	sortChunksByDuration(chunks)
	s.logIgnoredPreferences(req.Preferences)

	solver := newTimetableSolver(grid, chunks, s.newOrder(req.Seed), solverLimits{
		maxHoursPerDay:  positive(req.Preferences.MaxHoursPerDay),
		sessionsLimited: maxSession > 0,
		maxNodes:        s.cfg.MaxSearchNodes,
	})

	started := time.Now()
	solved, err := solver.solve(ctx)
	elapsed := time.Since(started)
	span.SetAttributes(
		attribute.Int("timetable.courses", len(req.Courses)),
		attribute.Int("timetable.chunks", len(chunks)),
		attribute.Int("timetable.hours_per_day", window.totalHours),
		attribute.Int("timetable.search_nodes", solver.nodes),
	)

	var resp *dto.GenerateTimetableResponse
	switch {
	case errors.Is(err, errSearchBudgetExhausted):
		s.observe(span, TimetableOutcomeBudget, solver.nodes, elapsed)
		s.logger.Warn("timetable search budget exhausted", zap.Int("nodes", solver.nodes), zap.Int("chunks", len(chunks)))
		return &dto.GenerateTimetableResponse{Timetable: []dto.TimetableEntry{}, Success: false, Message: msgTimetableBudget}, nil
	case err != nil:
		s.observe(span, TimetableOutcomeAborted, solver.nodes, elapsed)
		span.SetStatus(codes.Error, err.Error())
		return nil, appErrors.Wrap(err, appErrors.ErrSearchAborted.Code, appErrors.ErrSearchAborted.Status, appErrors.ErrSearchAborted.Message)
	case !solved:
		s.observe(span, TimetableOutcomeInfeasible, solver.nodes, elapsed)
		resp = &dto.GenerateTimetableResponse{Timetable: []dto.TimetableEntry{}, Success: false, Message: msgTimetableInfeasible}
	default:
		s.observe(span, TimetableOutcomeSolved, solver.nodes, elapsed)
		resp = &dto.GenerateTimetableResponse{
			Timetable: assembleTimetable(window, chunks, solver.assignments, solver.assigned, req.FixedEvents),
			Success:   true,
			Message:   msgTimetableGenerated,
		}
	}

	s.logger.Debug("timetable generated",
		zap.Bool("success", resp.Success),
		zap.Int("chunks", len(chunks)),
		zap.Int("nodes", solver.nodes),
		zap.Duration("elapsed", elapsed),
	)

	if cacheKey != "" {
		_ = s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL)
	}
	return resp, nil
}

// assembleTimetable maps assignments back to clock time, then appends fixed events verbatim.
func assembleTimetable(window timeWindow, chunks []sessionChunk, assignments []placement, assigned []bool, events []dto.FixedEvent) []dto.TimetableEntry {
	entries := make([]dto.TimetableEntry, 0, len(chunks)+len(events))
	for i, chunk := range chunks {
		if !assigned[i] {
			continue
		}
		at := assignments[i]
		start := window.startHour + at.Hour
		entries = append(entries, dto.TimetableEntry{
			CourseName: chunk.Name,
			Day:        weekDays[at.Day],
			StartTime:  formatHour(start),
			EndTime:    formatHour(start + chunk.Duration),
			Color:      timetablePalette[i%len(timetablePalette)],
		})
	}
	for _, fe := range events {
		entries = append(entries, dto.TimetableEntry{
			CourseName: fe.Name,
			Day:        fe.Day,
			StartTime:  fe.StartTime,
			EndTime:    fe.EndTime,
			Color:      fixedEventColor,
		})
	}
	return entries
}

func (s *TimetableService) cacheKey(req dto.GenerateTimetableRequest) string {
	if req.Seed == nil || s.cache == nil {
		return ""
	}
	key, err := HashKey(timetableCachePrefix, req)
	if err != nil {
		s.logger.Warn("timetable cache key failed", zap.Error(err))
		return ""
	}
	return key
}

func (s *TimetableService) observe(span trace.Span, outcome string, nodes int, elapsed time.Duration) {
	span.SetAttributes(attribute.String("timetable.outcome", outcome))
	s.metrics.ObserveTimetableGeneration(outcome, nodes, elapsed)
}

func (s *TimetableService) logIgnoredPreferences(prefs dto.TimetablePreferences) {
	var ignored []string
	if prefs.CompactSchedule {
		ignored = append(ignored, "compact_schedule")
	}
	if len(prefs.PreferredDays) > 0 {
		ignored = append(ignored, "preferred_days")
	}
	if positive(prefs.MinBreakDuration) > 0 {
		ignored = append(ignored, "min_break_duration")
	}
	if len(ignored) > 0 {
		s.logger.Debug("timetable preferences not enforced", zap.String("fields", strings.Join(ignored, ",")))
	}
}

func positive(value *int) int {
	if value == nil || *value <= 0 {
		return 0
	}
	return *value
}
