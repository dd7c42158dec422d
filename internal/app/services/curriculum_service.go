package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/curriculum/internal/app/models"
	"github.com/yigit/curriculum/internal/app/progress"
	"github.com/yigit/curriculum/internal/app/repositories"
	"github.com/yigit/curriculum/internal/pkg/apperrors"
	"github.com/yigit/curriculum/internal/pkg/metrics"
	"github.com/yigit/curriculum/internal/pkg/validation"
)

// CurriculumService defines the operations on the course catalog
type CurriculumService interface {
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, patch CoursePatch) (*CourseUpdateResult, error)
	BuildViewPackage(ctx context.Context) progress.ViewPackage
}

// PatchField is an optional patch value. Set distinguishes an omitted field
// from one explicitly sent as null.
type PatchField struct {
	Set   bool
	Value interface{}
}

// Field returns a set PatchField holding v.
func Field(v interface{}) PatchField {
	return PatchField{Set: true, Value: v}
}

// CoursePatch carries the raw, not yet validated, update of a course.
type CoursePatch struct {
	Title    PatchField
	Enrolled PatchField
	Grade    PatchField
}

// Empty reports whether the patch carries no field. An empty update is
// answered from memory without writing the store.
func (p CoursePatch) Empty() bool {
	return !p.Title.Set && !p.Enrolled.Set && !p.Grade.Set
}

// CourseUpdateResult is the updated course with its derived state and the
// refreshed program metrics.
type CourseUpdateResult struct {
	Course  *models.Course
	State   progress.CourseState
	Metrics progress.Metrics
}

// normalizedPatch is a CoursePatch that passed validation.
type normalizedPatch struct {
	title    *string
	enrolled *bool
	setGrade bool
	grade    *float64
	changed  []string
}

// Options configures the curriculum service.
type Options struct {
	MaxSemester int
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
}

// curriculumServiceImpl implements CurriculumService
type curriculumServiceImpl struct {
	mu          sync.RWMutex
	program     *models.Program
	store       repositories.CatalogStore
	maxSemester int
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewCurriculumService loads the catalog from store and returns a service owning it.
// A load failure is returned unchanged so callers can refuse to start.
func NewCurriculumService(ctx context.Context, store repositories.CatalogStore, opts Options) (CurriculumService, error) {
	program, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return newCurriculumService(program, store, opts), nil
}

func newCurriculumService(program *models.Program, store repositories.CatalogStore, opts Options) *curriculumServiceImpl {
	if opts.MaxSemester <= 0 {
		opts.MaxSemester = progress.DefaultMaxSemester
	}
	s := &curriculumServiceImpl{
		program:     program,
		store:       store,
		maxSemester: opts.MaxSemester,
		metrics:     opts.Metrics,
		logger:      opts.Logger.With().Str("component", "curriculum_service").Logger(),
	}
	s.publishMetrics(progress.ComputeMetrics(program))
	s.logger.Info().Int("courses", len(program.Courses)).Msg("Catalog loaded")
	return s
}

// GetCourse returns a copy of the course with the given id.
func (s *curriculumServiceImpl) GetCourse(_ context.Context, id int64) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.program.Course(id)
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return c.Clone(), nil
}

// UpdateCourse validates patch, applies it to a copy of the catalog and
// persists that copy. The in-memory catalog is replaced only after a
// successful save, so a rejected or failed update changes nothing.
func (s *curriculumServiceImpl) UpdateCourse(ctx context.Context, id int64, patch CoursePatch) (*CourseUpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.program.Course(id); !ok {
		s.metrics.ObserveUpdate(metrics.ResultNotFound)
		return nil, apperrors.ErrCourseNotFound
	}

	if patch.Empty() {
		current, _ := s.program.Course(id)
		s.metrics.ObserveUpdate(metrics.ResultOK)
		return &CourseUpdateResult{
			Course:  current.Clone(),
			State:   progress.CourseStatus(current),
			Metrics: progress.ComputeMetrics(s.program),
		}, nil
	}

	np, err := normalizePatch(patch)
	if err != nil {
		s.metrics.ObserveUpdate(metrics.ResultInvalid)
		s.logger.Debug().Int64("courseId", id).Err(err).Msg("Rejected course update")
		return nil, err
	}

	next := s.program.Clone()
	course, _ := next.Course(id)
	np.applyTo(course)

	if err := s.store.Save(ctx, next); err != nil {
		s.metrics.ObserveUpdate(metrics.ResultStoreError)
		s.logger.Error().Err(err).Int64("courseId", id).Msg("Failed to persist course update")
		if !errors.Is(err, apperrors.ErrStore) {
			err = apperrors.NewStoreError(apperrors.ErrStoreWrite, "failed to save catalog", err)
		}
		return nil, err
	}
	s.program = next

	m := progress.ComputeMetrics(next)
	s.publishMetrics(m)
	s.metrics.ObserveUpdate(metrics.ResultOK)
	s.logger.Info().Int64("courseId", id).Strs("fields", np.changed).Msg("Course updated")

	return &CourseUpdateResult{
		Course:  course.Clone(),
		State:   progress.CourseStatus(course),
		Metrics: m,
	}, nil
}

// BuildViewPackage derives the semester grid and the metrics.
func (s *curriculumServiceImpl) BuildViewPackage(_ context.Context) progress.ViewPackage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return progress.Summarize(s.program, s.maxSemester)
}

func (s *curriculumServiceImpl) publishMetrics(m progress.Metrics) {
	if s.metrics == nil {
		return
	}
	graded := 0
	for _, c := range s.program.Courses {
		if c.HasGrade() {
			graded++
		}
	}
	s.metrics.SetProgress(m.Earned, m.Required, graded, m.Average)
}

// normalizePatch validates every present field before anything is applied.
func normalizePatch(p CoursePatch) (*normalizedPatch, error) {
	np := &normalizedPatch{}

	if p.Title.Set {
		title, err := validation.NormalizeTitle(p.Title.Value)
		if err != nil {
			return nil, err
		}
		np.title = &title
		np.changed = append(np.changed, "title")
	}

	if p.Enrolled.Set {
		enrolled := validation.CoerceBool(p.Enrolled.Value)
		np.enrolled = &enrolled
		np.changed = append(np.changed, "enrolled")
	}

	if p.Grade.Set {
		grade, err := validation.NormalizeGrade(p.Grade.Value)
		if err != nil {
			return nil, err
		}
		np.setGrade = true
		np.grade = grade
		np.changed = append(np.changed, "grade")
	}

	return np, nil
}

func (np *normalizedPatch) applyTo(c *models.Course) {
	if np.title != nil {
		c.Title = *np.title
	}
	if np.enrolled != nil {
		c.Enrolled = *np.enrolled
	}
	if np.setGrade {
		if np.grade == nil {
			c.ClearGrade()
		} else {
			c.SetGrade(*np.grade)
		}
	}
}
