package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/curriculum/internal/app/models"
	"github.com/yigit/curriculum/internal/app/progress"
	"github.com/yigit/curriculum/internal/pkg/apperrors"
	"github.com/yigit/curriculum/internal/pkg/metrics"
	"github.com/yigit/curriculum/internal/seed"
)

type fakeStore struct {
	program *models.Program
	saves   int
	loadErr error
	saveErr error
}

func (f *fakeStore) Exists(context.Context) (bool, error) { return f.program != nil, nil }

func (f *fakeStore) Load(context.Context) (*models.Program, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.program.Clone(), nil
}

func (f *fakeStore) Save(_ context.Context, p *models.Program) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.program = p.Clone()
	return nil
}

func newTestService(t *testing.T) (CurriculumService, *fakeStore) {
	t.Helper()
	program, err := seed.DefaultFactory().Build()
	require.NoError(t, err)

	store := &fakeStore{program: program}
	svc, err := NewCurriculumService(context.Background(), store, Options{
		MaxSemester: 6,
		Metrics:     metrics.New(),
		Logger:      zerolog.Nop(),
	})
	require.NoError(t, err)
	return svc, store
}

func TestNewCurriculumService_LoadError(t *testing.T) {
	loadErr := apperrors.NewStoreError(apperrors.ErrStoreCorrupt, apperrors.MsgCorruptData, nil)
	_, err := NewCurriculumService(context.Background(), &fakeStore{loadErr: loadErr}, Options{Logger: zerolog.Nop()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStoreCorrupt))
}

func TestCurriculumService_ProgressScenario(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	vp := svc.BuildViewPackage(ctx)
	assert.Equal(t, 0, vp.Metrics.Earned)
	assert.Equal(t, 180, vp.Metrics.Required)
	assert.Nil(t, vp.Metrics.Average)
	require.Len(t, vp.Grid, 6)
	for _, row := range vp.Grid {
		assert.Len(t, row.Courses, 6)
	}

	res, err := svc.UpdateCourse(ctx, 1, CoursePatch{Grade: Field("2.3")})
	require.NoError(t, err)
	assert.Equal(t, progress.CourseState{Status: progress.StatusPassed, Label: "2.3"}, res.State)
	assert.Equal(t, 5, res.Metrics.Earned)
	require.NotNil(t, res.Metrics.Average)
	assert.Equal(t, 2.3, *res.Metrics.Average)

	res, err = svc.UpdateCourse(ctx, 2, CoursePatch{Grade: Field(5.0)})
	require.NoError(t, err)
	assert.Equal(t, progress.StatusFailed, res.State.Status)
	assert.Equal(t, 5, res.Metrics.Earned)
	require.NotNil(t, res.Metrics.Average)
	assert.Equal(t, 3.65, *res.Metrics.Average)

	res, err = svc.UpdateCourse(ctx, 1, CoursePatch{Grade: Field(nil)})
	require.NoError(t, err)
	assert.Equal(t, progress.StatusUnregistered, res.State.Status)
	assert.Nil(t, res.Course.Grade())

	res, err = svc.UpdateCourse(ctx, 1, CoursePatch{Enrolled: Field(true)})
	require.NoError(t, err)
	assert.Equal(t, progress.CourseState{Status: progress.StatusPending, Label: progress.PendingLabel}, res.State)

	assert.Equal(t, 4, store.saves)
	persisted, _ := store.program.Course(2)
	require.NotNil(t, persisted.Grade())
	assert.Equal(t, 5.0, *persisted.Grade())
}

func TestCurriculumService_UpdateAllFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	res, err := svc.UpdateCourse(ctx, 7, CoursePatch{
		Title:    Field("  Linear Algebra "),
		Enrolled: Field(true),
		Grade:    Field("1,7"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra", res.Course.Title)
	assert.True(t, res.Course.Enrolled)
	assert.Equal(t, 1.7, *res.Course.Grade())

	got, err := svc.GetCourse(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra", got.Title)
}

func TestCurriculumService_InvalidUpdateChangesNothing(t *testing.T) {
	tests := []struct {
		name    string
		patch   CoursePatch
		message string
	}{
		{name: "not a number", patch: CoursePatch{Grade: Field("abc")}, message: apperrors.MsgNotANumber},
		{name: "out of range", patch: CoursePatch{Grade: Field(7.5)}, message: apperrors.MsgOutOfRange},
		{name: "negative", patch: CoursePatch{Grade: Field("-1")}, message: apperrors.MsgOutOfRange},
		{name: "empty title", patch: CoursePatch{Title: Field("   ")}, message: apperrors.MsgEmptyTitle},
		{
			name:    "valid title with invalid grade",
			patch:   CoursePatch{Title: Field("Renamed"), Enrolled: Field(true), Grade: Field("abc")},
			message: apperrors.MsgNotANumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, store := newTestService(t)
			before, err := svc.GetCourse(ctx, 3)
			require.NoError(t, err)

			_, err = svc.UpdateCourse(ctx, 3, tt.patch)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
			assert.Equal(t, tt.message, err.Error())

			after, err := svc.GetCourse(ctx, 3)
			require.NoError(t, err)
			assert.Equal(t, before, after)
			assert.Zero(t, store.saves)
		})
	}
}

func TestCurriculumService_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	_, err := svc.GetCourse(ctx, 999)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

	// an unknown id wins over an invalid payload
	_, err = svc.UpdateCourse(ctx, 999, CoursePatch{Grade: Field("abc")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
	assert.Equal(t, "not found", err.Error())
	assert.Zero(t, store.saves)
}

func TestCurriculumService_StoreFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	store.saveErr = errors.New("disk full")

	_, err := svc.UpdateCourse(ctx, 1, CoursePatch{Grade: Field(1.0)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStore))
	assert.True(t, errors.Is(err, apperrors.ErrStoreWrite))

	got, err := svc.GetCourse(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got.Grade())
	assert.Equal(t, 0, svc.BuildViewPackage(ctx).Metrics.Earned)

	store.saveErr = nil
	_, err = svc.UpdateCourse(ctx, 1, CoursePatch{Grade: Field(1.0)})
	require.NoError(t, err)
	assert.Equal(t, 5, svc.BuildViewPackage(ctx).Metrics.Earned)
}

func TestCurriculumService_GetCourseReturnsCopy(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	c, err := svc.GetCourse(ctx, 1)
	require.NoError(t, err)
	c.Title = "mutated"

	again, err := svc.GetCourse(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Course 1.1", again.Title)
}

func TestCurriculumService_EmptyPatchSkipsStore(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	_, err := svc.UpdateCourse(ctx, 2, CoursePatch{Enrolled: Field(true)})
	require.NoError(t, err)

	assert.True(t, CoursePatch{}.Empty())
	assert.False(t, CoursePatch{Grade: Field(nil)}.Empty())

	res, err := svc.UpdateCourse(ctx, 2, CoursePatch{})
	require.NoError(t, err)
	assert.Equal(t, progress.StatusPending, res.State.Status)
	assert.Equal(t, "Course 1.2", res.Course.Title)
	assert.Equal(t, 180, res.Metrics.Required)
	assert.Equal(t, 1, store.saves)

	_, err = svc.UpdateCourse(ctx, 999, CoursePatch{})
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
}

func TestCurriculumService_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	const courses = 36
	var wg sync.WaitGroup
	for id := int64(1); id <= courses; id++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			_, err := svc.UpdateCourse(ctx, id, CoursePatch{Enrolled: Field(true), Grade: Field(2.0)})
			assert.NoError(t, err)
		}(id)
		go func() {
			defer wg.Done()
			vp := svc.BuildViewPackage(ctx)
			assert.Len(t, vp.Grid, 6)
		}()
	}
	wg.Wait()

	m := svc.BuildViewPackage(ctx).Metrics
	assert.Equal(t, 180, m.Earned)
	require.NotNil(t, m.Average)
	assert.Equal(t, 2.0, *m.Average)

	assert.Equal(t, courses, store.saves)
	for id := int64(1); id <= courses; id++ {
		c, ok := store.program.Course(id)
		require.True(t, ok)
		require.NotNil(t, c.Grade(), "course %d lost its update", id)
		assert.True(t, c.Enrolled)
	}
}
