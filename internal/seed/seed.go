package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/curriculum/internal/app/models"
	"github.com/yigit/curriculum/internal/app/repositories"
)

// Factory builds the catalog used on first start.
type Factory interface {
	Build() (*models.Program, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func() (*models.Program, error)

// Build calls f.
func (f FactoryFunc) Build() (*models.Program, error) {
	return f()
}

// UniformFactory creates Semesters x CoursesPerSemester placeholder courses,
// all worth DefaultCredits, numbered from 1 in semester order.
type UniformFactory struct {
	Semesters          int
	CoursesPerSemester int
	DefaultCredits     int
}

// DefaultFactory returns the 6 x 6 x 5 credits catalog.
func DefaultFactory() UniformFactory {
	return UniformFactory{Semesters: 6, CoursesPerSemester: 6, DefaultCredits: 5}
}

// Build implements Factory.
func (f UniformFactory) Build() (*models.Program, error) {
	if f.Semesters <= 0 || f.CoursesPerSemester <= 0 || f.DefaultCredits <= 0 {
		return nil, fmt.Errorf("invalid seed parameters: %d semesters, %d courses, %d credits",
			f.Semesters, f.CoursesPerSemester, f.DefaultCredits)
	}

	courses := make([]*models.Course, 0, f.Semesters*f.CoursesPerSemester)
	var id int64 = 1
	for sem := 1; sem <= f.Semesters; sem++ {
		for i := 1; i <= f.CoursesPerSemester; i++ {
			courses = append(courses, &models.Course{
				ID:             id,
				Title:          fmt.Sprintf("Course %d.%d", sem, i),
				Credits:        f.DefaultCredits,
				SemesterNumber: sem,
			})
			id++
		}
	}
	return models.NewProgram(courses), nil
}

// EnsureInitialized seeds and persists a catalog when the store has none yet.
// After it returns nil, store.Load is expected to succeed.
func EnsureInitialized(ctx context.Context, store repositories.CatalogStore, factory Factory, lgr zerolog.Logger) error {
	exists, err := store.Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check catalog: %w", err)
	}
	if exists {
		lgr.Debug().Msg("Catalog already present, skipping seed")
		return nil
	}

	lgr.Info().Msg("No catalog found, creating default catalog...")
	program, err := factory.Build()
	if err != nil {
		return fmt.Errorf("failed to build default catalog: %w", err)
	}
	if err := program.Validate(); err != nil {
		return fmt.Errorf("default catalog is invalid: %w", err)
	}

	if err := store.Save(ctx, program); err != nil {
		return fmt.Errorf("failed to persist default catalog: %w", err)
	}

	lgr.Info().Int("courses", len(program.Courses)).Msg("Default catalog created")
	return nil
}
