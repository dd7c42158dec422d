package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yigit/curriculum/internal/app/models"
	"github.com/yigit/curriculum/internal/pkg/apperrors"
)

// CatalogStore persists the whole program as one document.
type CatalogStore interface {
	// Exists reports whether a catalog has been persisted.
	Exists(ctx context.Context) (bool, error)
	// Load reads the persisted catalog. Malformed state yields apperrors.ErrStoreCorrupt.
	Load(ctx context.Context) (*models.Program, error)
	// Save replaces the persisted catalog with program.
	Save(ctx context.Context, program *models.Program) error
}

// catalogDocument is the persisted layout:
// {"program": {"courses": [{id, title, credits, semesterNumber, enrolled, grade|null}]}}
type catalogDocument struct {
	Program *programRecord `json:"program"`
}

type programRecord struct {
	Courses *[]*courseRecord `json:"courses"`
}

// courseRecord uses pointers so that absent keys can be told apart from zero values.
type courseRecord struct {
	ID             *int64   `json:"id"`
	Title          *string  `json:"title"`
	Credits        *int     `json:"credits"`
	SemesterNumber *int     `json:"semesterNumber"`
	Enrolled       *bool    `json:"enrolled"`
	Grade          *float64 `json:"grade"`
}

// legacyDocument is the layout written by the first version of the tracker.
type legacyDocument struct {
	Program *struct {
		Courses *[]*legacyCourseRecord `json:"module"`
	} `json:"studiengang"`
}

type legacyCourseRecord struct {
	ID             *int64   `json:"id"`
	Title          *string  `json:"titel"`
	Credits        *int     `json:"ects"`
	SemesterNumber *int     `json:"semester"`
	Enrolled       *bool    `json:"belegt"`
	Grade          *float64 `json:"note"`
}

func (r *legacyCourseRecord) current() *courseRecord {
	if r == nil {
		return nil
	}
	return &courseRecord{
		ID:             r.ID,
		Title:          r.Title,
		Credits:        r.Credits,
		SemesterNumber: r.SemesterNumber,
		Enrolled:       r.Enrolled,
		Grade:          r.Grade,
	}
}

// MarshalCatalog encodes program in the persisted layout. Every course carries
// an explicit grade key, null when no grade is recorded.
func MarshalCatalog(program *models.Program) ([]byte, error) {
	courses := make([]*courseRecord, 0, len(program.Courses))
	for _, c := range program.Courses {
		courses = append(courses, &courseRecord{
			ID:             &c.ID,
			Title:          &c.Title,
			Credits:        &c.Credits,
			SemesterNumber: &c.SemesterNumber,
			Enrolled:       &c.Enrolled,
			Grade:          c.Grade(),
		})
	}

	data, err := json.MarshalIndent(catalogDocument{
		Program: &programRecord{Courses: &courses},
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return data, nil
}

// UnmarshalCatalog decodes and validates a persisted catalog.
func UnmarshalCatalog(data []byte) (*models.Program, error) {
	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, corrupt("invalid json", err)
	}

	var records []*courseRecord
	switch {
	case doc.Program != nil:
		if doc.Program.Courses == nil {
			return nil, corrupt("missing program.courses", nil)
		}
		records = *doc.Program.Courses
	default:
		legacy, ok := unmarshalLegacy(data)
		if !ok {
			return nil, corrupt("missing program", nil)
		}
		records = legacy
	}

	courses := make([]*models.Course, 0, len(records))
	for i, rec := range records {
		c, err := rec.toModel()
		if err != nil {
			return nil, corrupt(fmt.Sprintf("course #%d", i), err)
		}
		courses = append(courses, c)
	}

	program := models.NewProgram(courses)
	if err := program.Validate(); err != nil {
		return nil, corrupt("invalid catalog", err)
	}
	return program, nil
}

func unmarshalLegacy(data []byte) ([]*courseRecord, bool) {
	var doc legacyDocument
	if err := json.Unmarshal(data, &doc); err != nil || doc.Program == nil || doc.Program.Courses == nil {
		return nil, false
	}
	records := make([]*courseRecord, 0, len(*doc.Program.Courses))
	for _, r := range *doc.Program.Courses {
		records = append(records, r.current())
	}
	return records, true
}

func (r *courseRecord) toModel() (*models.Course, error) {
	if r == nil {
		return nil, fmt.Errorf("course is null")
	}
	switch {
	case r.ID == nil:
		return nil, fmt.Errorf("missing id")
	case r.Title == nil:
		return nil, fmt.Errorf("missing title")
	case r.Credits == nil:
		return nil, fmt.Errorf("missing credits")
	case r.SemesterNumber == nil:
		return nil, fmt.Errorf("missing semesterNumber")
	case r.Enrolled == nil:
		return nil, fmt.Errorf("missing enrolled")
	}

	c := &models.Course{
		ID:             *r.ID,
		Title:          *r.Title,
		Credits:        *r.Credits,
		SemesterNumber: *r.SemesterNumber,
		Enrolled:       *r.Enrolled,
	}
	if r.Grade != nil {
		c.SetGrade(*r.Grade)
	}
	return c, nil
}

func corrupt(reason string, cause error) error {
	if cause != nil {
		cause = fmt.Errorf("%s: %w", reason, cause)
	} else {
		cause = fmt.Errorf("%s", reason)
	}
	return apperrors.NewStoreError(apperrors.ErrStoreCorrupt, apperrors.MsgCorruptData, cause)
}
