package seed

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/yigit/curriculum/internal/app/models"
)

// CatalogDefinition describes a heterogeneous default catalog in YAML:
//
//	semesters:
//	  - number: 1
//	    courses:
//	      - title: Mathematics I
//	        credits: 5
type CatalogDefinition struct {
	Semesters []SemesterDefinition `yaml:"semesters" validate:"required,min=1,dive"`
}

// SemesterDefinition lists the courses of one semester.
type SemesterDefinition struct {
	Number  int                `yaml:"number" validate:"required,gte=1"`
	Courses []CourseDefinition `yaml:"courses" validate:"required,min=1,dive"`
}

// CourseDefinition is one seeded course.
type CourseDefinition struct {
	Title   string `yaml:"title" validate:"required"`
	Credits int    `yaml:"credits" validate:"required,gte=1"`
}

var validate = validator.New()

// FileFactory builds the catalog from a YAML definition file.
type FileFactory struct {
	Path string
}

// Build implements Factory.
func (f FileFactory) Build() (*models.Program, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseDefinition(data)
}

// ParseDefinition turns a YAML definition into a program. Ids are assigned
// from 1 in the order the courses appear.
func ParseDefinition(data []byte) (*models.Program, error) {
	var def CatalogDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if err := validate.Struct(def); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}

	var (
		courses []*models.Course
		id      int64 = 1
	)
	for _, sem := range def.Semesters {
		for _, c := range sem.Courses {
			courses = append(courses, &models.Course{
				ID:             id,
				Title:          c.Title,
				Credits:        c.Credits,
				SemesterNumber: sem.Number,
			})
			id++
		}
	}
	return models.NewProgram(courses), nil
}
