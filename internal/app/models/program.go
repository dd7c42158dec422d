package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/yigit/curriculum/internal/pkg/validation"
)

// Program is the full catalog of courses and the only aggregate root.
type Program struct {
	Courses []*Course `json:"courses"`
}

// NewProgram builds a program from courses.
func NewProgram(courses []*Course) *Program {
	return &Program{Courses: courses}
}

// Course looks up a course by id.
func (p *Program) Course(id int64) (*Course, bool) {
	for _, c := range p.Courses {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Replace swaps the course with the same id for c.
func (p *Program) Replace(c *Course) bool {
	for i, existing := range p.Courses {
		if existing.ID == c.ID {
			p.Courses[i] = c
			return true
		}
	}
	return false
}

// Clone returns a deep copy, leaving course order untouched.
func (p *Program) Clone() *Program {
	courses := make([]*Course, len(p.Courses))
	for i, c := range p.Courses {
		courses[i] = c.Clone()
	}
	return &Program{Courses: courses}
}

// Validate checks the catalog invariants: unique positive ids, non-empty titles,
// positive credits and grades within the scale.
func (p *Program) Validate() error {
	seen := make(map[int64]struct{}, len(p.Courses))
	var errs []error
	for i, c := range p.Courses {
		if c == nil {
			errs = append(errs, fmt.Errorf("course #%d is null", i))
			continue
		}
		if c.ID <= 0 {
			errs = append(errs, fmt.Errorf("course #%d: invalid id %d", i, c.ID))
		}
		if _, dup := seen[c.ID]; dup {
			errs = append(errs, fmt.Errorf("course #%d: duplicate id %d", i, c.ID))
		}
		seen[c.ID] = struct{}{}
		if c.Title == "" {
			errs = append(errs, fmt.Errorf("course %d: empty title", c.ID))
		}
		if c.Credits <= 0 {
			errs = append(errs, fmt.Errorf("course %d: credits must be positive", c.ID))
		}
		if c.ExamResult != nil {
			g := c.ExamResult.Grade
			if math.IsNaN(g) || g < validation.MinGrade || g > validation.MaxGrade {
				errs = append(errs, fmt.Errorf("course %d: grade %v out of range", c.ID, g))
			}
		}
	}
	return errors.Join(errs...)
}
