// Package progress derives display state and aggregate metrics from a program.
// Every function here is pure: it reads the model and never mutates it.
package progress

import (
	"strconv"

	"github.com/yigit/curriculum/internal/app/models"
)

// Status is the derived display state of a course.
type Status string

const (
	StatusPassed       Status = "passed"
	StatusFailed       Status = "failed"
	StatusPending      Status = "pending"
	StatusUnregistered Status = "unregistered"
)

// PendingLabel is shown for enrolled courses without a grade.
const PendingLabel = "?"

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// CourseState is the status of a course together with its display label.
type CourseState struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
}

// CourseStatus derives the state of c. It is the only place this rule lives.
func CourseStatus(c *models.Course) CourseState {
	switch {
	case c.ExamResult != nil:
		st := StatusFailed
		if c.ExamResult.Passed() {
			st = StatusPassed
		}
		return CourseState{Status: st, Label: FormatGrade(c.ExamResult.Grade)}
	case c.Enrolled:
		return CourseState{Status: StatusPending, Label: PendingLabel}
	default:
		return CourseState{Status: StatusUnregistered, Label: ""}
	}
}

// FormatGrade renders a grade with exactly one decimal place.
func FormatGrade(grade float64) string {
	return strconv.FormatFloat(grade, 'f', 1, 64)
}
