package models

import "github.com/yigit/curriculum/internal/pkg/validation"

// ExamResult is the recorded grade of a course.
// Grades run from 0.0 to 6.0 where lower is better; 0.0 marks a credited
// course that does not take part in the average.
type ExamResult struct {
	Grade float64 `json:"grade"`
}

// Passed reports whether the grade is on the passing side of the scale.
func (r ExamResult) Passed() bool {
	return validation.IsPassingGrade(r.Grade)
}

// Credited reports whether the result counts toward credits without a real grade.
func (r ExamResult) Credited() bool {
	return r.Grade == 0
}
