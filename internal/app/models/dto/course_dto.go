package dto

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/yigit/curriculum/internal/app/models"
	"github.com/yigit/curriculum/internal/app/progress"
)

// CourseResponse represents a single course
type CourseResponse struct {
	ID             int64    `json:"id" example:"1"`
	Title          string   `json:"title" example:"Course 1.1"`
	Credits        int      `json:"credits" example:"5"`
	SemesterNumber int      `json:"semesterNumber" example:"1"`
	Enrolled       bool     `json:"enrolled" example:"true"`
	Grade          *float64 `json:"grade" example:"2.3"`
}

// NewCourseResponse converts a course model to its response form
func NewCourseResponse(c *models.Course) CourseResponse {
	return CourseResponse{
		ID:             c.ID,
		Title:          c.Title,
		Credits:        c.Credits,
		SemesterNumber: c.SemesterNumber,
		Enrolled:       c.Enrolled,
		Grade:          c.Grade(),
	}
}

// OptionalValue is a request field that may be absent, null or set.
type OptionalValue struct {
	Present bool
	Value   interface{}
}

// UpdateCourseRequest is the partial update of a course. Values are kept
// loosely typed and validated by the service. The legacy keys "belegt" and
// "note" are accepted when their English counterparts are absent.
type UpdateCourseRequest struct {
	Title    OptionalValue
	Enrolled OptionalValue
	Grade    OptionalValue
}

var errBodyNotObject = errors.New("request body must be a JSON object")

// UnmarshalJSON implements json.Unmarshaler
func (r *UpdateCourseRequest) UnmarshalJSON(data []byte) error {
	// numbers stay json.Number so that out-of-range grades reach validation
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return errBodyNotObject
		}
		return err
	}

	r.Title = pick(fields, "title")
	r.Enrolled = pick(fields, "enrolled", "belegt")
	r.Grade = pick(fields, "grade", "note")
	return nil
}

// pick returns the first present key in order of preference.
func pick(fields map[string]interface{}, keys ...string) OptionalValue {
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			return OptionalValue{Present: true, Value: v}
		}
	}
	return OptionalValue{}
}

// UpdateCourseResponse is returned after a successful course update
type UpdateCourseResponse struct {
	ID      int64            `json:"id" example:"1"`
	Status  progress.Status  `json:"status" example:"passed"`
	Label   string           `json:"label" example:"2.3"`
	Title   string           `json:"title" example:"Course 1.1"`
	Metrics progress.Metrics `json:"metrics"`
}

// DashboardResponse is the semester grid together with the program metrics
type DashboardResponse struct {
	Grid    []progress.SemesterRow `json:"grid"`
	Metrics progress.Metrics       `json:"metrics"`
}

// NewDashboardResponse converts a view package to its response form
func NewDashboardResponse(vp progress.ViewPackage) DashboardResponse {
	return DashboardResponse{Grid: vp.Grid, Metrics: vp.Metrics}
}
