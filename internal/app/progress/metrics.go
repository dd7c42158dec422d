package progress

import (
	"strconv"

	"github.com/yigit/curriculum/internal/app/models"
)

// Metrics holds the program-wide aggregates.
type Metrics struct {
	Earned   int      `json:"earned"`
	Average  *float64 `json:"average"`
	Required int      `json:"required"`
}

// Progress returns earned/required in [0,1]; 0 for an empty catalog.
func (m Metrics) Progress() float64 {
	if m.Required == 0 {
		return 0
	}
	return float64(m.Earned) / float64(m.Required)
}

// Average returns the mean of all recorded grades above zero, rounded to two
// decimals. A grade of exactly 0 marks a credited course and is skipped.
// It returns nil when no grade qualifies.
func Average(p *models.Program) *float64 {
	var (
		sum float64
		n   int
	)
	for _, c := range p.Courses {
		if c.ExamResult == nil || c.ExamResult.Credited() {
			continue
		}
		sum += c.ExamResult.Grade
		n++
	}
	if n == 0 {
		return nil
	}
	mean := roundTo(sum/float64(n), 2)
	return &mean
}

// CreditSummary returns the credits of passed courses and of all courses.
func CreditSummary(p *models.Program) (earned, required int) {
	for _, c := range p.Courses {
		required += c.Credits
		if c.Passed() {
			earned += c.Credits
		}
	}
	return earned, required
}

// ComputeMetrics bundles Average and CreditSummary.
func ComputeMetrics(p *models.Program) Metrics {
	earned, required := CreditSummary(p)
	return Metrics{
		Earned:   earned,
		Average:  Average(p),
		Required: required,
	}
}

// roundTo rounds through the decimal representation so that values such as
// 3.65 stay 3.65 instead of drifting to 3.6499999.
func roundTo(v float64, places int) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	return r
}
