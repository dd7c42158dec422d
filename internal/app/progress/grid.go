package progress

import (
	"sort"

	"github.com/yigit/curriculum/internal/app/models"
)

// DefaultMaxSemester is the number of grid rows rendered when none is configured.
const DefaultMaxSemester = 6

// GridCourse is one cell of the semester grid.
type GridCourse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Credits int    `json:"credits"`
	Status  Status `json:"status"`
	Label   string `json:"label"`
}

// SemesterRow groups the courses of one semester ordered by id.
type SemesterRow struct {
	Semester int          `json:"semester"`
	Courses  []GridCourse `json:"courses"`
}

// ViewPackage is everything the dashboard needs in one structure.
type ViewPackage struct {
	Grid    []SemesterRow `json:"grid"`
	Metrics Metrics       `json:"metrics"`
}

// BuildGrid produces one row per semester 1..maxSemester. Semesters without
// courses yield an empty row; courses outside the range are not shown.
func BuildGrid(p *models.Program, maxSemester int) []SemesterRow {
	if maxSemester <= 0 {
		maxSemester = DefaultMaxSemester
	}

	bySemester := make(map[int][]*models.Course, maxSemester)
	for _, c := range p.Courses {
		bySemester[c.SemesterNumber] = append(bySemester[c.SemesterNumber], c)
	}

	grid := make([]SemesterRow, 0, maxSemester)
	for sem := 1; sem <= maxSemester; sem++ {
		courses := bySemester[sem]
		sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })

		row := SemesterRow{Semester: sem, Courses: make([]GridCourse, 0, len(courses))}
		for _, c := range courses {
			state := CourseStatus(c)
			row.Courses = append(row.Courses, GridCourse{
				ID:      c.ID,
				Title:   c.Title,
				Credits: c.Credits,
				Status:  state.Status,
				Label:   state.Label,
			})
		}
		grid = append(grid, row)
	}
	return grid
}

// Summarize composes the grid and the metrics.
func Summarize(p *models.Program, maxSemester int) ViewPackage {
	return ViewPackage{
		Grid:    BuildGrid(p, maxSemester),
		Metrics: ComputeMetrics(p),
	}
}
