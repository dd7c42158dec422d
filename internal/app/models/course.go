package models

// Course represents one curriculum unit of a program.
type Course struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	Credits        int         `json:"credits"`
	SemesterNumber int         `json:"semesterNumber"`
	Enrolled       bool        `json:"enrolled"`
	ExamResult     *ExamResult `json:"-"`
}

// HasGrade reports whether a grade has been recorded for the course.
func (c *Course) HasGrade() bool {
	return c.ExamResult != nil
}

// Grade returns the recorded grade, or nil when none was recorded.
func (c *Course) Grade() *float64 {
	if c.ExamResult == nil {
		return nil
	}
	g := c.ExamResult.Grade
	return &g
}

// SetGrade records grade, creating the exam result on first use and
// updating it in place afterwards.
func (c *Course) SetGrade(grade float64) {
	if c.ExamResult == nil {
		c.ExamResult = &ExamResult{Grade: grade}
		return
	}
	c.ExamResult.Grade = grade
}

// ClearGrade releases the exam result.
func (c *Course) ClearGrade() {
	c.ExamResult = nil
}

// Passed reports whether the course has a recorded grade on the passing side.
func (c *Course) Passed() bool {
	return c.ExamResult != nil && c.ExamResult.Passed()
}

// Clone returns a deep copy of the course.
func (c *Course) Clone() *Course {
	cp := *c
	if c.ExamResult != nil {
		er := *c.ExamResult
		cp.ExamResult = &er
	}
	return &cp
}
