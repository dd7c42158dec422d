package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/curriculum/internal/app/models"
	"github.com/yigit/curriculum/internal/app/progress"
)

func TestWriteSummary(t *testing.T) {
	p := models.NewProgram([]*models.Course{
		{ID: 1, Title: "Mathematics I", Credits: 5, SemesterNumber: 1, Enrolled: true, ExamResult: &models.ExamResult{Grade: 2.3}},
		{ID: 2, Title: "Programming", Credits: 5, SemesterNumber: 1, Enrolled: true},
		{ID: 3, Title: "Thesis", Credits: 10, SemesterNumber: 2},
	})

	var buf bytes.Buffer
	require.NoError(t, writeSummary(&buf, progress.Summarize(p, 2)))

	out := buf.String()
	assert.Contains(t, out, "Credits: 5 / 20 (25%)")
	assert.Contains(t, out, "Average: 2.30")
	assert.Contains(t, out, "Semester 2")
	assert.Contains(t, out, "[+]   1  Mathematics I")
	assert.Contains(t, out, "[~]   2  Programming")
}

func TestWriteSummary_NoGrades(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSummary(&buf, progress.Summarize(models.NewProgram(nil), 1)))
	assert.Contains(t, buf.String(), "Average: n/a")
}

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "curriculum version 0.1.0\n", out.String())
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/etc/curriculum.yaml")
	assert.Equal(t, "/etc/curriculum.yaml", defaultConfigPath())

	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "configs/config.yaml", defaultConfigPath())
}
