package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yigit/curriculum/internal/app/progress"
	"github.com/yigit/curriculum/internal/app/services"
	"github.com/yigit/curriculum/internal/bootstrap"
)

func summaryCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print credits, grade average and the semester grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
			if err != nil {
				return err
			}

			database, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
			if err != nil {
				return err
			}
			if database != nil {
				defer database.Close()
			}

			repos, err := bootstrap.OpenCatalog(ctx, cfg, database, lgr)
			if err != nil {
				return err
			}

			svc, err := services.NewCurriculumService(ctx, repos.Catalog, services.Options{
				MaxSemester: cfg.Catalog.Semesters,
				Logger:      lgr,
			})
			if err != nil {
				return err
			}

			return writeSummary(cmd.OutOrStdout(), svc.BuildViewPackage(ctx))
		},
	}
}

var statusMarks = map[progress.Status]string{
	progress.StatusPassed:       "+",
	progress.StatusFailed:       "x",
	progress.StatusPending:      "~",
	progress.StatusUnregistered: " ",
}

// writeSummary renders the view package as plain text.
func writeSummary(w io.Writer, vp progress.ViewPackage) error {
	var b strings.Builder

	m := vp.Metrics
	fmt.Fprintf(&b, "Credits: %d / %d (%.0f%%)\n", m.Earned, m.Required, m.Progress()*100)
	if m.Average != nil {
		fmt.Fprintf(&b, "Average: %.2f\n", *m.Average)
	} else {
		b.WriteString("Average: n/a\n")
	}

	for _, row := range vp.Grid {
		fmt.Fprintf(&b, "\nSemester %d\n", row.Semester)
		for _, c := range row.Courses {
			fmt.Fprintf(&b, "  [%s] %3d  %-30s %3d  %s\n", statusMarks[c.Status], c.ID, c.Title, c.Credits, c.Label)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
