package main

import (
	"fmt"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/dedupe"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func (c *cli) dedupeCommand() *cobra.Command {
	opts := dedupe.Options{}
	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Find and remove duplicate blog posts",
		Long: `Groups posts by normalized title, then by normalized content, keeps the
best post of each group and archives or deletes the rest. Without --apply
only the report is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.requireApp()
			if err != nil {
				return err
			}
			report, err := app.Dedupe.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			c.renderDedupe(report)

			if report.Applied && report.Removed > 0 {
				app.Metrics.DuplicatesRemoved(report.Table, report.Mode, report.Removed)
				app.Activity.Record(cmd.Context(), models.ActivityDuplicatesPurged, "Duplicate blog posts removed", map[string]any{
					"table":   report.Table,
					"mode":    report.Mode,
					"removed": report.Removed,
				})
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Table, "table", "blog_posts", "table to scan (blog_posts or published_blog_posts)")
	cmd.Flags().StringVar(&opts.Mode, "mode", dedupe.ModeArchive, "archive or delete")
	cmd.Flags().BoolVar(&opts.Apply, "apply", false, "remove duplicates instead of only reporting")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", dedupe.DefaultPageSize, "rows loaded per query")
	return cmd
}

func (c *cli) renderDedupe(report *dedupe.Report) {
	t := c.table(table.Row{"Kind", "Keep", "Title", "Duplicates"})
	for _, g := range report.Groups {
		t.AppendRow(table.Row{g.Kind, g.Winner.ID, truncate(g.Winner.Title, 60), len(g.Losers)})
	}
	t.AppendFooter(table.Row{"", "", "Total", report.Planned})
	t.Render()

	action := "would be removed"
	if report.Applied {
		action = "removed"
	}
	removed := int64(report.Planned)
	if report.Applied {
		removed = report.Removed
	}
	fmt.Fprintf(c.out, "%s: scanned %d posts, %d groups, %d duplicates %s (mode %s)\n",
		report.Table, report.Scanned, len(report.Groups), removed, action, report.Mode)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
