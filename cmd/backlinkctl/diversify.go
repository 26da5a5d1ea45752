package main

import (
	"fmt"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/diversify"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func (c *cli) diversifyCommand() *cobra.Command {
	var (
		dir       string
		glob      string
		rulesPath string
		maxLinks  int
		apply     bool
	)
	cmd := &cobra.Command{
		Use:   "diversify",
		Short: "Vary phrasing, links and FAQ order across static pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules := diversify.DefaultRules()
			if rulesPath != "" {
				loaded, err := diversify.LoadRules(rulesPath)
				if err != nil {
					return err
				}
				rules = loaded
			}
			if cmd.Flags().Changed("max-links") {
				rules.MaxLinks = maxLinks
			}

			t, err := diversify.NewTransformer(rules)
			if err != nil {
				return err
			}
			report, err := t.Walk(cmd.Context(), dir, glob, apply)
			if err != nil {
				return err
			}
			c.renderDiversify(report)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "./pages", "directory of pages")
	cmd.Flags().StringVar(&glob, "glob", "*.html", "file name pattern")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rules file (defaults built in)")
	cmd.Flags().IntVar(&maxLinks, "max-links", 3, "links kept per page")
	cmd.Flags().BoolVar(&apply, "apply", false, "write changes instead of only reporting")
	return cmd
}

func (c *cli) renderDiversify(report *diversify.Report) {
	t := c.table(table.Row{"Page", "Phrases", "Links Removed", "FAQ Shuffled"})
	for _, f := range report.Changed {
		t.AppendRow(table.Row{f.Path, f.Changes.Phrases, f.Changes.LinksRemoved, f.Changes.FAQShuffled})
	}
	t.Render()

	verb := "would change"
	if report.Applied {
		verb = "changed"
	}
	fmt.Fprintf(c.out, "scanned %d pages, %s %d\n", report.Scanned, verb, len(report.Changed))
}
