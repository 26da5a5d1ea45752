package main

import (
	"fmt"
	"os"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/importer"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func (c *cli) domainsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "Hosting site domain tools",
	}
	cmd.AddCommand(c.domainsImportCommand(), c.domainsSyncCommand())
	return cmd
}

func (c *cli) domainsImportCommand() *cobra.Command {
	var (
		path   string
		sheet  string
		userID string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Attach every domain listed in a spreadsheet",
		Long: `Reads hostnames from column A of an .xlsx file (an optional header row
"domain" is skipped) and attaches them with a single alias update.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open spreadsheet: %w", err)
			}
			defer func() { _ = f.Close() }()

			rows, importErrs, err := importer.ParseDomains(f, sheet)
			if err != nil {
				return err
			}
			if len(importErrs) > 0 {
				t := c.table(table.Row{"Row", "Error"})
				for _, e := range importErrs {
					t.AppendRow(table.Row{e.Row, e.Error})
				}
				t.Render()
			}
			if len(rows) == 0 {
				return fmt.Errorf("no valid domains in %s", path)
			}
			if dryRun {
				fmt.Fprintf(c.out, "%d valid domains, %d rejected\n", len(rows), len(importErrs))
				return nil
			}

			app, err := c.requireApp()
			if err != nil {
				return err
			}
			result, err := app.Domains.AddBulk(cmd.Context(), importer.Hosts(rows), userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "attached %d domains, %d new aliases, site has %d aliases\n",
				len(result.Attached), len(result.Added), len(result.Aliases))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "", ".xlsx file")
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name (first sheet by default)")
	cmd.Flags().StringVar(&userID, "user-id", "", "owner recorded on new domain rows")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without attaching")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) domainsSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-from-db",
		Short: "Push every stored domain to the hosting site's aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.requireApp()
			if err != nil {
				return err
			}
			result, err := app.Domains.SyncFromDB(cmd.Context())
			if err != nil {
				return err
			}
			for _, host := range result.Skipped {
				fmt.Fprintln(c.out, "skipped invalid", host)
			}
			fmt.Fprintf(c.out, "%d stored, %d added, patched=%t, site has %d aliases\n",
				result.Total, len(result.Added), result.Patched, len(result.Aliases))
			return nil
		},
	}
}
