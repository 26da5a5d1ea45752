package main

import (
	"fmt"
	"io"
	"os"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/keywords"
	"github.com/spf13/cobra"
)

func (c *cli) keywordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Keyword list tools",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "parse [file|-]",
		Short: "Normalize a JSON, comma or numbered keyword list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			src := c.in
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer func() { _ = f.Close() }()
				src = f
			}
			raw, err := io.ReadAll(src)
			if err != nil {
				return fmt.Errorf("read keywords: %w", err)
			}
			for _, kw := range keywords.Parse(string(raw)) {
				fmt.Fprintln(c.out, kw)
			}
			return nil
		},
	})
	return cmd
}
