package main

import (
	"fmt"
	"os"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/seopage"
	"github.com/spf13/cobra"
)

func (c *cli) pagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Static landing page tools",
	}

	var (
		keywordsPath string
		templatePath string
		opts         seopage.Options
	)
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Render one page per keyword from a template",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			kwFile, err := os.Open(keywordsPath)
			if err != nil {
				return fmt.Errorf("open keywords: %w", err)
			}
			defer func() { _ = kwFile.Close() }()

			kws, err := seopage.ReadKeywords(kwFile)
			if err != nil {
				return err
			}
			tmpl, err := os.ReadFile(templatePath)
			if err != nil {
				return fmt.Errorf("read template: %w", err)
			}

			result, err := seopage.Generate(kws, string(tmpl), opts)
			if err != nil {
				return err
			}
			for _, name := range result.Written {
				fmt.Fprintln(c.out, "wrote", name)
			}
			fmt.Fprintf(c.out, "%d written, %d skipped\n", len(result.Written), len(result.Skipped))
			return nil
		},
	}
	generate.Flags().StringVar(&keywordsPath, "keywords", "", "file with one keyword per line")
	generate.Flags().StringVar(&templatePath, "template", "", "HTML template file")
	generate.Flags().StringVar(&opts.OutDir, "out", "./pages", "output directory")
	generate.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "replace existing pages")
	_ = generate.MarkFlagRequired("keywords")
	_ = generate.MarkFlagRequired("template")

	cmd.AddCommand(generate)
	return cmd
}
