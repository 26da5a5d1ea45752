package main

import (
	"fmt"
	"io"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/bootstrap"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// cli holds state shared by subcommands. The database-backed App is built
// on first use so file-only commands run without configuration.
type cli struct {
	in    io.Reader
	out   io.Writer
	debug bool

	app    *bootstrap.App
	newApp func() (*bootstrap.App, error)
}

func newCLI(in io.Reader, out io.Writer) *cli {
	c := &cli{in: in, out: out}
	c.newApp = c.connect
	return c
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "backlinkctl",
		Short:         "Backlink automation maintenance tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		c.dedupeCommand(),
		c.diversifyCommand(),
		c.pagesCommand(),
		c.domainsCommand(),
		c.keywordsCommand(),
	)
	return root
}

func (c *cli) connect() (*bootstrap.App, error) {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return nil, err
	}
	if c.debug {
		cfg.Logging.Level = "debug"
	}
	cfg.Logging.OutputPaths = []string{"stderr"}
	log, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		return nil, err
	}
	return bootstrap.NewApp(cfg, log)
}

func (c *cli) requireApp() (*bootstrap.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	app, err := c.newApp()
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	c.app = app
	return app, nil
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
		_ = c.app.Log.Sync()
	}
}

func (c *cli) table(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}
