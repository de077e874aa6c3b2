package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

type scenariosCmd struct {
	date string
	file string
	output
}

func (*scenariosCmd) Name() string     { return "scenarios" }
func (*scenariosCmd) Synopsis() string { return "compare financing scenarios" }
func (*scenariosCmd) Usage() string {
	return `captable scenarios -s <scenarios.yaml> [-d <date>] [-json | -select <path>]

  Runs every financing of the scenario file against the cap table and
  compares them. See 'captable topic scenarios' for the file format.
`
}

func (c *scenariosCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the cap table (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.file, "s", "scenarios.yaml", "Scenario file.")
	c.output.SetFlags(f)
}

func (c *scenariosCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := snapshot(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	in, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer in.Close()
	scenarios, err := captable.DecodeScenarios(in, s.Currency())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}

	results, err := s.RunScenarios(ctx, scenarios)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return c.print(results, renderer.ScenariosMarkdown(results))
}
