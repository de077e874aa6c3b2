package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	date string
	output
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the cap table by security" }
func (*summaryCmd) Usage() string {
	return `captable summary [-d <date>] [-json | -select <path>]

  Displays the authorized, outstanding and fully diluted shares of each
  security, most senior first.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the cap table (YYYY-MM-DD). Defaults to today.")
	c.output.SetFlags(f)
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := snapshot(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	r := s.NewSummaryReport()
	return c.print(r, renderer.SummaryMarkdown(r))
}
