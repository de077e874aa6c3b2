package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

type liquidateCmd struct {
	date  string
	price string
	output
}

func (*liquidateCmd) Name() string     { return "liquidate" }
func (*liquidateCmd) Synopsis() string { return "distribute a purchase price among the holders" }
func (*liquidateCmd) Usage() string {
	return `captable liquidate -p <price> [-d <date>] [-json | -select <path>]

  Runs the liquidation waterfall for a sale of the company at the given price
  and displays the price per share of each seniority and the proceeds of each
  holder.

Usage Examples:
$ captable liquidate -p 25000000
$ captable liquidate -p 25000000 -select '$.tiers[*].price.amount'
`
}

func (c *liquidateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the cap table (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.price, "p", "", "Purchase price of the company.")
	c.output.SetFlags(f)
}

func (c *liquidateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.price == "" {
		fmt.Fprintln(os.Stderr, "Error: the purchase price -p is required")
		return subcommands.ExitUsageError
	}
	s, err := snapshot(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	price, err := amount(s, "p", c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	r, err := s.NewLiquidationReport(price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return c.print(r, renderer.LiquidationMarkdown(r))
}
