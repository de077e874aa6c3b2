package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type financeCmd struct {
	date     string
	newMoney string
	pre      string
	pool     string
	output
}

func (*financeCmd) Name() string     { return "finance" }
func (*financeCmd) Synopsis() string { return "project the cap table after a priced round" }
func (*financeCmd) Usage() string {
	return `captable finance -m <new money> -pre <valuation> [-pool <rata>] [-d <date>] [-json | -select <path>]

  Computes the price per share of a round, the shares of the new investors,
  of the converting notes and of the option pool expansion, and displays the
  cap table before and after the round.

Usage Examples:
# A 2M round at 8M pre-money that brings the pool to 10% of the post-money.
$ captable finance -m 2000000 -pre 8000000 -pool 0.1
`
}

func (c *financeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the cap table (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.newMoney, "m", "", "Cash raised in the round.")
	f.StringVar(&c.pre, "pre", "", "Pre-money valuation.")
	f.StringVar(&c.pool, "pool", "0", "Target option pool as a fraction of the post-money. 0 keeps the pool as is.")
	c.output.SetFlags(f)
}

func (c *financeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.newMoney == "" || c.pre == "" {
		fmt.Fprintln(os.Stderr, "Error: the new money -m and the pre-money valuation -pre are required")
		return subcommands.ExitUsageError
	}
	s, err := snapshot(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	newMoney, err := amount(s, "m", c.newMoney)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	pre, err := amount(s, "pre", c.pre)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	pool, err := decimal.NewFromString(c.pool)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid pool rata %q: %v\n", c.pool, err)
		return subcommands.ExitUsageError
	}

	r, err := s.NewFinancingReport(captable.Financing{NewMoney: newMoney, PreValuation: pre, PoolRata: captable.R(pool)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return c.print(r, renderer.FinancingMarkdown(r))
}
