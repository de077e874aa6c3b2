package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	dryRun bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the cap table file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `captable fmt [-n]

  Validates and formats the cap table file. Records are sorted by kind,
  written with a fixed key order and without empty values, and missing ids
  are generated.

Usage Examples:
# Formats the default cap table file in place.
$ captable fmt
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.dryRun, "n", false, "Print the formatted cap table instead of writing it.")
}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, err := DecodeCapTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var b bytes.Buffer
	if err := captable.EncodeCapTable(&b, t); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting %q: %v\n", *capTableFile, err)
		return subcommands.ExitFailure
	}
	if p.dryRun {
		os.Stdout.Write(b.Bytes())
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(*capTableFile, b.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving %q: %v\n", *capTableFile, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted %q.\n", *capTableFile)
	return subcommands.ExitSuccess
}
