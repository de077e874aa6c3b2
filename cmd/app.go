// Package cmd implements the captable command line application.
package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/charmbracelet/glamour"
	"github.com/etnz/captable"
	"github.com/etnz/captable/date"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&summaryCmd{}, "reports")
	c.Register(&liquidateCmd{}, "reports")
	c.Register(&financeCmd{}, "reports")
	c.Register(&scenariosCmd{}, "reports")

	c.Register(&fmtCmd{}, "cap table")

	c.Register(&topicCmd{}, "help")
	c.Register(&assistCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	capTableFile    = flag.String("file", "", "Path to the cap table file (JSONL format). Defaults to $"+EnvCapTableFile+" or captable.jsonl")
	defaultCurrency = flag.String("currency", "", "Currency of a cap table without company currency. Defaults to $"+EnvDefaultCurrency+" or USD")
	Verbose         = flag.Bool("v", false, "Log debug information on stderr. Defaults to $"+EnvVerbose)
)

// Init loads the .env file if any and resolves the global flags that were
// not set on the command line from the environment. It must be called after
// flag.Parse().
func Init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("could not load .env: %v", err)
	}
	*capTableFile = firstNonEmpty(*capTableFile, os.Getenv(EnvCapTableFile), "captable.jsonl")
	*defaultCurrency = firstNonEmpty(*defaultCurrency, os.Getenv(EnvDefaultCurrency), "USD")
	if !*Verbose {
		*Verbose, _ = strconv.ParseBool(os.Getenv(EnvVerbose))
	}

	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if *Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// DecodeCapTable decodes the cap table from the application's cap table file.
func DecodeCapTable() (*captable.CapTable, error) {
	f, err := os.Open(*capTableFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := captable.DecodeCapTable(f, *defaultCurrency)
	if err != nil {
		return nil, fmt.Errorf("could not decode %q: %w", *capTableFile, err)
	}
	logrus.WithFields(logrus.Fields{"file": *capTableFile, "company": t.Name(), "currency": t.Currency()}).Debug("cap table loaded")
	return t, nil
}

// snapshot decodes the cap table and freezes it on day, today when empty.
func snapshot(day string) (*captable.Snapshot, error) {
	var on date.Date
	if day != "" {
		d, err := date.Parse(day)
		if err != nil {
			return nil, err
		}
		on = d
	}
	t, err := DecodeCapTable()
	if err != nil {
		return nil, err
	}
	return t.Snapshot(on)
}

// amount parses a decimal amount in the snapshot currency.
func amount(s *captable.Snapshot, flagName, value string) (captable.Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return captable.Money{}, fmt.Errorf("invalid amount -%s %q: %w", flagName, value, err)
	}
	return captable.M(d, s.Currency()), nil
}

// output holds the flags shared by the reports to choose their format.
type output struct {
	json   bool
	selekt string
}

func (o *output) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&o.json, "json", false, "Print the report as JSON.")
	f.StringVar(&o.selekt, "select", "", "Print only the values of the report selected by this JSONPath expression, like '$.total.proceeds.amount'.")
}

// print writes the report in the requested format, md is its markdown rendition.
func (o *output) print(report any, md string) subcommands.ExitStatus {
	switch {
	case o.selekt != "":
		if err := printSelection(report, o.selekt); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	case o.json:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
			return subcommands.ExitFailure
		}
	default:
		printMarkdown(md)
	}
	return subcommands.ExitSuccess
}

// printSelection prints the JSON values of report selected by path, one per line.
func printSelection(report any, path string) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return err
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return fmt.Errorf("invalid selection %q: %w", path, err)
	}
	values, ok := jval.([]any)
	if !ok {
		values = []any{jval}
	}
	for _, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	}
	return nil
}

// printMarkdown renders md for the terminal, or prints it raw when it cannot.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		logrus.Debugf("could not render markdown: %v", err)
		out = md
	}
	fmt.Print(strings.TrimLeft(out, "\n"))
}
