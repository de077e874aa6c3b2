package cmd

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/etnz/captable/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the manual: instruments, waterfall, financing..." }
func (*topicCmd) Usage() string {
	return `captable topic [-l] [<topic>...]

  Shows the manual pages on the cap table: instruments, certificates,
  vesting, waterfall, financing, scenarios and file-format.
  '*' shows them all. Without topic, shows the introduction.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "l", false, "list the topics with their description")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		desc, err := docs.Descriptions()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading topics: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(topicTable(desc))
		return subcommands.ExitSuccess
	}

	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading topic: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}

// topicTable renders the topic descriptions as a table sorted by topic.
func topicTable(desc map[string]string) string {
	var b strings.Builder
	b.WriteString("| Topic | Description |\n|:---|:---|\n")
	for _, name := range slices.Sorted(maps.Keys(desc)) {
		fmt.Fprintf(&b, "| %s | %s |\n", name, desc[name])
	}
	return b.String()
}
