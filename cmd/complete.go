package cmd

import (
	"flag"

	"github.com/etnz/captable/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// predictors of the flags whose values can be listed.
var predictors = map[string]complete.Predictor{
	"file": predict.Files("*.jsonl"),
	"s":    predict.Files("*.yaml"),
	"v":    predict.Nothing,
	"json": predict.Nothing,
	"n":    predict.Nothing,
}

// Completion returns the shell completion of the command line: the
// subcommands of c with their flags, and the global flags.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flags(flag.CommandLine),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		root.Sub[cmd.Name()] = &complete.Command{Flags: flags(fs)}
	})
	if topic, ok := root.Sub["topic"]; ok {
		topics, _ := docs.GetAllTopics()
		topic.Args = predict.Set(topics)
	}
	return root
}

func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := predictors[f.Name]; ok {
			m[f.Name] = p
			return
		}
		m[f.Name] = predict.Something
	})
	return m
}
