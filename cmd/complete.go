package cmd

import (
	"flag"

	"github.com/etnz/pricetracker/date"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete answers a shell completion request for the program 'name' and
// exits. It does nothing when the shell is not asking for completion.
func Complete(name string) {
	completion(flag.CommandLine).Complete(name)
}

// completion describes the command line for completion.
func completion(global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(global),
	}
	for _, c := range Commands {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		sub := &complete.Command{Flags: flagPredictors(f)}
		if c.Name() == "import" {
			sub.Args = predict.Files("*.json")
		}
		root.Sub[c.Name()] = sub
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		switch fl.Name {
		case "db":
			m[fl.Name] = predict.Files("*.db")
		case "o":
			m[fl.Name] = predict.Files("*.json")
		case "sort":
			m[fl.Name] = predict.Set{"pricePerUnit", "price", "date"}
		case "currency":
			m[fl.Name] = predict.Set{"EUR", "USD", "GBP", "CHF"}
		case "locale":
			m[fl.Name] = predict.Set{date.Spanish.Tag, date.French.Tag, date.German.Tag, date.English.Tag, date.ISO.Tag}
		default:
			m[fl.Name] = predict.Nothing
		}
	})
	return m
}
