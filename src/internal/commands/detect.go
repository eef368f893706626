package commands

import (
	"flag"
	"fmt"

	"github.com/blocklistproject/blocklist-builder/src/internal/format"
	"github.com/blocklistproject/blocklist-builder/src/internal/normalize"
)

// CreateDetectCommand prints the format of list files. It needs no configuration.
func CreateDetectCommand() *DetectCommand {
	return &DetectCommand{
		fs: flag.NewFlagSet("detect", flag.ExitOnError),
	}
}

type DetectCommand struct {
	fs    *flag.FlagSet
	ctx   *AppContext
	paths []string
}

func (g *DetectCommand) Name() string {
	return g.fs.Name()
}

func (g *DetectCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}
	if g.fs.NArg() == 0 {
		return fmt.Errorf("usage: detect <file>...")
	}
	g.paths = g.fs.Args()
	return nil
}

func (g *DetectCommand) Run() error {
	out := g.ctx.out()
	for _, path := range g.paths {
		detected, err := normalize.DetectFormat(path)
		if err != nil {
			return err
		}
		// an empty file falls back to the repository layout
		if detected == format.Unknown {
			detected = format.ForPath(path)
		}

		domains, err := normalize.ParseFile(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s (%s entries)\n", path, detected, format.FormatCount(domains.Len()))
	}
	return nil
}
