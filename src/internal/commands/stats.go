package commands

import (
	"flag"
	"fmt"
	"strings"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/format"
	"github.com/blocklistproject/blocklist-builder/src/internal/pipeline"
)

func CreateStatsCommand() *StatsCommand {
	gc := &StatsCommand{
		fs: flag.NewFlagSet("stats", flag.ExitOnError),
	}

	gc.fs.IntVar(&gc.TopTLDs, "top", 0, "Also print the N most frequent TLDs per list")

	return gc
}

type StatsCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	TopTLDs int
}

func (g *StatsCommand) Name() string {
	return g.fs.Name()
}

func (g *StatsCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	g.cfg = cfg
	return nil
}

func (g *StatsCommand) Run() error {
	stats, err := pipeline.CollectStats(g.cfg, g.cfg.GetAbsOutputDir(), g.TopTLDs)
	if err != nil {
		return err
	}

	out := g.ctx.out()
	total := 0
	for _, s := range stats {
		if !s.Built {
			fmt.Fprintf(out, "%-20s %12s\n", s.Name, "not built")
			continue
		}
		total += s.Domains
		fmt.Fprintf(out, "%-20s %12s\n", s.Name, format.FormatCount(s.Domains))

		if len(s.TopTLDs) > 0 {
			parts := make([]string, 0, len(s.TopTLDs))
			for _, tld := range s.TopTLDs {
				parts = append(parts, fmt.Sprintf(".%s=%s", tld.TLD, format.FormatCount(tld.Count)))
			}
			fmt.Fprintf(out, "%-20s %s\n", "", strings.Join(parts, " "))
		}
	}
	fmt.Fprintf(out, "%-20s %12s\n", "total", format.FormatCount(total))
	return nil
}
