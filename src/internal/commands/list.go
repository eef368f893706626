package commands

import (
	"flag"
	"fmt"
	"slices"
	"strings"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/log"
)

func CreateListCommand() *ListCommand {
	gc := &ListCommand{
		fs: flag.NewFlagSet("list", flag.ExitOnError),
	}

	gc.fs.StringVar(&gc.Status, "status", "", "Only show lists with this status")
	gc.fs.BoolVar(&gc.Dump, "dump", false, "Print the normalized configuration instead")
	gc.fs.BoolVar(&gc.Write, "write", false, "Rewrite the configuration file in normalized form")

	return gc
}

type ListCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	Status string
	Dump   bool
	Write  bool
}

func (g *ListCommand) Name() string {
	return g.fs.Name()
}

func (g *ListCommand) Init(args []string, ctx *AppContext) error {
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

func (g *ListCommand) Run() error {
	out := g.ctx.out()

	if g.Write {
		if err := g.cfg.WriteConfig(); err != nil {
			return fmt.Errorf("failed to write configuration: %v", err)
		}
		log.Infof("Configuration written to %s", g.cfg.GetConfigFilePath())
	}

	if g.Dump {
		buf, err := g.cfg.SerializeConfig()
		if err != nil {
			return err
		}
		_, err = out.Write(buf.Bytes())
		return err
	}

	lists := slices.Clone(g.cfg.Lists)
	slices.SortFunc(lists, func(a, b *config.ListDefinition) int {
		return strings.Compare(a.Name, b.Name)
	})

	shown := 0
	for _, list := range lists {
		if g.Status != "" && !strings.EqualFold(list.Status, g.Status) {
			continue
		}
		categories := "-"
		if len(list.Categories) > 0 {
			categories = strings.Join(list.Categories, ",")
		}
		fmt.Fprintf(out, "%-20s %-10s %-24s %s\n", list.Name, list.Status, categories, list.DisplayDescription())
		shown++
	}
	fmt.Fprintf(out, "%d lists\n", shown)
	return nil
}
