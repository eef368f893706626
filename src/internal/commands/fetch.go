package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/lists"
)

func CreateFetchCommand() *FetchCommand {
	gc := &FetchCommand{
		fs: flag.NewFlagSet("fetch", flag.ExitOnError),
	}

	gc.fs.StringVar(&gc.Lists, "list", "", "Comma separated lists to fetch (default: all lists with a source_url)")

	return gc
}

type FetchCommand struct {
	fs    *flag.FlagSet
	ctx   *AppContext
	cfg   *config.Config
	lists []*config.ListDefinition

	Lists string
}

func (g *FetchCommand) Name() string {
	return g.fs.Name()
}

func (g *FetchCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	g.cfg = cfg

	names := splitNames(g.Lists)
	if err := checkListNames(cfg, names); err != nil {
		return err
	}
	if len(names) == 0 {
		g.lists = cfg.Lists
	} else {
		for _, name := range names {
			list, _ := cfg.GetList(name)
			g.lists = append(g.lists, list)
		}
	}
	return nil
}

func (g *FetchCommand) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := lists.NewDownloader(g.cfg.GetAbsSourceDir()).FetchAll(ctx, g.lists)

	out := g.ctx.out()
	fmt.Fprintf(out, "Fetched %d changed, %d unchanged, %d without source URL\n",
		len(result.Changed), len(result.Unchanged), len(result.Skipped))
	for _, msg := range result.Errors {
		fmt.Fprintf(out, "FAILED %s\n", msg)
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("%d lists failed to download", len(result.Errors))
	}
	return nil
}
