package commands

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/log"
	"github.com/blocklistproject/blocklist-builder/src/internal/normalize"
	"github.com/blocklistproject/blocklist-builder/src/internal/pipeline"
	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
	"github.com/blocklistproject/blocklist-builder/src/internal/validate"
)

func CreateVerifyCommand() *VerifyCommand {
	gc := &VerifyCommand{
		fs: flag.NewFlagSet("verify", flag.ExitOnError),
	}

	gc.fs.BoolVar(&gc.Strict, "strict", false, "Also fail on suspicious domains in the built hosts files")
	gc.fs.StringVar(&gc.OutputDir, "output-dir", "", "Output directory (overrides output_dir)")

	return gc
}

// VerifyCommand fails when any list has formats with different entry counts.
type VerifyCommand struct {
	fs      *flag.FlagSet
	ctx     *AppContext
	cfg     *config.Config
	baseDir string

	Strict    bool
	OutputDir string
}

func (g *VerifyCommand) Name() string {
	return g.fs.Name()
}

func (g *VerifyCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	g.cfg = cfg

	g.baseDir = cfg.GetAbsOutputDir()
	if g.OutputDir != "" {
		g.baseDir = utils.GetAbsolutePath(g.OutputDir, cfg.GetConfigDir())
	}
	return nil
}

func (g *VerifyCommand) Run() error {
	out := g.ctx.out()

	mismatches, err := pipeline.VerifyOutputConsistency(g.baseDir, g.cfg.Formats)
	if err != nil {
		return err
	}
	for _, m := range mismatches {
		fmt.Fprintln(out, m.String())
	}

	suspicious := 0
	if g.Strict {
		if suspicious, err = g.reportSuspicious(); err != nil {
			return err
		}
	}

	switch {
	case len(mismatches) > 0:
		return fmt.Errorf("%d lists have inconsistent formats", len(mismatches))
	case suspicious > 0:
		return fmt.Errorf("%d suspicious domains found", suspicious)
	}

	fmt.Fprintln(out, "All lists are consistent")
	return nil
}

func (g *VerifyCommand) reportSuspicious() (int, error) {
	entries, err := os.ReadDir(g.baseDir)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || strings.HasPrefix(fileName, ".") || filepath.Ext(fileName) != ".txt" {
			continue
		}

		domains, err := normalize.ParseFile(filepath.Join(g.baseDir, fileName))
		if err != nil {
			return total, err
		}
		for _, s := range validate.FindSuspicious(domains) {
			log.Warnf("%s: %s (%s)", fileName, s.Domain, s.Reason)
			fmt.Fprintf(g.ctx.out(), "%s: suspicious %s: %s\n", strings.TrimSuffix(fileName, ".txt"), s.Domain, s.Reason)
			total++
		}
	}
	return total, nil
}
