package commands

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/pipeline"
	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
)

// CreateSingleCommand builds one list, optionally from a source outside the source directory.
func CreateSingleCommand() *SingleCommand {
	gc := &SingleCommand{
		fs: flag.NewFlagSet("single", flag.ExitOnError),
	}

	gc.fs.StringVar(&gc.Source, "source", "", "Source file (default: <source_dir>/<name>.txt)")
	gc.fs.BoolVar(&gc.DryRun, "dry-run", false, "Process the list without writing output files")
	gc.fs.BoolVar(&gc.Validate, "validate", true, "Reject invalid, critical and false-positive domains")
	gc.fs.StringVar(&gc.OutputDir, "output-dir", "", "Output directory (overrides output_dir)")

	return gc
}

type SingleCommand struct {
	fs   *flag.FlagSet
	ctx  *AppContext
	cfg  *config.Config
	name string
	opts pipeline.Options

	Source    string
	DryRun    bool
	Validate  bool
	OutputDir string
}

func (g *SingleCommand) Name() string {
	return g.fs.Name()
}

func (g *SingleCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}
	if g.fs.NArg() != 1 {
		return fmt.Errorf("usage: single [options] <name>")
	}
	g.name = g.fs.Arg(0)

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	g.cfg = cfg

	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	opts.Validate = g.Validate
	opts.DryRun = g.DryRun
	if g.Source != "" {
		// relative to the working directory
		source, err := filepath.Abs(g.Source)
		if err != nil {
			return fmt.Errorf("failed to resolve source path: %v", err)
		}
		opts.SourcePath = source
	}
	if g.OutputDir != "" {
		opts.BaseDir = utils.GetAbsolutePath(g.OutputDir, cfg.GetConfigDir())
	}
	g.opts = opts

	return nil
}

func (g *SingleCommand) Run() error {
	result, err := pipeline.BuildList(g.cfg, g.name, g.opts)
	if err != nil {
		return err
	}

	out := g.ctx.out()
	fmt.Fprintf(out, "%s: %d domains, %d rejected, checksum %s\n",
		result.Name, result.DomainCount, result.ValidationErrors, result.Checksum)
	for _, r := range result.Rejected {
		fmt.Fprintf(out, "  %s\n", r)
	}
	return nil
}
