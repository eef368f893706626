package commands

import (
	"flag"
	"fmt"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/log"
	"github.com/blocklistproject/blocklist-builder/src/internal/pipeline"
	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
)

func CreateBuildCommand() *BuildCommand {
	gc := &BuildCommand{
		fs: flag.NewFlagSet("build", flag.ExitOnError),
	}

	gc.fs.StringVar(&gc.Lists, "list", "", "Comma separated lists to build (default: all stable and beta lists)")
	gc.fs.BoolVar(&gc.DryRun, "dry-run", false, "Process lists without writing output files")
	gc.fs.BoolVar(&gc.Validate, "validate", true, "Reject invalid, critical and false-positive domains")
	gc.fs.BoolVar(&gc.Strict, "strict", false, "Only accept known TLDs (overrides strict_tld)")
	gc.fs.IntVar(&gc.Collapse, "collapse", -1, "Collapse subdomains of parents with at least N entries (overrides collapse_threshold)")
	gc.fs.StringVar(&gc.OutputDir, "output-dir", "", "Output directory (overrides output_dir)")
	gc.fs.IntVar(&gc.Concurrency, "concurrency", 0, "Lists built in parallel (overrides concurrency)")

	return gc
}

type BuildCommand struct {
	fs   *flag.FlagSet
	ctx  *AppContext
	cfg  *config.Config
	opts pipeline.Options

	names []string

	Lists       string
	DryRun      bool
	Validate    bool
	Strict      bool
	Collapse    int
	OutputDir   string
	Concurrency int
}

func (g *BuildCommand) Name() string {
	return g.fs.Name()
}

func (g *BuildCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	g.cfg = cfg

	g.names = append(splitNames(g.Lists), g.fs.Args()...)
	if err := checkListNames(cfg, g.names); err != nil {
		return err
	}

	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	opts.Validate = g.Validate
	opts.DryRun = g.DryRun
	if g.Strict {
		opts.Validation.StrictTLD = true
	}
	if g.Collapse >= 0 {
		opts.CollapseThreshold = g.Collapse
	}
	if g.Concurrency > 0 {
		opts.Concurrency = g.Concurrency
	}
	if g.OutputDir != "" {
		opts.BaseDir = utils.GetAbsolutePath(g.OutputDir, cfg.GetConfigDir())
	}
	g.opts = opts

	return nil
}

func (g *BuildCommand) Run() error {
	if g.DryRun {
		log.Infof("Dry run: no files will be written")
	}

	result := pipeline.Run(g.cfg, g.names, g.opts)
	printPipelineResult(g.ctx, result)

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d lists failed to build", result.Failed, result.TotalLists)
	}
	return nil
}

func printPipelineResult(ctx *AppContext, result *pipeline.PipelineResult) {
	out := ctx.out()
	for _, res := range result.Results {
		fmt.Fprintf(out, "%-24s %8d domains %6d rejected\n", res.Name, res.DomainCount, res.ValidationErrors)
	}
	for _, msg := range result.Errors {
		fmt.Fprintf(out, "FAILED %s\n", msg)
	}
	fmt.Fprintf(out, "Built %d/%d lists: %d domains, %d rejected\n",
		result.Successful, result.TotalLists, result.TotalDomains(), result.TotalValidationErrors())
}
