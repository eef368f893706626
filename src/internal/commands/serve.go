package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/blocklistproject/blocklist-builder/src/internal/api"
	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/lists"
	"github.com/blocklistproject/blocklist-builder/src/internal/log"
	"github.com/blocklistproject/blocklist-builder/src/internal/metrics"
	"github.com/blocklistproject/blocklist-builder/src/internal/pipeline"
)

// ServeCommand runs the HTTP API and, with -interval, rebuilds lists periodically.
type ServeCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	Listen   string
	Interval time.Duration
	Fetch    bool

	configHasher *config.ConfigHasher
	recorder     *metrics.Recorder

	// buildMu is shared by API builds and scheduled rebuilds.
	buildMu sync.Mutex
}

func CreateServeCommand() *ServeCommand {
	gc := &ServeCommand{
		fs: flag.NewFlagSet("serve", flag.ExitOnError),
	}

	gc.fs.StringVar(&gc.Listen, "listen", "127.0.0.1:8080", "Address to bind the HTTP server")
	gc.fs.DurationVar(&gc.Interval, "interval", 0, "Rebuild all lists at this interval (0 disables)")
	gc.fs.BoolVar(&gc.Fetch, "fetch", false, "Download upstream sources before each scheduled rebuild")

	return gc
}

func (c *ServeCommand) Name() string {
	return c.fs.Name()
}

func (c *ServeCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if c.Fetch && c.Interval <= 0 {
		return fmt.Errorf("-fetch requires -interval")
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	c.configHasher = config.NewConfigHasher(ctx.ConfigPath)
	c.recorder = metrics.NewRecorder()
	return nil
}

func (c *ServeCommand) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("Configuration loaded from: %s", c.ctx.ConfigPath)
	log.Infof("Access restricted to loopback, private and link-local addresses")

	var scheduler *RestartableRunner
	if c.Interval > 0 {
		scheduler = NewRestartableRunner(RunnerConfig{Name: "rebuild"}, Periodic(c.Interval, c.rebuild))
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
		log.Infof("Rebuilding lists every %v", c.Interval)
	}

	server := api.NewServer(c.Listen, api.NewRouter(c.ctx.ConfigPath, c.configHasher, c.recorder, &c.buildMu))
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	var runErr error
	select {
	case err := <-serverErrors:
		runErr = err
	case <-ctx.Done():
		log.Infof("Received shutdown signal, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			runErr = fmt.Errorf("server shutdown failed: %w", err)
		}
	}

	if scheduler != nil {
		stop()
		if err := scheduler.Stop(time.Minute); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}

	if runErr == nil {
		log.Infof("Server stopped gracefully")
	}
	return runErr
}

// rebuild reloads the configuration, optionally fetches sources, then builds
// and verifies every default list.
func (c *ServeCommand) rebuild(ctx context.Context) error {
	cfg, err := loadAndValidateConfigOrFail(c.ctx.ConfigPath)
	if err != nil {
		return err
	}

	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	if c.Fetch {
		result := lists.NewDownloader(cfg.GetAbsSourceDir()).FetchAll(ctx, cfg.Lists)
		log.Infof("Fetched %d changed and %d unchanged sources", len(result.Changed), len(result.Unchanged))
	}
	if ctx.Err() != nil {
		return nil
	}

	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	opts.Metrics = c.recorder

	result := pipeline.Run(cfg, nil, opts)
	log.Infof("Scheduled build: %d/%d lists, %d domains", result.Successful, result.TotalLists, result.TotalDomains())

	if result.Failed == 0 {
		if hash, err := c.configHasher.UpdateCurrentConfigHash(); err != nil {
			log.Warnf("Failed to update config hash after build: %v", err)
		} else {
			c.configHasher.SetBuiltConfigHash(hash)
		}
	}

	mismatches, err := pipeline.VerifyOutputConsistency(opts.BaseDir, cfg.Formats)
	if err != nil {
		return err
	}
	c.recorder.SetMismatches(len(mismatches))
	for _, m := range mismatches {
		log.Warnf("%s", m)
	}
	return nil
}
