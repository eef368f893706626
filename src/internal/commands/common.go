package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	Verbose    bool
	// Out receives command output (default: stdout).
	Out io.Writer
}

func (c *AppContext) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// loadAndValidateConfigOrFail loads configuration from file and validates it.
func loadAndValidateConfigOrFail(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return cfg, nil
}

// splitNames parses a comma separated -list flag value.
func splitNames(value string) []string {
	var names []string
	for _, name := range strings.Split(value, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// checkListNames fails on the first name that is not configured.
func checkListNames(cfg *config.Config, names []string) error {
	for _, name := range names {
		if _, ok := cfg.GetList(name); !ok {
			return fmt.Errorf("unknown list: %s (available: %s)", name, strings.Join(cfg.ListNames(), ", "))
		}
	}
	return nil
}
