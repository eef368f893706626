package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/blocklistproject/blocklist-builder/src/internal/log"
)

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}

// LoadConfig reads the configuration file and applies defaults.
// Validation is left to ValidateConfig.
func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %v", err)
		} else {
			configFile = path
		}
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			log.Errorf("Configuration file not found: %s", configFile)
			return nil, fmt.Errorf("configuration file not found: %s", configFile)
		}
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	config, err := ParseConfig(content, isYAML(configFile))
	if err != nil {
		return nil, err
	}
	config._absConfigFilePath = configFile
	config.ApplyDefaults()

	log.Debugf("Configuration file path: %s", configFile)
	log.Debugf("Output directory: %s", config.GetAbsOutputDir())
	log.Debugf("Source directory: %s", config.GetAbsSourceDir())

	return config, nil
}

// ParseConfig decodes raw configuration without resolving paths or applying defaults.
func ParseConfig(content []byte, asYAML bool) (*Config, error) {
	var config Config

	if asYAML {
		if err := yaml.Unmarshal(content, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %v", err)
		}
		return &config, nil
	}

	if err := toml.Unmarshal(content, &config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf("%s", derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, fmt.Errorf("failed to parse config file")
		}
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}
	return &config, nil
}

// SerializeConfig encodes the configuration in the format of its source file.
func (c *Config) SerializeConfig() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}

	if isYAML(c._absConfigFilePath) {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return &buf, nil
	}

	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return &buf, nil
}

func (c *Config) WriteConfig() error {
	config, err := c.SerializeConfig()
	if err != nil {
		return err
	}
	if err := os.WriteFile(c._absConfigFilePath, config.Bytes(), 0644); err != nil {
		return err
	}
	return nil
}
