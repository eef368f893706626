package config

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blocklistproject/blocklist-builder/src/internal/hashing"
	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
)

const hashCacheTTL = 1 * time.Minute

const missingSourceHash = "missing"

// ConfigHasher fingerprints the configuration together with the source files
// of every list. Comparing the current fingerprint with the one recorded at
// the last build tells whether the published files are stale.
type ConfigHasher struct {
	configPath string

	// Current hash (from config file and sources) with caching
	currentHash     string
	currentHashTime time.Time

	// Hash of the configuration used by the last successful build
	builtHash string

	mu sync.RWMutex
}

func NewConfigHasher(configPath string) *ConfigHasher {
	return &ConfigHasher{
		configPath: configPath,
	}
}

// GetCurrentConfigHash returns the cached hash, recalculating it when the cache expired.
func (h *ConfigHasher) GetCurrentConfigHash() (string, error) {
	h.mu.RLock()
	if time.Since(h.currentHashTime) < hashCacheTTL && h.currentHash != "" {
		hash := h.currentHash
		h.mu.RUnlock()
		return hash, nil
	}
	h.mu.RUnlock()

	return h.UpdateCurrentConfigHash()
}

// UpdateCurrentConfigHash reloads the configuration and recalculates the hash.
func (h *ConfigHasher) UpdateCurrentConfigHash() (string, error) {
	cfg, err := LoadConfig(h.configPath)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	hash, err := CalculateHash(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	h.mu.Lock()
	h.currentHash = hash
	h.currentHashTime = time.Now()
	h.mu.Unlock()

	return hash, nil
}

func (h *ConfigHasher) GetBuiltConfigHash() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.builtHash
}

func (h *ConfigHasher) SetBuiltConfigHash(hash string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.builtHash = hash
}

// CalculateHash returns the MD5 of the settings, list and format definitions
// and the content of every list source file.
func CalculateHash(config *Config) (string, error) {
	hashData := &ConfigHashData{
		Settings:   config.Settings,
		Lists:      config.Lists,
		Formats:    config.Formats,
		SourceMD5s: calculateSourceHashes(config),
	}

	// encoding/json sorts map keys
	jsonBytes, err := json.Marshal(hashData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config data: %w", err)
	}

	hash := md5.Sum(jsonBytes)
	return hex.EncodeToString(hash[:]), nil
}

func calculateSourceHashes(config *Config) map[string]string {
	hashes := make(map[string]string, len(config.Lists))
	sourceDir := config.GetAbsSourceDir()

	for _, list := range config.Lists {
		if list == nil {
			continue
		}
		hash, err := hashSourceFile(filepath.Join(sourceDir, list.Name+".txt"))
		if err != nil {
			hashes[list.Name] = fmt.Sprintf("error:%v", err)
		} else {
			hashes[list.Name] = hash
		}
	}

	return hashes
}

func hashSourceFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return missingSourceHash, nil
		}
		return "", fmt.Errorf("failed to open source file: %w", err)
	}
	defer utils.CloseOrWarn(file)

	proxy := hashing.NewMD5ReaderProxy(file)
	if _, err := io.Copy(io.Discard, proxy); err != nil {
		return "", fmt.Errorf("failed to hash source file: %w", err)
	}
	return proxy.GetChecksum()
}

// ConfigHashData represents the structure used for hashing
type ConfigHashData struct {
	Settings   *Settings                    `json:"settings"`
	Lists      ListDefinitions              `json:"lists"`
	Formats    map[string]*FormatDefinition `json:"formats"`
	SourceMD5s map[string]string            `json:"source_md5s"`
}
