package lists

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/errors"
	"github.com/blocklistproject/blocklist-builder/src/internal/hashing"
	"github.com/blocklistproject/blocklist-builder/src/internal/log"
	"github.com/blocklistproject/blocklist-builder/src/internal/normalize"
	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "blocklist-builder"
)

// Downloader fetches list sources into SourceDir.
type Downloader struct {
	Client    *http.Client
	SourceDir string
	UserAgent string
}

func NewDownloader(sourceDir string) *Downloader {
	return &Downloader{
		Client:    &http.Client{Timeout: defaultTimeout},
		SourceDir: sourceDir,
		UserAgent: defaultUserAgent,
	}
}

// FetchResult summarizes a FetchAll call.
type FetchResult struct {
	Changed   []string `json:"changed"`
	Unchanged []string `json:"unchanged"`
	Skipped   []string `json:"skipped"`
	Errors    []string `json:"errors"`
}

// SourcePath returns the file the source of list name is stored in.
func (d *Downloader) SourcePath(name string) string {
	return filepath.Join(d.SourceDir, name+".txt")
}

// DownloadList downloads a single list from its source URL.
// Returns (changed, error) where changed indicates if the file was updated.
func (d *Downloader) DownloadList(ctx context.Context, list *config.ListDefinition) (bool, error) {
	if list.SourceURL == "" {
		return false, errors.NewListError(fmt.Sprintf("list \"%s\" has no source URL configured", list.Name), nil)
	}

	if err := os.MkdirAll(d.SourceDir, 0755); err != nil {
		return false, errors.NewListError("failed to create source directory", err)
	}

	log.Infof("Downloading list \"%s\" from URL: %s", list.Name, list.SourceURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, list.SourceURL, nil)
	if err != nil {
		return false, errors.NewListError(fmt.Sprintf("invalid source URL of list \"%s\"", list.Name), err)
	}
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, errors.NewListError(fmt.Sprintf("failed to download list \"%s\"", list.Name), err)
	}
	defer utils.CloseOrWarn(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return false, errors.NewListError(fmt.Sprintf("failed to download list \"%s\": %s", list.Name, resp.Status), nil)
	}

	bodyProxy := hashing.NewMD5ReaderProxy(resp.Body)
	content, err := io.ReadAll(bodyProxy)
	if err != nil {
		return false, errors.NewListError(fmt.Sprintf("failed to read response for list \"%s\"", list.Name), err)
	}

	filePath := d.SourcePath(list.Name)
	if changed, err := IsFileChanged(bodyProxy, filePath); err != nil {
		log.Errorf("Failed to calculate list \"%s\" checksum: %v", list.Name, err)
	} else if !changed {
		log.Infof("List \"%s\" is not changed, skipping write to disk", list.Name)
		return false, nil
	}

	if err := utils.WriteFileAtomic(filePath, content, 0644); err != nil {
		return false, errors.NewListError("failed to write list file to "+filePath, err)
	}
	if err := WriteChecksum(bodyProxy, filePath); err != nil {
		return false, errors.NewListError("failed to write list checksum", err)
	}

	if f, err := normalize.DetectFormat(filePath); err == nil {
		log.Debugf("List \"%s\" source looks like %s", list.Name, f.DisplayName())
	}

	log.Infof("List \"%s\" downloaded successfully", list.Name)
	return true, nil
}

// FetchAll downloads every list with a source URL. Failures are collected
// and do not stop the remaining downloads; a cancelled ctx does.
func (d *Downloader) FetchAll(ctx context.Context, lists []*config.ListDefinition) *FetchResult {
	result := &FetchResult{
		Changed:   []string{},
		Unchanged: []string{},
		Skipped:   []string{},
		Errors:    []string{},
	}

	for _, list := range lists {
		if list.SourceURL == "" {
			result.Skipped = append(result.Skipped, list.Name)
			continue
		}
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", list.Name, err))
			continue
		}

		changed, err := d.DownloadList(ctx, list)
		switch {
		case err != nil:
			log.Errorf("Error downloading list \"%s\": %v", list.Name, err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", list.Name, err))
		case changed:
			result.Changed = append(result.Changed, list.Name)
		default:
			result.Unchanged = append(result.Unchanged, list.Name)
		}
	}

	return result
}
