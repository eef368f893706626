package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/errors"
	"github.com/blocklistproject/blocklist-builder/src/internal/format"
	"github.com/blocklistproject/blocklist-builder/src/internal/metrics"
	"github.com/blocklistproject/blocklist-builder/src/internal/normalize"
	"github.com/blocklistproject/blocklist-builder/src/internal/validate"
)

var fixedTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func testConfig(lists ...*config.ListDefinition) *config.Config {
	cfg := &config.Config{
		Settings: &config.Settings{},
		Lists:    lists,
	}
	cfg.ApplyDefaults()
	return cfg
}

func testOptions(baseDir string) Options {
	return Options{
		BaseDir:    baseDir,
		Validate:   true,
		Validation: validate.DefaultOptions(),
		Now:        func() time.Time { return fixedTime },
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// entryLines returns the non-comment, non-empty lines of a rendered file.
func entryLines(content string, marker string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, marker) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func TestBuildList_EndToEnd(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), "0.0.0.0 example.com\n0.0.0.0 localhost\n0.0.0.0 -bad.com\n")

	cfg := testConfig(&config.ListDefinition{Name: "ads", Status: config.StatusStable})
	result, err := BuildList(cfg, "ads", testOptions(base))
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}

	if result.DomainCount != 1 {
		t.Errorf("Expected 1 domain, got %d", result.DomainCount)
	}
	if result.ValidationErrors != 2 {
		t.Errorf("Expected 2 validation errors, got %d (%v)", result.ValidationErrors, result.Rejected)
	}
	if len(result.OutputFiles) != 4 {
		t.Fatalf("Expected 4 output files, got %d", len(result.OutputFiles))
	}

	expected := map[format.Format]struct {
		path string
		line string
	}{
		format.Hosts:   {filepath.Join(base, "ads.txt"), "0.0.0.0 example.com"},
		format.Domains: {filepath.Join(base, "alt-version", "ads-nl.txt"), "example.com"},
		format.AdGuard: {filepath.Join(base, "adguard", "ads-ags.txt"), "||example.com^"},
		format.Dnsmasq: {filepath.Join(base, "dnsmasq-version", "ads-dnsmasq.txt"), "server=/example.com/"},
	}
	for f, want := range expected {
		if got := result.OutputFiles[f]; got != want.path {
			t.Errorf("%s: expected path %s, got %s", f, want.path, got)
			continue
		}
		lines := entryLines(readFile(t, want.path), f.CommentMarker())
		if len(lines) != 1 || lines[0] != want.line {
			t.Errorf("%s: expected single line %q, got %v", f, want.line, lines)
		}
	}
}

func TestBuildList_RejectionReasons(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), "0.0.0.0 example.com\n0.0.0.0 google.com\n0.0.0.0 -bad.com\n")

	result, err := BuildList(testConfig(), "ads", testOptions(base))
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}

	if len(result.Rejected) != 2 {
		t.Fatalf("Expected 2 rejections, got %v", result.Rejected)
	}
	// rejections are sorted by domain
	if result.Rejected[0].Domain != "-bad.com" || result.Rejected[0].Reason != validate.ReasonSyntax {
		t.Errorf("Unexpected first rejection: %v", result.Rejected[0])
	}
	if result.Rejected[1].Domain != "google.com" || result.Rejected[1].Reason != validate.ReasonCritical {
		t.Errorf("Unexpected second rejection: %v", result.Rejected[1])
	}
}

func TestBuildList_ValidationDisabled(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), "0.0.0.0 example.com\n0.0.0.0 -bad.com\n")

	opts := testOptions(base)
	opts.Validate = false
	result, err := BuildList(testConfig(), "ads", opts)
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}
	if result.DomainCount != 2 || result.ValidationErrors != 0 {
		t.Errorf("Expected 2 domains and no rejections, got %d and %d", result.DomainCount, result.ValidationErrors)
	}
}

func TestBuildList_MixedSourceFormats(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), strings.Join([]string{
		"# header",
		"! adguard comment",
		"0.0.0.0 one.com",
		"127.0.0.1 two.com",
		"||three.com^",
		"server=/four.com/",
		"address=/five.com/0.0.0.0",
		"SIX.com",
		"0.0.0.0 one.com",
		"",
	}, "\n"))

	result, err := BuildList(testConfig(), "ads", testOptions(base))
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}
	if result.DomainCount != 6 {
		t.Errorf("Expected 6 unique domains, got %d", result.DomainCount)
	}

	lines := entryLines(readFile(t, result.OutputFiles[format.Domains]), "#")
	want := []string{"five.com", "four.com", "one.com", "six.com", "three.com", "two.com"}
	if strings.Join(lines, ",") != strings.Join(want, ",") {
		t.Errorf("Expected sorted %v, got %v", want, lines)
	}
}

func TestBuildList_Header(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), "0.0.0.0 example.com\n")

	cfg := testConfig(&config.ListDefinition{Name: "ads", Description: "Ad servers", Status: config.StatusStable})
	result, err := BuildList(cfg, "ads", testOptions(base))
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}

	content := readFile(t, result.OutputFiles[format.AdGuard])
	for _, want := range []string{
		"! Title: Ads Block List",
		"! Description: Ad servers",
		"! Last modified: 2024-03-09 14:05:07 UTC",
		"! Format: AdGuard",
		"! Entries: 1",
		"! URL: https://blocklistproject.github.io/Lists/adguard/ads-ags.txt",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected header line %q in:\n%s", want, content)
		}
	}
}

func TestBuildList_Allowlists(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), strings.Join([]string{
		"0.0.0.0 keep.com",
		"0.0.0.0 inline.com",
		"# 0.0.0.0 inline.com",
		"0.0.0.0 external.com",
		"",
	}, "\n"))
	allowPath := filepath.Join(base, "allow", "allowlist.txt")
	writeFile(t, allowPath, "external.com\n")

	opts := testOptions(base)
	opts.AllowlistPath = allowPath
	result, err := BuildList(testConfig(), "ads", opts)
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}

	lines := entryLines(readFile(t, result.OutputFiles[format.Domains]), "#")
	if len(lines) != 1 || lines[0] != "keep.com" {
		t.Errorf("Expected only keep.com, got %v", lines)
	}
}

func TestBuildList_MissingAllowlistIgnored(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), "0.0.0.0 keep.com\n")

	opts := testOptions(base)
	opts.AllowlistPath = filepath.Join(base, "missing.txt")
	result, err := BuildList(testConfig(), "ads", opts)
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}
	if result.DomainCount != 1 {
		t.Errorf("Expected 1 domain, got %d", result.DomainCount)
	}
}

func TestBuildList_MissingSource(t *testing.T) {
	base := t.TempDir()

	result, err := BuildList(testConfig(), "empty", testOptions(base))
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}
	if result.DomainCount != 0 {
		t.Errorf("Expected empty list, got %d domains", result.DomainCount)
	}
	content := readFile(t, filepath.Join(base, "empty.txt"))
	if !strings.Contains(content, "# Entries: 0") {
		t.Errorf("Expected header with zero entries, got:\n%s", content)
	}
}

func TestBuildList_DryRun(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "src", "ads.txt")
	writeFile(t, source, "0.0.0.0 example.com\n")

	opts := testOptions(base)
	opts.SourcePath = source
	opts.DryRun = true
	result, err := BuildList(testConfig(), "ads", opts)
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}

	if result.DomainCount != 1 {
		t.Errorf("Expected 1 domain, got %d", result.DomainCount)
	}
	if result.Checksum == "" {
		t.Error("Expected checksum in dry run")
	}
	for f, path := range result.OutputFiles {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s: dry run must not write %s", f, path)
		}
	}
}

func TestBuildList_SourceDir(t *testing.T) {
	base := t.TempDir()
	sources := t.TempDir()
	writeFile(t, filepath.Join(sources, "ads.txt"), "0.0.0.0 example.com\n")

	opts := testOptions(base)
	opts.SourceDir = sources
	result, err := BuildList(testConfig(), "ads", opts)
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}
	if result.OutputFiles[format.Hosts] != filepath.Join(base, "ads.txt") {
		t.Errorf("Unexpected hosts output %s", result.OutputFiles[format.Hosts])
	}
	if readFile(t, filepath.Join(sources, "ads.txt")) != "0.0.0.0 example.com\n" {
		t.Error("Source file must stay untouched")
	}
}

func TestBuildList_OnlyConfiguredFormats(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), "0.0.0.0 example.com\n")

	cfg := &config.Config{
		Settings: &config.Settings{},
		Formats: map[string]*config.FormatDefinition{
			"domains": {OutputDir: "plain", Extension: ".list"},
		},
	}
	cfg.ApplyDefaults()

	result, err := BuildList(cfg, "ads", testOptions(base))
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}
	if len(result.OutputFiles) != 1 {
		t.Fatalf("Expected a single output, got %v", result.OutputFiles)
	}
	if result.OutputFiles[format.Domains] != filepath.Join(base, "plain", "ads.list") {
		t.Errorf("Unexpected output %s", result.OutputFiles[format.Domains])
	}
}

func TestBuildList_Collapse(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), strings.Join([]string{
		"a.tracker.com", "b.tracker.com", "c.tracker.com", "other.net", "",
	}, "\n"))

	opts := testOptions(base)
	opts.CollapseThreshold = 3
	result, err := BuildList(testConfig(), "ads", opts)
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}

	lines := entryLines(readFile(t, result.OutputFiles[format.Domains]), "#")
	if strings.Join(lines, ",") != "other.net,tracker.com" {
		t.Errorf("Expected collapsed output, got %v", lines)
	}
}

func TestBuildList_ChecksumIsStable(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "a.txt"), "0.0.0.0 one.com\n0.0.0.0 two.com\n")
	writeFile(t, filepath.Join(base, "b.txt"), "two.com\n||one.com^\n")

	opts := testOptions(base)
	opts.DryRun = true
	a, err := BuildList(testConfig(), "a", opts)
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}
	b, err := BuildList(testConfig(), "b", opts)
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}
	if a.Checksum != b.Checksum {
		t.Errorf("Expected equal checksums for equal domain sets, got %s and %s", a.Checksum, b.Checksum)
	}
}

func TestBuildList_Idempotent(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), "0.0.0.0 one.com\n0.0.0.0 two.com\n")

	cfg := testConfig()
	opts := testOptions(base)
	if _, err := BuildList(cfg, "ads", opts); err != nil {
		t.Fatalf("First build failed: %v", err)
	}
	first := readFile(t, filepath.Join(base, "ads.txt"))

	// the hosts output replaces the source; rebuilding from it is a no-op
	if _, err := BuildList(cfg, "ads", opts); err != nil {
		t.Fatalf("Second build failed: %v", err)
	}
	if second := readFile(t, filepath.Join(base, "ads.txt")); second != first {
		t.Errorf("Rebuild changed output:\n%s\nvs\n%s", first, second)
	}
}

func TestBuildList_Metrics(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), "0.0.0.0 example.com\n0.0.0.0 -bad.com\n")

	opts := testOptions(base)
	opts.Metrics = metrics.NewRecorder()
	if _, err := BuildList(testConfig(), "ads", opts); err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}

	families, err := opts.Metrics.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() != "blocklist_validation_rejections_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if m.GetCounter().GetValue() == 1 {
				found = true
			}
		}
	}
	if !found {
		t.Error("Expected one recorded rejection")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "critical.txt"), "internal.corp\n")
	configPath := filepath.Join(dir, "blocklist.toml")
	writeFile(t, configPath, `
[settings]
output_dir = "out"
source_dir = "src"
allowlist_file = "allow.txt"
critical_domains_file = "critical.txt"
strict_tld = true
collapse_threshold = 5
concurrency = 4
`)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("OptionsFromConfig failed: %v", err)
	}

	if opts.BaseDir != filepath.Join(dir, "out") || opts.SourceDir != filepath.Join(dir, "src") {
		t.Errorf("Unexpected dirs %s and %s", opts.BaseDir, opts.SourceDir)
	}
	if opts.AllowlistPath != filepath.Join(dir, "allow.txt") {
		t.Errorf("Unexpected allowlist path %s", opts.AllowlistPath)
	}
	if !opts.Validate || !opts.Validation.StrictTLD {
		t.Error("Expected validation with strict TLDs")
	}
	if opts.CollapseThreshold != 5 || opts.Concurrency != 4 {
		t.Errorf("Unexpected threshold %d or concurrency %d", opts.CollapseThreshold, opts.Concurrency)
	}
	if opts.Policy == nil || !opts.Policy.IsCritical("www.internal.corp") {
		t.Error("Expected critical domains from file")
	}
	if !opts.Policy.IsCritical("google.com") {
		t.Error("Expected built-in critical domains to be kept")
	}
}

func TestOptionsFromConfig_InvalidCriticalDomains(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "critical.txt"), "internal.corp\nnot a domain\n-bad.corp\n")
	configPath := filepath.Join(dir, "blocklist.toml")
	writeFile(t, configPath, `
[settings]
critical_domains_file = "critical.txt"
`)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	_, err = OptionsFromConfig(cfg)
	if errors.CodeOf(err) != errors.ErrCodeValidation {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "-bad.corp, not a domain") {
		t.Errorf("Expected invalid entries in error, got %v", err)
	}
}

func TestRun(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), "0.0.0.0 a.com\n0.0.0.0 b.com\n")
	writeFile(t, filepath.Join(base, "malware.txt"), "0.0.0.0 c.com\n0.0.0.0 localhost\n")
	writeFile(t, filepath.Join(base, "old.txt"), "0.0.0.0 d.com\n")

	cfg := testConfig(
		&config.ListDefinition{Name: "malware", Status: config.StatusStable},
		&config.ListDefinition{Name: "old", Status: config.StatusDeprecated},
		&config.ListDefinition{Name: "ads", Status: config.StatusBeta},
	)

	for _, concurrency := range []int{1, 4} {
		opts := testOptions(base)
		opts.Concurrency = concurrency

		result := Run(cfg, nil, opts)
		if result.TotalLists != 2 || result.Successful != 2 || result.Failed != 0 {
			t.Fatalf("concurrency %d: unexpected result %+v", concurrency, result)
		}
		if result.Results[0].Name != "malware" || result.Results[1].Name != "ads" {
			t.Errorf("concurrency %d: results out of order: %s, %s", concurrency, result.Results[0].Name, result.Results[1].Name)
		}
		if result.TotalDomains() != 3 {
			t.Errorf("concurrency %d: expected 3 domains, got %d", concurrency, result.TotalDomains())
		}
		if result.TotalValidationErrors() != 1 {
			t.Errorf("concurrency %d: expected 1 validation error, got %d", concurrency, result.TotalValidationErrors())
		}
	}
}

func TestRun_ExplicitNames(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "old.txt"), "0.0.0.0 d.com\n")

	cfg := testConfig(&config.ListDefinition{Name: "old", Status: config.StatusDeprecated})
	result := Run(cfg, []string{"old"}, testOptions(base))
	if result.Successful != 1 || result.Results[0].DomainCount != 1 {
		t.Errorf("Expected deprecated list to build when named, got %+v", result)
	}
}

func TestRun_RecordsFailures(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), "0.0.0.0 a.com\n")
	// a directory where the adguard output should go
	if err := os.MkdirAll(filepath.Join(base, "adguard", "broken-ags.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	opts := testOptions(base)
	opts.Metrics = metrics.NewRecorder()
	result := Run(testConfig(), []string{"broken", "ads"}, opts)

	if result.Successful != 1 || result.Failed != 1 {
		t.Fatalf("Expected one success and one failure, got %+v", result)
	}
	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "broken: ") {
		t.Errorf("Unexpected errors %v", result.Errors)
	}
	if result.Results[0].Name != "ads" {
		t.Errorf("Expected ads result, got %s", result.Results[0].Name)
	}
}

func TestRun_RecoversPanics(t *testing.T) {
	result := Run(nil, []string{"ads"}, testOptions(t.TempDir()))

	if result.Failed != 1 || result.Successful != 0 {
		t.Fatalf("Expected a recorded failure, got %+v", result)
	}
	if !strings.Contains(result.Errors[0], "panic") {
		t.Errorf("Expected panic in error, got %s", result.Errors[0])
	}

	_, err := buildSafely(nil, "ads", testOptions(t.TempDir()))
	if errors.CodeOf(err) != errors.ErrCodeBuild {
		t.Errorf("Expected build error, got %v", err)
	}
	var buildErr *errors.Error
	if !errors.As(err, &buildErr) || errors.CodeOf(buildErr.Cause) != errors.ErrCodeInternal {
		t.Errorf("Expected internal error cause, got %v", err)
	}
}

func TestVerifyOutputConsistency(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), "0.0.0.0 a.com\n0.0.0.0 b.com\n")
	writeFile(t, filepath.Join(base, "adguard", "ads-ags.txt"), "! header\n||a.com^\n")

	mismatches, err := VerifyOutputConsistency(base, nil)
	if err != nil {
		t.Fatalf("VerifyOutputConsistency failed: %v", err)
	}
	if len(mismatches) != 1 || mismatches[0].Name != "ads" {
		t.Fatalf("Expected one mismatch for ads, got %v", mismatches)
	}
	if mismatches[0].Counts[format.Hosts] != 2 || mismatches[0].Counts[format.AdGuard] != 1 {
		t.Errorf("Unexpected counts %v", mismatches[0].Counts)
	}
	if got := mismatches[0].String(); got != "ads: inconsistent counts: hosts=2, adguard=1" {
		t.Errorf("Unexpected description %q", got)
	}
}

func TestVerifyOutputConsistency_AfterBuild(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), "0.0.0.0 a.com\n0.0.0.0 b.com\n0.0.0.0 -bad.com\n")
	writeFile(t, filepath.Join(base, "malware.txt"), "||c.com^\n")
	writeFile(t, filepath.Join(base, ".hidden.txt"), "0.0.0.0 x.com\n")
	writeFile(t, filepath.Join(base, "README.md"), "# lists\n")

	cfg := testConfig()
	result := Run(cfg, []string{"ads", "malware"}, testOptions(base))
	if result.Failed != 0 {
		t.Fatalf("Run failed: %v", result.Errors)
	}

	mismatches, err := VerifyOutputConsistency(base, cfg.Formats)
	if err != nil {
		t.Fatalf("VerifyOutputConsistency failed: %v", err)
	}
	if len(mismatches) != 0 {
		t.Errorf("Expected consistent output, got %v", mismatches)
	}
}

func TestVerifyOutputConsistency_MissingDir(t *testing.T) {
	if _, err := VerifyOutputConsistency(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Error("Expected error for a missing directory")
	}
}

func TestCollectStats(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), "0.0.0.0 a.com\n0.0.0.0 b.com\n0.0.0.0 c.net\n")

	cfg := testConfig(
		&config.ListDefinition{Name: "tracking", Status: config.StatusBeta},
		&config.ListDefinition{Name: "ads", Status: config.StatusStable},
	)
	stats, err := CollectStats(cfg, base, 1)
	if err != nil {
		t.Fatalf("CollectStats failed: %v", err)
	}

	if len(stats) != 2 || stats[0].Name != "ads" || stats[1].Name != "tracking" {
		t.Fatalf("Unexpected stats %+v", stats)
	}
	if !stats[0].Built || stats[0].Domains != 3 {
		t.Errorf("Unexpected ads stats %+v", stats[0])
	}
	if len(stats[0].TopTLDs) != 1 || stats[0].TopTLDs[0] != (TLDCount{TLD: "com", Count: 2}) {
		t.Errorf("Unexpected top TLDs %v", stats[0].TopTLDs)
	}
	if stats[1].Built {
		t.Error("Expected tracking to be unbuilt")
	}
}

func TestPublishedFiles(t *testing.T) {
	files := PublishedFiles(testConfig(), "ads")
	want := map[format.Format]string{
		format.Hosts:   "ads.txt",
		format.Domains: "alt-version/ads-nl.txt",
		format.AdGuard: "adguard/ads-ags.txt",
		format.Dnsmasq: "dnsmasq-version/ads-dnsmasq.txt",
	}
	for f, path := range want {
		if files[f] != path {
			t.Errorf("%s: expected %s, got %s", f, path, files[f])
		}
	}
}

func TestRoundTripThroughNormalize(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), "0.0.0.0 one.com\n0.0.0.0 two.com\n")

	result, err := BuildList(testConfig(), "ads", testOptions(base))
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}
	for f, path := range result.OutputFiles {
		set, err := normalize.ParseFile(path)
		if err != nil {
			t.Fatalf("%s: ParseFile failed: %v", f, err)
		}
		if set.Len() != 2 || !set.Has("one.com") || !set.Has("two.com") {
			t.Errorf("%s: unexpected domains %v", f, set.Slice())
		}
	}
}

func TestBuildList_OverlongSourceLine(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "ads.txt"), "0.0.0.0 a.com\n"+strings.Repeat("x", 2*1024*1024)+"\n0.0.0.0 b.com\n")

	cfg := testConfig(&config.ListDefinition{Name: "ads", Status: config.StatusStable})
	result, err := BuildList(cfg, "ads", testOptions(base))
	if err != nil {
		t.Fatalf("BuildList failed: %v", err)
	}
	if result.DomainCount != 2 {
		t.Errorf("Expected 2 domains, got %d", result.DomainCount)
	}
}
