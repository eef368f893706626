package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/metrics"
)

const testConfig = `
[settings]
output_dir = "."

[[list]]
name = "ads"
description = "Ad servers"
status = "stable"
categories = ["advertising"]

[[list]]
name = "tracking"
status = "beta"
`

type testEnv struct {
	dir        string
	configPath string
	hasher     *config.ConfigHasher
	recorder   *metrics.Recorder
	router     http.Handler
	buildMu    sync.Mutex
}

func newTestEnv(t *testing.T, content string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "blocklist.toml")
	writeTestFile(t, configPath, content)

	env := &testEnv{
		dir:        dir,
		configPath: configPath,
		hasher:     config.NewConfigHasher(configPath),
		recorder:   metrics.NewRecorder(),
	}
	env.router = NewRouter(configPath, env.hasher, env.recorder, &env.buildMu)
	return env
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "127.0.0.1:40000"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response %s: %v", rec.Body.String(), err)
	}
	if err := json.Unmarshal(resp.Data, v); err != nil {
		t.Fatalf("Failed to decode data %s: %v", resp.Data, err)
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error %s: %v", rec.Body.String(), err)
	}
	return resp.Error
}

func TestGetLists(t *testing.T) {
	env := newTestEnv(t, testConfig)
	writeTestFile(t, filepath.Join(env.dir, "ads.txt"), "0.0.0.0 a.com\n0.0.0.0 b.com\n")

	rec := env.do(t, http.MethodGet, "/api/v1/lists", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ListsResponse
	decodeData(t, rec, &resp)
	if len(resp.Lists) != 2 {
		t.Fatalf("Expected 2 lists, got %d", len(resp.Lists))
	}

	ads := resp.Lists[0]
	if ads.Name != "ads" || ads.Title != "Ads Block List" || ads.Description != "Ad servers" {
		t.Errorf("Unexpected ads info %+v", ads)
	}
	if !ads.Built || ads.Domains == nil || *ads.Domains != 2 {
		t.Errorf("Expected ads to be built with 2 domains, got %+v", ads)
	}
	if ads.Files["adguard"] != "adguard/ads-ags.txt" {
		t.Errorf("Unexpected adguard file %q", ads.Files["adguard"])
	}
	if ads.URLs["hosts"] != "https://blocklistproject.github.io/Lists/ads.txt" {
		t.Errorf("Unexpected hosts URL %q", ads.URLs["hosts"])
	}

	tracking := resp.Lists[1]
	if tracking.Built || tracking.Domains != nil {
		t.Errorf("Expected tracking to be unbuilt, got %+v", tracking)
	}
}

func TestGetList(t *testing.T) {
	env := newTestEnv(t, testConfig)

	rec := env.do(t, http.MethodGet, "/api/v1/lists/tracking", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var info ListInfo
	decodeData(t, rec, &info)
	if info.Name != "tracking" || info.Status != "beta" {
		t.Errorf("Unexpected list %+v", info)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/lists/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	if decodeError(t, rec).Code != ErrCodeNotFound {
		t.Errorf("Unexpected error %s", rec.Body.String())
	}
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t, "[settings]\n")

	rec := env.do(t, http.MethodGet, "/api/v1/lists", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	apiErr := decodeError(t, rec)
	if apiErr.Code != ErrCodeValidationFailed || apiErr.Details["errors"] == nil {
		t.Errorf("Expected validation details, got %+v", apiErr)
	}
}

func TestBuild_InvalidCriticalDomains(t *testing.T) {
	env := newTestEnv(t, strings.Replace(testConfig, "[settings]\n", "[settings]\ncritical_domains_file = \"critical.txt\"\n", 1))
	writeTestFile(t, filepath.Join(env.dir, "critical.txt"), "internal.corp\nnot a domain\n")

	rec := env.do(t, http.MethodPost, "/api/v1/build", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if apiErr := decodeError(t, rec); apiErr.Code != ErrCodeValidationFailed {
		t.Errorf("Expected %s, got %+v", ErrCodeValidationFailed, apiErr)
	}
}

func TestBuild(t *testing.T) {
	env := newTestEnv(t, testConfig)
	writeTestFile(t, filepath.Join(env.dir, "ads.txt"), "0.0.0.0 example.com\n0.0.0.0 localhost\n0.0.0.0 -bad.com\n")

	rec := env.do(t, http.MethodPost, "/api/v1/build", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		TotalLists            int `json:"total_lists"`
		Successful            int `json:"successful"`
		TotalDomains          int `json:"total_domains"`
		TotalValidationErrors int `json:"total_validation_errors"`
	}
	decodeData(t, rec, &resp)
	if resp.TotalLists != 2 || resp.Successful != 2 {
		t.Errorf("Unexpected result %+v", resp)
	}
	if resp.TotalDomains != 1 || resp.TotalValidationErrors != 2 {
		t.Errorf("Expected 1 domain and 2 rejections, got %+v", resp)
	}

	if _, err := os.Stat(filepath.Join(env.dir, "dnsmasq-version", "ads-dnsmasq.txt")); err != nil {
		t.Errorf("Expected dnsmasq output: %v", err)
	}
	if env.hasher.GetBuiltConfigHash() == "" {
		t.Error("Expected built hash to be recorded")
	}
}

func TestBuild_WaitsForSharedLock(t *testing.T) {
	env := newTestEnv(t, testConfig)
	writeTestFile(t, filepath.Join(env.dir, "ads.txt"), "0.0.0.0 example.com\n")

	// another writer, e.g. a scheduled fetch, holds the output tree
	env.buildMu.Lock()

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/build/ads", nil)
		req.RemoteAddr = "127.0.0.1:40000"
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		done <- rec
	}()

	select {
	case <-done:
		t.Fatal("Build finished while the build lock was held")
	case <-time.After(100 * time.Millisecond):
	}
	if _, err := os.Stat(filepath.Join(env.dir, "adguard", "ads-ags.txt")); err == nil {
		t.Error("Expected no output written while the build lock was held")
	}

	env.buildMu.Unlock()

	select {
	case rec := <-done:
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Build did not finish after the build lock was released")
	}
}

func TestBuildList_Options(t *testing.T) {
	env := newTestEnv(t, testConfig)
	writeTestFile(t, filepath.Join(env.dir, "ads.txt"), "0.0.0.0 example.com\n0.0.0.0 -bad.com\n")

	rec := env.do(t, http.MethodPost, "/api/v1/build/ads", `{"dry_run": true, "validate": false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		TotalLists   int `json:"total_lists"`
		TotalDomains int `json:"total_domains"`
	}
	decodeData(t, rec, &resp)
	if resp.TotalLists != 1 || resp.TotalDomains != 2 {
		t.Errorf("Unexpected result %+v", resp)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "adguard")); !os.IsNotExist(err) {
		t.Error("Dry run must not write output")
	}
	if env.hasher.GetBuiltConfigHash() != "" {
		t.Error("Dry run must not record a built hash")
	}
}

func TestBuildList_Errors(t *testing.T) {
	env := newTestEnv(t, testConfig)

	tests := []struct {
		name        string
		path        string
		body        string
		contentType string
		status      int
		code        ErrorCode
	}{
		{"unknown list", "/api/v1/build/missing", "", "", http.StatusNotFound, ErrCodeNotFound},
		{"malformed body", "/api/v1/build", "{", "application/json", http.StatusBadRequest, ErrCodeInvalidRequest},
		{"wrong content type", "/api/v1/build", "x", "text/plain", http.StatusBadRequest, ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.RemoteAddr = "127.0.0.1:40000"
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			env.router.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if got := decodeError(t, rec).Code; got != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, got)
			}
		})
	}
}

func TestBuild_Failure(t *testing.T) {
	env := newTestEnv(t, testConfig)
	// a directory where the adguard output should go
	if err := os.MkdirAll(filepath.Join(env.dir, "adguard", "ads-ags.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/build/ads", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	if decodeError(t, rec).Code != ErrCodeBuildFailed {
		t.Errorf("Unexpected error %s", rec.Body.String())
	}
}

func TestVerify(t *testing.T) {
	env := newTestEnv(t, testConfig)
	writeTestFile(t, filepath.Join(env.dir, "ads.txt"), "0.0.0.0 a.com\n0.0.0.0 b.com\n")
	writeTestFile(t, filepath.Join(env.dir, "adguard", "ads-ags.txt"), "||a.com^\n")

	rec := env.do(t, http.MethodGet, "/api/v1/verify", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp struct {
		Consistent bool `json:"consistent"`
		Mismatches []struct {
			Name string `json:"name"`
		} `json:"mismatches"`
	}
	decodeData(t, rec, &resp)
	if resp.Consistent || len(resp.Mismatches) != 1 || resp.Mismatches[0].Name != "ads" {
		t.Errorf("Expected one mismatch for ads, got %+v", resp)
	}

	// rebuilding fixes the mismatch
	if rec := env.do(t, http.MethodPost, "/api/v1/build/ads", ""); rec.Code != http.StatusOK {
		t.Fatalf("Build failed: %s", rec.Body.String())
	}
	rec = env.do(t, http.MethodGet, "/api/v1/verify", "")
	decodeData(t, rec, &resp)
	if !resp.Consistent || len(resp.Mismatches) != 0 {
		t.Errorf("Expected consistent output, got %+v", resp)
	}
}

func TestCheckHealth(t *testing.T) {
	env := newTestEnv(t, testConfig)

	rec := env.do(t, http.MethodGet, "/api/v1/health", "")
	var resp HealthCheckResponse
	decodeData(t, rec, &resp)
	if !resp.Healthy || !resp.Checks["config_validation"].Passed {
		t.Errorf("Expected healthy response, got %+v", resp)
	}
	if !resp.Stale || resp.ConfigHash == "" {
		t.Errorf("Expected stale output before the first build, got %+v", resp)
	}

	if rec := env.do(t, http.MethodPost, "/api/v1/build", ""); rec.Code != http.StatusOK {
		t.Fatalf("Build failed: %s", rec.Body.String())
	}
	rec = env.do(t, http.MethodGet, "/api/v1/health", "")
	resp = HealthCheckResponse{}
	decodeData(t, rec, &resp)
	if resp.Stale {
		t.Errorf("Expected fresh output after build, got %+v", resp)
	}
}

func TestCheckHealth_MissingConfig(t *testing.T) {
	router := NewRouter(filepath.Join(t.TempDir(), "missing.toml"), nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.RemoteAddr = "[::1]:40000"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp HealthCheckResponse
	decodeData(t, rec, &resp)
	if resp.Healthy || resp.Checks["config_load"].Passed {
		t.Errorf("Expected unhealthy response, got %+v", resp)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, testConfig)
	writeTestFile(t, filepath.Join(env.dir, "ads.txt"), "0.0.0.0 a.com\n")
	env.do(t, http.MethodPost, "/api/v1/build/ads", "")

	rec := env.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `blocklist_domains{list="ads"} 1`) {
		t.Errorf("Expected domain gauge in metrics output")
	}
}

func TestPrivateNetworkOnly(t *testing.T) {
	handler := PrivateNetworkOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       int
	}{
		{"loopback", "127.0.0.1:1234", "", http.StatusNoContent},
		{"ipv6 loopback", "[::1]:1234", "", http.StatusNoContent},
		{"private", "192.168.1.10:1234", "", http.StatusNoContent},
		{"link local", "[fe80::1]:1234", "", http.StatusNoContent},
		{"mapped private", "[::ffff:10.0.0.1]:1234", "", http.StatusNoContent},
		{"public", "8.8.8.8:1234", "", http.StatusForbidden},
		{"forwarded public", "127.0.0.1:1234", "1.1.1.1, 10.0.0.1", http.StatusForbidden},
		{"garbage", "nonsense", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
}
