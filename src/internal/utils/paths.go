package utils

import "path/filepath"

// GetAbsolutePath returns path if it was absolute, otherwise joins it with baseDir
func GetAbsolutePath(path, baseDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(baseDir, path))
}

// ResolveOptionalPath behaves like GetAbsolutePath but keeps an empty path empty,
// so unset optional settings (allowlist file, critical domains file) stay unset.
func ResolveOptionalPath(path, baseDir string) string {
	if path == "" {
		return ""
	}
	return GetAbsolutePath(path, baseDir)
}
