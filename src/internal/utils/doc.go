// Package utils provides small helpers shared across the blocklist builder.
//
//   - Path utilities: resolve config-relative paths
//   - File utilities: close files and log on failure, atomic writes
//   - Domain matching: exact-or-subdomain suffix matching by whole labels
//
// # Example Usage
//
//	absPath := utils.GetAbsolutePath("lists/ads.txt", "/srv/blocklists")
//	// Returns: /srv/blocklists/lists/ads.txt
//
//	if utils.MatchDomain("api.github.com", "github.com") {
//	    fmt.Println("subdomain of github.com")
//	}
package utils
