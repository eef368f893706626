// Package config handles configuration file parsing and validation for the
// blocklist builder.
//
// Configuration may be written in TOML or YAML; the loader picks the decoder
// by file extension (.yml and .yaml select YAML). Both describe the same
// structure:
//
//   - settings: project metadata (homepage, license, maintainer) and build
//     defaults (source and output directories, allowlist, critical domains,
//     TLD strictness, collapse threshold, concurrency)
//   - lists: list definitions with name, title, description, status and
//     categories, plus an optional upstream source URL
//   - formats: per output format directory, file extension, URL template
//     and optional path template
//
// In TOML, lists are an array of [[list]] tables. In YAML, lists may be
// either a sequence or a mapping keyed by list name; mapping order is kept.
//
// # Example Usage
//
//	cfg, err := config.LoadConfig("config/lists.toml")
//	if err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cfg.ValidateConfig(); err != nil {
//	    log.Fatalf("%v", err)
//	}
//
//	for _, name := range cfg.ListNames(config.StatusStable, config.StatusBeta) {
//	    fmt.Println(name)
//	}
//
// URL and path templates use {name}-style placeholders expanded with
// fasttemplate. Relative paths are resolved against the directory that holds
// the configuration file.
package config
