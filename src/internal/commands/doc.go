// Package commands implements the CLI subcommands of the blocklist builder.
//
// Each command implements the Runner interface: Init parses its flags and
// loads the configuration, Run does the work. Commands are thin wrappers
// around the pipeline, lists and api packages.
//
// # Available Commands
//
//   - build: build lists into every configured format
//   - single: build one list from an arbitrary source file
//   - verify: check that all formats of a list carry the same entries
//   - list: print the configured lists
//   - stats: print domain counts and top TLDs of the built lists
//   - detect: print the format of a list file
//   - fetch: download upstream sources
//   - serve: run the HTTP API with optional periodic rebuilds
package commands
