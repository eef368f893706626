package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/blocklistproject/blocklist-builder/src/internal/commands"
	"github.com/blocklistproject/blocklist-builder/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{Out: os.Stdout}

	flag.StringVar(&ctx.ConfigPath, "config", "config/lists.toml", "Path to configuration file (.toml or .yml)")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")
	noColor := flag.Bool("no-color", false, "Disable colored log output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Block List Builder\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  build [names...]        Build lists in every configured format\n")
		fmt.Fprintf(os.Stderr, "  single <name>           Build one list, optionally from another source file\n")
		fmt.Fprintf(os.Stderr, "  verify                  Check that all formats of each list match\n")
		fmt.Fprintf(os.Stderr, "  list                    Show configured lists\n")
		fmt.Fprintf(os.Stderr, "  stats                   Show domain counts of built lists\n")
		fmt.Fprintf(os.Stderr, "  detect <file>...        Detect the format of list files\n")
		fmt.Fprintf(os.Stderr, "  fetch                   Download upstream sources\n")
		fmt.Fprintf(os.Stderr, "  serve                   Run the HTTP API\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	// command output owns stdout
	log.SetForceStdErr(true)
	if ctx.Verbose {
		log.SetVerbose(true)
	}
	if *noColor {
		log.SetNoColor(true)
	}

	cmds := []commands.Runner{
		commands.CreateBuildCommand(),
		commands.CreateSingleCommand(),
		commands.CreateVerifyCommand(),
		commands.CreateListCommand(),
		commands.CreateStatsCommand(),
		commands.CreateDetectCommand(),
		commands.CreateFetchCommand(),
		commands.CreateServeCommand(),
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}
