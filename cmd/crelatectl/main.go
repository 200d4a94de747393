package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"crelate-engine/internal/config"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx     context.Context
	DataDir string
	CfgPath string
	Config  config.Config
}

func main() {
	dataDir := os.Getenv("CRELATE_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2)
	}

	cfgPath := filepath.Join(dataDir, "config.yml")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	config.OverlayEnv(&cfg)
	cfg, vr := config.NormalizeAndValidate(cfg)
	if !vr.OK() {
		for _, e := range vr.Errors {
			fmt.Fprintf(os.Stderr, "config error: %s\n", e)
		}
		os.Exit(1)
	}

	cmdCtx := &commandContext{
		Ctx:     context.Background(),
		DataDir: dataDir,
		CfgPath: cfgPath,
		Config:  cfg,
	}
	if err := cmd.run(cmdCtx, os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmdName, err)
		os.Exit(1)
	}
}

func commands() map[string]command {
	return map[string]command{
		"diag": {
			name:        "diag",
			description: "Probe connectivity to the configured Crelate endpoint step by step",
			run:         runDiag,
		},
		"import": {
			name:        "import",
			description: "Run one job posting import against the local database",
			run:         runImport,
		},
		"submit-test": {
			name:        "submit-test",
			description: "Push a synthetic test application through the submission pipeline",
			run:         runSubmitTest,
		},
		"form-test": {
			name:        "form-test",
			description: "Show the resolved outbound field mapping for a form",
			run:         runFormTest,
		},
		"config-dump": {
			name:        "config-dump",
			description: "Print the effective configuration with secrets redacted",
			run:         runConfigDump,
		},
		"log": {
			name:        "log",
			description: "View the submission/download audit log",
			run:         runLog,
		},
		"log-clear": {
			name:        "log-clear",
			description: "Truncate the audit log",
			run:         runLogClear,
		},
	}
}

func printUsage() {
	fmt.Printf("Usage: crelatectl <command> [flags]\n\n")
	fmt.Printf("Available commands:\n")
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-14s %s\n", name, cmds[name].description)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(os.Stderr)
	return fs.Parse(args)
}
