package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"crelate-engine/internal/audit"

	"gopkg.in/yaml.v3"
)

func auditLogger(cmdCtx *commandContext) *audit.Logger {
	return audit.NewLogger(filepath.Join(cmdCtx.DataDir, "audit.log"))
}

func runLog(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	typ := fs.String("type", "", "Filter by event type (submission, download, ...)")
	outcome := fs.String("outcome", "", "Filter by outcome (ok, warning, error)")
	limit := fs.Int("limit", 50, "Maximum events to show, newest last (0 for all)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	evts, err := auditLogger(cmdCtx).Read(audit.Filter{
		Type:    *typ,
		Outcome: *outcome,
		Limit:   *limit,
	})
	if err != nil {
		return err
	}
	if len(evts) == 0 {
		fmt.Println("(no events)")
		return nil
	}

	for _, e := range evts {
		fmt.Printf("%s %-12s %-7s %s", e.At.Format(time.RFC3339), e.Type, e.Outcome, e.Message)
		for k, v := range e.Fields {
			fmt.Printf(" %s=%s", k, v)
		}
		fmt.Println()
	}
	return nil
}

func runLogClear(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("log-clear", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Skip confirmation")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("refusing to clear the audit log without --yes")
	}
	return auditLogger(cmdCtx).Clear()
}

func runConfigDump(cmdCtx *commandContext, args []string) error {
	cfg := cmdCtx.Config
	if cfg.Crelate.APIKey != "" {
		cfg.Crelate.APIKey = "***"
	}
	if cfg.Download.SigningSecret != "" {
		cfg.Download.SigningSecret = "***"
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("# %s\n%s", cmdCtx.CfgPath, out)
	return nil
}
