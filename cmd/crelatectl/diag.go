package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"crelate-engine/internal/crelate"
	"crelate-engine/internal/diag"
	"crelate-engine/internal/secrets"
)

func runDiag(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("diag", flag.ContinueOnError)
	timeout := fs.Duration("timeout", 30*time.Second, "Overall probe timeout")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, *timeout)
	defer cancel()

	client := crelate.New(
		cmdCtx.Config.Crelate.Endpoint,
		secrets.APIKey(cmdCtx.Config),
		crelate.NewHostLimiter(4, 8),
	)

	steps := diag.Run(ctx, cmdCtx.Config.Crelate.Endpoint, client)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Step\tResult\tDetail\tTime")
	failed := false
	for _, s := range steps {
		result := "ok"
		detail := s.Detail
		if !s.OK {
			result = "FAIL"
			detail = s.Error
			failed = true
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, result, detail, s.Duration.Round(time.Millisecond))
	}
	w.Flush()

	if failed {
		return fmt.Errorf("connectivity check failed")
	}
	return nil
}
