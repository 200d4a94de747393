package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"crelate-engine/internal/crelate"
	"crelate-engine/internal/importer"
	"crelate-engine/internal/secrets"
	"crelate-engine/internal/store"
)

func runImport(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	force := fs.Bool("force", false, "Update every job even when ModifiedOn is unchanged")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	db, err := store.Open(filepath.Join(cmdCtx.DataDir, "crelate.db"))
	if err != nil {
		return err
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		return err
	}

	client := crelate.New(
		cmdCtx.Config.Crelate.Endpoint,
		secrets.APIKey(cmdCtx.Config),
		crelate.NewHostLimiter(4, 8),
	)

	imp := &importer.Importer{
		DB:       db.Pool,
		Client:   client,
		PortalID: cmdCtx.Config.Crelate.PortalID,
		PageSize: cmdCtx.Config.Import.PageSize,
	}

	stats, err := imp.Run(cmdCtx.Ctx, *force)
	if err != nil {
		return err
	}

	fmt.Printf("imported=%d updated=%d skipped=%d errors=%d total=%d\n",
		stats.Imported, stats.Updated, stats.Skipped, stats.Errors, stats.Total)
	if stats.Truncated {
		fmt.Printf("warning: listing truncated, %s\n", stats.Message)
	}
	return nil
}
