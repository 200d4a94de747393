package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"crelate-engine/internal/audit"
	"crelate-engine/internal/crelate"
	"crelate-engine/internal/secrets"
	"crelate-engine/internal/store"
	"crelate-engine/internal/submit"
)

func runSubmitTest(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("submit-test", flag.ContinueOnError)
	form := fs.String("form", "", "Form override profile to exercise")
	forward := fs.Bool("forward", false, "Forward to Crelate instead of storing locally")
	jobID := fs.String("job", "", "External job posting id to link the test candidate to")
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

	cfg := cmdCtx.Config
	mode := cfg.Submission.Mode
	if *forward {
		mode = "forward"
	}

	p := &submit.Pipeline{
		DB: db.Pool,
		Client: crelate.New(
			cfg.Crelate.Endpoint,
			secrets.APIKey(cfg),
			crelate.NewHostLimiter(4, 8),
		),
		Audit:          audit.NewLogger(filepath.Join(cmdCtx.DataDir, "audit.log")),
		Mode:           mode,
		ResumeDir:      filepath.Join(cmdCtx.DataDir, "resumes"),
		MaxResumeBytes: int64(cfg.Submission.MaxResumeMB) << 20,
		AllowedMIME:    cfg.Submission.AllowedResumeTypes,
		FormOverrides:  cfg.Forms,
	}

	res := p.Submit(cmdCtx.Ctx, submit.Submission{
		ExternalJobID: *jobID,
		Name:          "Test Applicant",
		Email:         "test.applicant@example.com",
		Phone:         "555-010-0000",
		Location:      "Portland, OR",
		CoverLetter:   "Connectivity test submission. Safe to discard.",
		HowHeard:      "crelatectl submit-test",
		Form:          *form,
		IP:            "127.0.0.1",
	})

	fmt.Printf("success=%v application_id=%d candidate_id=%s\n", res.Success, res.ApplicationID, res.CandidateID)
	for _, e := range res.Errors {
		fmt.Printf("error: %s\n", e)
	}
	for _, w := range res.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	if !res.Success {
		return fmt.Errorf("test submission failed")
	}
	return nil
}

func runFormTest(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("form-test", flag.ContinueOnError)
	form := fs.String("form", "", "Form name from the forms config section ('' for defaults)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	mapping := submit.DefaultMapping()
	if *form != "" {
		overrides, ok := cmdCtx.Config.Forms[*form]
		if !ok {
			return fmt.Errorf("form %q not found in config", *form)
		}
		mapping = submit.WithOverrides(overrides)
	}

	// Run a sample applicant through the mapping so the operator sees the
	// exact outbound payload, without sending anything.
	sample := map[string]string{
		"name":         "Test Applicant",
		"email":        "Test.Applicant@Example.com",
		"phone":        "(555) 010-0000 x9",
		"location":     "Portland,  OR",
		"cover_letter": "Line one.\r\nLine two.",
		"linkedin":     "https://linkedin.com/in/test-applicant",
		"website":      "not a url",
		"how_heard":    "form-test",
	}
	out, missing := submit.ApplyMapping(mapping, sample)

	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Field\tCrelate Field\tRequired\tSample Value")
	for _, k := range keys {
		f := mapping[k]
		fmt.Fprintf(w, "%s\t%s\t%v\t%q\n", k, f.External, f.Required, out[f.External])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(missing) > 0 {
		fmt.Printf("missing required fields: %v\n", missing)
	}
	return nil
}
