package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

var validFrequencies = map[string]bool{
	"hourly":     true,
	"twicedaily": true,
	"daily":      true,
	"weekly":     true,
	"disabled":   true,
}

// NormalizeAndValidate returns a cleaned copy plus everything wrong with it.
// Freeform text is trimmed, the endpoint is parsed, numeric knobs are
// range-checked. Callers should persist the normalized copy, not the input.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.Crelate.Endpoint = strings.TrimRight(strings.TrimSpace(out.Crelate.Endpoint), "/")
	out.Crelate.APIKey = strings.TrimSpace(out.Crelate.APIKey)
	out.Crelate.PortalID = strings.TrimSpace(out.Crelate.PortalID)
	out.Import.Frequency = strings.ToLower(strings.TrimSpace(out.Import.Frequency))
	out.Submission.Mode = strings.ToLower(strings.TrimSpace(out.Submission.Mode))

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}
	out.Submission.AllowedResumeTypes = trimList(out.Submission.AllowedResumeTypes)

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Crelate.Endpoint == "" {
		res.addErr("crelate.endpoint is required")
	} else if u, err := url.Parse(out.Crelate.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		res.addErr("crelate.endpoint is not a valid URL: %q", out.Crelate.Endpoint)
	} else if u.Scheme != "https" {
		res.addWarn("crelate.endpoint is not https; the API key travels in the clear.")
	}

	if out.Import.Frequency == "" {
		out.Import.Frequency = "daily"
	}
	if !validFrequencies[out.Import.Frequency] {
		res.addErr("import.frequency must be one of hourly, twicedaily, daily, weekly, disabled (got %q)", out.Import.Frequency)
	}
	if out.Import.PageSize <= 0 {
		out.Import.PageSize = 25
	}
	if out.Import.PageSize > 100 {
		res.addWarn("import.page_size %d is above what Crelate typically serves; expect it to be clamped remotely.", out.Import.PageSize)
	}

	switch out.Submission.Mode {
	case "":
		out.Submission.Mode = "local"
	case "local", "forward":
	default:
		res.addErr("submission.mode must be local or forward (got %q)", out.Submission.Mode)
	}
	if out.Submission.MaxResumeMB <= 0 {
		out.Submission.MaxResumeMB = 5
	}
	if len(out.Submission.AllowedResumeTypes) == 0 {
		res.addWarn("submission.allowed_resume_types is empty; every upload type will be rejected.")
	}

	if out.Download.ExpiryHours <= 0 {
		out.Download.ExpiryHours = 24
	}

	if out.Display.PerPage <= 0 {
		out.Display.PerPage = 10
	}

	// Per-form overrides can only rename the external side; an empty external
	// name would silently drop the field on forward.
	for form, fields := range out.Forms {
		for key, ext := range fields {
			if strings.TrimSpace(ext) == "" {
				res.addErr("forms.%s.%s maps to an empty external field", form, key)
			}
		}
	}

	return out, res
}
