package submit

import (
	"net/url"
	"strings"
)

// Sanitizer is a closed set; sanitize matches it exhaustively so a new kind
// is a compile-time addition, not a silent default fallthrough.
type Sanitizer int

const (
	SanitizeText Sanitizer = iota
	SanitizeEmail
	SanitizePhone
	SanitizeURL
	SanitizeMultiline
)

// Field maps one internal submission key to its outbound Crelate field.
type Field struct {
	External  string
	Required  bool
	Sanitizer Sanitizer
}

// DefaultMapping governs internal -> external translation when forwarding a
// submission. Per-form overrides from config rename the external side only.
func DefaultMapping() map[string]Field {
	return map[string]Field{
		"name":         {External: "Name", Required: true, Sanitizer: SanitizeText},
		"email":        {External: "Email", Required: true, Sanitizer: SanitizeEmail},
		"phone":        {External: "Phone", Sanitizer: SanitizePhone},
		"location":     {External: "Location", Sanitizer: SanitizeText},
		"cover_letter": {External: "CoverLetter", Sanitizer: SanitizeMultiline},
		"linkedin":     {External: "LinkedInUrl", Sanitizer: SanitizeURL},
		"website":      {External: "WebsiteUrl", Sanitizer: SanitizeURL},
		"how_heard":    {External: "Source", Sanitizer: SanitizeText},
	}
}

// WithOverrides applies a per-form rename table on top of the defaults.
func WithOverrides(overrides map[string]string) map[string]Field {
	m := DefaultMapping()
	for key, ext := range overrides {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		f, ok := m[key]
		if !ok {
			// unknown internal key gets a plain-text passthrough
			f = Field{Sanitizer: SanitizeText}
		}
		f.External = ext
		m[key] = f
	}
	return m
}

// ApplyMapping sanitizes and renames the submission fields for the wire.
// Missing required fields come back as a separate list; validation decides
// whether that's fatal.
func ApplyMapping(mapping map[string]Field, values map[string]string) (out map[string]string, missing []string) {
	out = make(map[string]string, len(mapping))
	for key, f := range mapping {
		v := sanitize(f.Sanitizer, values[key])
		if v == "" {
			if f.Required {
				missing = append(missing, key)
			}
			continue
		}
		out[f.External] = v
	}
	return out, missing
}

func sanitize(kind Sanitizer, v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	switch kind {
	case SanitizeText:
		return strings.Join(strings.Fields(v), " ")
	case SanitizeEmail:
		return strings.ToLower(v)
	case SanitizePhone:
		var b strings.Builder
		for _, r := range v {
			if (r >= '0' && r <= '9') || r == '+' || r == '-' || r == ' ' || r == '(' || r == ')' {
				b.WriteRune(r)
			}
		}
		return strings.TrimSpace(b.String())
	case SanitizeURL:
		u, err := url.Parse(v)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return ""
		}
		return u.String()
	case SanitizeMultiline:
		v = strings.ReplaceAll(v, "\r\n", "\n")
		return strings.TrimSpace(v)
	}
	// unreachable while Sanitizer stays closed
	return v
}
