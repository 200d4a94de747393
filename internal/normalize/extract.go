package normalize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var headingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// ExtractSection pulls the inner HTML between a heading whose text matches
// (case-insensitive, any heading level) and the next heading or end of
// document. Returns "" when the heading isn't there; absence is not an error.
func ExtractSection(htmlDesc, heading string) string {
	htmlDesc = strings.TrimSpace(htmlDesc)
	if htmlDesc == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlDesc))
	if err != nil {
		return ""
	}

	var out string
	doc.Find("h1,h2,h3,h4,h5,h6").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.EqualFold(CleanText(h.Text()), heading) {
			return true
		}
		var parts []string
		for n := h.Next(); n.Length() > 0; n = n.Next() {
			if headingTags[goquery.NodeName(n)] {
				break
			}
			if frag, herr := goquery.OuterHtml(n); herr == nil {
				parts = append(parts, strings.TrimSpace(frag))
			}
		}
		out = strings.TrimSpace(strings.Join(parts, "\n"))
		return false
	})
	return out
}

// ExtractLabeled is the plain-text fallback: everything after "label:" up to
// the earliest stop label or end of string.
func ExtractLabeled(text, label string, stopLabels ...string) string {
	low := strings.ToLower(text)
	marker := strings.ToLower(label) + ":"
	i := strings.Index(low, marker)
	if i < 0 {
		return ""
	}
	rest := text[i+len(marker):]

	restLow := strings.ToLower(rest)
	cut := len(rest)
	for _, stop := range stopLabels {
		if j := strings.Index(restLow, strings.ToLower(stop)+":"); j >= 0 && j < cut {
			cut = j
		}
	}
	return strings.TrimSpace(rest[:cut])
}

// Requirements returns the discrete field if supplied, else digs it out of
// the description HTML, else tries the plain-text pattern.
func Requirements(supplied, description string) string {
	if s := strings.TrimSpace(supplied); s != "" {
		return s
	}
	if s := ExtractSection(description, "Requirements"); s != "" {
		return s
	}
	return ExtractLabeled(description, "requirements", "benefits")
}

func Benefits(supplied, description string) string {
	if s := strings.TrimSpace(supplied); s != "" {
		return s
	}
	if s := ExtractSection(description, "Benefits"); s != "" {
		return s
	}
	return ExtractLabeled(description, "benefits", "requirements")
}
