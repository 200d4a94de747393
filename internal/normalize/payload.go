package normalize

import (
	"strconv"
	"strings"
)

// pick walks a precedence list of key spellings and returns the first
// non-empty match. Keys may be dotted paths into nested objects
// ("location.city"). The order of the list is load-bearing: downstream
// consumers depend on a stable choice, and the flat Crelate-native spellings
// deliberately beat the generically-named nested ones even where nested-first
// would look more correct. Do not "fix" the ordering.
func pick(p map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := valueAt(p, k); v != "" {
			return v
		}
	}
	return ""
}

func valueAt(p map[string]any, key string) string {
	var cur any = p
	for _, seg := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur, ok = m[seg]
		if !ok {
			return ""
		}
	}
	return scalarString(cur)
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	}
	return ""
}
