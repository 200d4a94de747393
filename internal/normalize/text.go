package normalize

import "strings"

func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// FormatLocation renders "City, State" / "City" / "State" / "".
func FormatLocation(city, state string) string {
	city = CleanText(city)
	state = CleanText(state)
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return state
	}
}

// FormatSalary prefers the free-text salary; otherwise renders the numeric
// pair as a display string.
func FormatSalary(freeText, min, max string) string {
	if s := CleanText(freeText); s != "" {
		return s
	}
	min = CleanText(min)
	max = CleanText(max)
	switch {
	case min != "" && max != "":
		return min + " - " + max
	case min != "":
		return min
	default:
		return max
	}
}
