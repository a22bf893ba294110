package types

import "strings"

// bracketPairs lists the opening/closing pairs recognized by SplitName.
var bracketPairs = [][2]string{
	{"(", ")"},
	{"[", "]"},
	{"（", "）"},
	{"【", "】"},
}

// SplitName separates a display name such as "Migraine(Hemicrania)" into its
// primary and alternate names. The earliest opening bracket that has a closing
// partner after it wins. Without a matching pair the whole trimmed name is
// primary and alt is empty.
func SplitName(display string) (primary, alt string) {
	display = strings.TrimSpace(display)

	open, closeAt, openLen := -1, -1, 0
	for _, pair := range bracketPairs {
		i := strings.Index(display, pair[0])
		if i < 0 || (open >= 0 && i >= open) {
			continue
		}
		j := strings.Index(display[i+len(pair[0]):], pair[1])
		if j < 0 {
			continue
		}
		open, closeAt, openLen = i, i+len(pair[0])+j, len(pair[0])
	}
	if open < 0 {
		return display, ""
	}

	primary = strings.TrimSpace(display[:open])
	if primary == "" {
		return display, ""
	}
	return primary, strings.TrimSpace(display[open+openLen : closeAt])
}
