package xstrings

import "strings"

// SplitTrimCompact splits every part by sep, trims the items and drops empty ones,
// so "a, b, ,c," yields [a b c].
func SplitTrimCompact(sep string, parts ...string) []string {
	out := make([]string, 0)
	for _, p := range parts {
		if p == "" {
			continue
		}
		for _, item := range strings.Split(p, sep) {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			out = append(out, item)
		}
	}
	return out
}
