package models

import "strings"

// MergeTags unions the given tag lists with set semantics. The first
// occurrence of a tag decides its position; blanks are dropped and
// surrounding whitespace is trimmed. The result is never nil.
func MergeTags(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, list := range lists {
		for _, t := range list {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
