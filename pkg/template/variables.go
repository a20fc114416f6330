package template

import (
	"regexp"
	"strings"
)

// DefaultText is the initial content of a new template node.
const DefaultText = "{{input}}"

var placeholder = regexp.MustCompile(`\{\{(\s*[a-zA-Z_$][a-zA-Z0-9_$]*\s*)\}\}`)

// Variables returns the placeholder names found in text, de-duplicated in
// order of first occurrence. It never fails; malformed placeholders simply
// produce no variable.
func Variables(text string) []string {
	matches := placeholder.FindAllStringSubmatch(text, -1)
	vars := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		if seen[name] {
			continue
		}
		seen[name] = true
		vars = append(vars, name)
	}
	return vars
}

// Diff reports which names were added to and removed from prev to get next.
func Diff(prev, next []string) (added, removed []string) {
	in := func(list []string) map[string]bool {
		set := make(map[string]bool, len(list))
		for _, v := range list {
			set[v] = true
		}
		return set
	}
	prevSet, nextSet := in(prev), in(next)
	for _, v := range next {
		if !prevSet[v] {
			added = append(added, v)
		}
	}
	for _, v := range prev {
		if !nextSet[v] {
			removed = append(removed, v)
		}
	}
	return added, removed
}
