package manifest

import (
	"sort"
	"strings"
)

// Depth counts the separator-delimited segments of p. Backslashes are treated
// as forward slashes so Windows-style and slash-style paths compare equally.
func Depth(p string) int {
	return len(strings.Split(strings.ReplaceAll(p, `\`, "/"), "/"))
}

// OrderByDepth returns a copy of paths ordered shallow-first. Paths of equal
// depth keep their input order, so the result depends on the strings alone.
func OrderByDepth(paths []string) []string {
	ordered := make([]string, len(paths))
	copy(ordered, paths)
	sort.SliceStable(ordered, func(i, j int) bool {
		return Depth(ordered[i]) < Depth(ordered[j])
	})
	return ordered
}
