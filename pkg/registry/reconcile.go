// Package registry keeps the persisted level order in sync with the level
// files actually present on disk.
//
// The order file is not authoritative. Every read goes through [Reconcile],
// which drops names whose text file vanished, appends new files in sorted
// order and rewrites the file. Manual edits, deletions and partial builds
// therefore heal themselves the next time any command touches the registry.
package registry

import (
	"slices"
)

// Reconcile merges the recorded order with the set of existing levels.
//
//  1. Recorded names that still exist are kept in recorded order. A name
//     recorded more than once keeps only its first position.
//  2. Existing names not kept in step 1 are sorted ascending.
//  3. The result is the kept names followed by the sorted remainder.
//
// The result contains every existing name exactly once and nothing else.
func Reconcile(recorded, existing []string) []string {
	exists := make(map[string]bool, len(existing))
	for _, name := range existing {
		exists[name] = true
	}

	canonical := make([]string, 0, len(exists))
	seen := make(map[string]bool, len(exists))
	for _, name := range recorded {
		if exists[name] && !seen[name] {
			canonical = append(canonical, name)
			seen[name] = true
		}
	}

	var remaining []string
	for name := range exists {
		if !seen[name] {
			remaining = append(remaining, name)
		}
	}
	slices.Sort(remaining)

	return append(canonical, remaining...)
}

// Swap exchanges order[i] and order[i+dir] in place when i+dir lies inside
// the slice. It reports whether anything moved; out-of-range moves are
// silently ignored.
func Swap(order []string, i, dir int) bool {
	j := i + dir
	if i < 0 || i >= len(order) || j < 0 || j >= len(order) {
		return false
	}
	order[i], order[j] = order[j], order[i]
	return true
}
