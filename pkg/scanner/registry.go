package scanner

import (
	"sort"
	"sync"
)

// Registry maps an IssueCategory to a deduplicated set of pre-formatted
// report lines. Safe for concurrent mutation: each category carries its
// own lock, so contributors to different categories never contend.
//
// Tasks may either add lines directly (holding the per-category lock), or
// build a private Registry and merge it in one pass after the task
// completes. The net effect is identical: the registry after all tasks
// finish equals the per-category union of all contributions, with
// exact-string deduplication.
type Registry struct {
	sets map[IssueCategory]*categorySet
}

type categorySet struct {
	mu    sync.Mutex
	lines map[string]struct{}
}

// NewRegistry creates an empty registry with every category initialized.
func NewRegistry() *Registry {
	sets := make(map[IssueCategory]*categorySet, len(allCategories))
	for _, c := range allCategories {
		sets[c] = &categorySet{lines: make(map[string]struct{})}
	}
	return &Registry{sets: sets}
}

// Add records one report line under the given category. Duplicate lines
// collapse to a single entry.
func (r *Registry) Add(category IssueCategory, line string) {
	s := r.sets[category]
	s.mu.Lock()
	s.lines[line] = struct{}{}
	s.mu.Unlock()
}

// Merge folds every line of other into r. Used by tasks that accumulate
// into a task-local registry and hand it over on completion.
func (r *Registry) Merge(other *Registry) {
	for _, c := range allCategories {
		src := other.sets[c]
		src.mu.Lock()
		lines := make([]string, 0, len(src.lines))
		for line := range src.lines {
			lines = append(lines, line)
		}
		src.mu.Unlock()

		dst := r.sets[c]
		dst.mu.Lock()
		for _, line := range lines {
			dst.lines[line] = struct{}{}
		}
		dst.mu.Unlock()
	}
}

// Lines returns the category's lines in lexicographic order. Sorting here
// is what makes the final report deterministic regardless of contribution
// order.
func (r *Registry) Lines(category IssueCategory) []string {
	s := r.sets[category]
	s.mu.Lock()
	out := make([]string, 0, len(s.lines))
	for line := range s.lines {
		out = append(out, line)
	}
	s.mu.Unlock()
	sort.Strings(out)
	return out
}

// Len reports the number of distinct lines recorded under category.
func (r *Registry) Len(category IssueCategory) int {
	s := r.sets[category]
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Total reports the number of distinct lines across all categories.
func (r *Registry) Total() int {
	n := 0
	for _, c := range allCategories {
		n += r.Len(c)
	}
	return n
}
