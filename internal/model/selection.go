package model

import (
	"sort"
	"sync"
)

// Selection is the set of entry indices the user has chosen to download.
// Membership is unordered; SortedIndices is the only iteration order the
// orchestrator uses. All operations are atomic from the caller's
// perspective: the UI mutates the selection from event handlers while a
// batch reads a snapshot.
type Selection struct {
	mu      sync.Mutex
	indices map[int]struct{}
}

// NewSelection creates an empty Selection.
func NewSelection() *Selection {
	return &Selection{indices: make(map[int]struct{})}
}

// SelectAll replaces the selection with the full index range {0 .. n-1}.
func (s *Selection) SelectAll(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indices = make(map[int]struct{}, n)
	for i := 0; i < n; i++ {
		s.indices[i] = struct{}{}
	}
}

// ClearAll empties the selection.
func (s *Selection) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indices = make(map[int]struct{})
}

// Toggle flips membership of a single index.
func (s *Selection) Toggle(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indices[i]; ok {
		delete(s.indices, i)
	} else {
		s.indices[i] = struct{}{}
	}
}

// Set adds or removes a single index explicitly.
func (s *Selection) Set(i int, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if selected {
		s.indices[i] = struct{}{}
	} else {
		delete(s.indices, i)
	}
}

// Replace swaps the whole selection for the given indices. Used when a
// selection form is submitted in bulk.
func (s *Selection) Replace(indices []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indices = make(map[int]struct{}, len(indices))
	for _, i := range indices {
		s.indices[i] = struct{}{}
	}
}

// Has reports whether the index is selected.
func (s *Selection) Has(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.indices[i]
	return ok
}

// Len returns the number of selected indices.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.indices)
}

// SortedIndices returns a snapshot of the selected indices in ascending
// order. Downloads always iterate this order.
func (s *Selection) SortedIndices() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.indices))
	for i := range s.indices {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
