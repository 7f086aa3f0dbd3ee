package domain

import (
	"encoding/json"
	"iter"
)

// ResultSet is the ordered list of normalized results for one API response.
// An empty ResultSet means the API found no match; it is distinct from a nil
// *ResultSet, which callers treat as "no result could be determined".
type ResultSet[T any] struct {
	items []T
}

// NewResultSet normalizes every raw result in order.
func NewResultSet[T any](raws []RawResult, normalizer Normalizer[T]) *ResultSet[T] {
	items := make([]T, 0, len(raws))
	for _, raw := range raws {
		items = append(items, normalizer.Normalize(raw))
	}
	return &ResultSet[T]{items: items}
}

// Len returns the number of results. A nil set has none.
func (s *ResultSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// First returns the first result, or false when the set is empty.
func (s *ResultSet[T]) First() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[0], true
}

// Items returns a copy of the results in API order.
func (s *ResultSet[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// All iterates over the results in API order.
func (s *ResultSet[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range s.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// MarshalJSON encodes the set as a plain JSON array.
func (s *ResultSet[T]) MarshalJSON() ([]byte, error) {
	if s.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}

// UnmarshalJSON decodes a JSON array produced by MarshalJSON.
func (s *ResultSet[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	s.items = items
	return nil
}
