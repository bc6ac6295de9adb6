package orderedmap

import (
	"errors"
	"iter"
)

var ErrDuplicateEntry = errors.New("duplicate entry")

type Map[K comparable, V any] struct {
	entries []K
	keys    map[K]V
}

func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		entries: make([]K, 0),
		keys:    make(map[K]V),
	}
}

func (m *Map[K, V]) Set(key K, value V) error {
	_, exists := m.keys[key]
	if exists {
		return ErrDuplicateEntry
	}
	m.entries = append(m.entries, key)
	m.keys[key] = value
	return nil
}

// Replace stores the value under key, keeping the key's original
// position when it already exists.
func (m *Map[K, V]) Replace(key K, value V) {
	if _, exists := m.keys[key]; !exists {
		m.entries = append(m.entries, key)
	}
	m.keys[key] = value
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	value, exists := m.keys[key]
	return value, exists
}

func (m *Map[K, V]) Len() int {
	return len(m.entries)
}

func (m *Map[K, V]) Range() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.entries {
			v := m.keys[k]
			if !yield(k, v) {
				break
			}
		}
	}
}
