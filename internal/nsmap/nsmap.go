// Package nsmap implements the namespace prefix map used while
// serializing: for each namespace URI it tracks the prefixes known to
// be bound to it in the current scope. A nil URI pointer stands for
// "no namespace", which is recorded separately from every real URI,
// including the empty string.
package nsmap

type Map struct {
	items     map[string][]string
	nullItems []string
}

func New() *Map {
	return &Map{
		items: make(map[string][]string),
	}
}

func (m *Map) candidates(uri *string) []string {
	if uri == nil {
		return m.nullItems
	}
	return m.items[*uri]
}

// Set records prefix as bound to uri. Bindings accumulate; the most
// recently added one wins lookups, which keeps reuse deterministic
// when several prefixes point at the same URI.
func (m *Map) Set(prefix string, uri *string) {
	if uri == nil {
		m.nullItems = append(m.nullItems, prefix)
		return
	}
	m.items[*uri] = append(m.items[*uri], prefix)
}

// Get returns a prefix bound to uri, favoring preferred when that
// exact binding exists, otherwise the last one added. The second
// return value is false when no prefix is bound to uri at all.
func (m *Map) Get(preferred string, uri *string) (string, bool) {
	candidates := m.candidates(uri)
	if len(candidates) == 0 {
		return "", false
	}
	for _, candidate := range candidates {
		if candidate == preferred {
			return candidate, true
		}
	}
	return candidates[len(candidates)-1], true
}

// Has reports whether the exact binding of prefix to uri exists.
func (m *Map) Has(prefix string, uri *string) bool {
	for _, candidate := range m.candidates(uri) {
		if candidate == prefix {
			return true
		}
	}
	return false
}

// HasPrefix reports whether prefix is bound to any URI.
func (m *Map) HasPrefix(prefix string) bool {
	for _, candidates := range m.items {
		for _, candidate := range candidates {
			if candidate == prefix {
				return true
			}
		}
	}
	for _, candidate := range m.nullItems {
		if candidate == prefix {
			return true
		}
	}
	return false
}

// Copy returns an independent map holding the same bindings. Writes to
// either map are never visible through the other; the serializer
// copies on every descent so subtree-local bindings cannot leak to
// ancestors or siblings.
func (m *Map) Copy() *Map {
	c := &Map{
		items: make(map[string][]string, len(m.items)),
	}
	for uri, candidates := range m.items {
		dup := make([]string, len(candidates))
		copy(dup, candidates)
		c.items[uri] = dup
	}
	if len(m.nullItems) > 0 {
		c.nullItems = make([]string, len(m.nullItems))
		copy(c.nullItems, m.nullItems)
	}
	return c
}
