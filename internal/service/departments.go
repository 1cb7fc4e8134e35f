package service

import "strings"

// DepartmentCatalog is the configured set of canonical department names.
// Lookups are case-insensitive and ignore surrounding whitespace.
type DepartmentCatalog struct {
	names []string
	index map[string]string
}

func NewDepartmentCatalog(names []string) *DepartmentCatalog {
	c := &DepartmentCatalog{index: make(map[string]string, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := strings.ToLower(n)
		if n == "" {
			continue
		}
		if _, dup := c.index[key]; dup {
			continue
		}
		c.index[key] = n
		c.names = append(c.names, n)
	}
	return c
}

// Names returns the canonical names in configuration order.
func (c *DepartmentCatalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Canonical resolves name to its canonical spelling.
func (c *DepartmentCatalog) Canonical(name string) (string, bool) {
	canonical, ok := c.index[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// Normalize trims, canonicalizes and de-duplicates names, keeping first-seen
// order. Unknown names are kept as given so they stay visible on the request.
func (c *DepartmentCatalog) Normalize(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if canonical, ok := c.Canonical(n); ok {
			n = canonical
		}
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}
