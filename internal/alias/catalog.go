package alias

import (
	"sort"

	"data-pipeline/internal/match"
)

// Catalog maps canonical field names to the aliases considered synonymous.
type Catalog struct {
	entries map[string][]string
}

// New builds a catalog from alias sets. Later sets extend earlier ones; an
// alias already present for a field (after normalization) is not repeated,
// and aliases that normalize to nothing are dropped.
func New(sets ...map[string][]string) *Catalog {
	c := &Catalog{entries: make(map[string][]string)}

	for _, set := range sets {
		c.add(set)
	}

	return c
}

// Default returns the built-in catalog extended with the domain sets.
func Default() *Catalog {
	return New(Builtin, Ecommerce, Quiz, SocialMedia)
}

// Lookup returns the aliases registered for a field name, or nil.
// The returned slice is a copy.
func (c *Catalog) Lookup(field string) []string {
	if c == nil {
		return nil
	}

	aliases := c.entries[match.NormalizeName(field)]
	if len(aliases) == 0 {
		return nil
	}

	out := make([]string, len(aliases))
	copy(out, aliases)

	return out
}

// Merge returns a new catalog holding c's entries plus the extra sets.
// c is left unchanged.
func (c *Catalog) Merge(extra ...map[string][]string) *Catalog {
	merged := &Catalog{entries: make(map[string][]string)}

	if c != nil {
		for key, aliases := range c.entries {
			merged.entries[key] = append([]string(nil), aliases...)
		}
	}

	for _, set := range extra {
		merged.add(set)
	}

	return merged
}

// Fields returns the normalized field names with registered aliases, sorted.
func (c *Catalog) Fields() []string {
	if c == nil {
		return nil
	}

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// Len returns the number of fields with registered aliases.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}

	return len(c.entries)
}

func (c *Catalog) add(set map[string][]string) {
	// Sorted keys keep alias order independent of map iteration when two
	// spellings of one field appear in the same set.
	fields := make([]string, 0, len(set))
	for field := range set {
		fields = append(fields, field)
	}

	sort.Strings(fields)

	for _, field := range fields {
		key := match.NormalizeName(field)
		if key == "" {
			continue
		}

		existing := c.entries[key]

		seen := make(map[string]struct{}, len(existing))
		for _, a := range existing {
			seen[match.NormalizeName(a)] = struct{}{}
		}

		for _, a := range set[field] {
			norm := match.NormalizeName(a)
			if norm == "" || norm == key {
				continue
			}

			if _, ok := seen[norm]; ok {
				continue
			}

			seen[norm] = struct{}{}
			existing = append(existing, a)
		}

		if len(existing) > 0 {
			c.entries[key] = existing
		}
	}
}
