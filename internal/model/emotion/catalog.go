package emotion

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration marks a catalog that breaks its integrity rules. It is only
// ever returned while building a catalog, never mid-session.
var ErrConfiguration = errors.New("invalid emotion catalog")

// Catalog is the immutable, ordered set of emotion entries. Declaration order
// is the tie-break order used by classification.
type Catalog struct {
	entries []Entry
	index   map[Label]int
}

// NewCatalog validates entries and returns a catalog that keeps their order.
func NewCatalog(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrConfiguration)
	}

	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[Label]int, len(entries)),
	}
	for i, entry := range entries {
		if err := validateEntry(entry); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrConfiguration, i, err)
		}
		if _, dup := c.index[entry.Label]; dup {
			return nil, fmt.Errorf("%w: entry %d: duplicate label %q", ErrConfiguration, i, entry.Label)
		}
		c.index[entry.Label] = len(c.entries)
		c.entries = append(c.entries, entry.clone())
	}
	return c, nil
}

func validateEntry(entry Entry) error {
	label := string(entry.Label)
	switch {
	case strings.TrimSpace(label) == "":
		return errors.New("label is required")
	case entry.Label == None:
		return fmt.Errorf("label %q is reserved", None)
	case strings.ToLower(label) != label:
		return fmt.Errorf("label %q must be lowercase", label)
	case len(entry.Keywords) == 0:
		return fmt.Errorf("%s: at least one keyword is required", label)
	case len(entry.Responses) == 0:
		return fmt.Errorf("%s: at least one response is required", label)
	}

	// Input is lowercased before matching, so an uppercase keyword could never fire.
	for _, keyword := range entry.Keywords {
		if strings.TrimSpace(keyword) == "" {
			return fmt.Errorf("%s: blank keyword", label)
		}
		if strings.ToLower(keyword) != keyword {
			return fmt.Errorf("%s: keyword %q must be lowercase", label, keyword)
		}
	}
	for _, response := range entry.Responses {
		if strings.TrimSpace(response) == "" {
			return fmt.Errorf("%s: blank response", label)
		}
	}
	return nil
}

// Entries returns the entries in declaration order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, entry := range c.entries {
		out[i] = entry.clone()
	}
	return out
}

// Lookup finds the entry for label.
func (c *Catalog) Lookup(label Label) (Entry, bool) {
	i, ok := c.index[label]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i].clone(), true
}

// Labels lists the labels in declaration order.
func (c *Catalog) Labels() []Label {
	labels := make([]Label, len(c.entries))
	for i, entry := range c.entries {
		labels[i] = entry.Label
	}
	return labels
}

// Len reports the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
