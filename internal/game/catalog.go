package game

import "vitrola/internal/models"

// Catalog is the ordered set of words matching the current language filter,
// as last fetched from storage. Ids are unique.
type Catalog struct {
	filter models.LanguageFilter
	words  []models.Word
	ids    map[int64]struct{}
}

// NewCatalog builds a catalog from fetched words. Later duplicates of an id
// are dropped.
func NewCatalog(filter models.LanguageFilter, words []models.Word) *Catalog {
	c := &Catalog{
		filter: filter,
		words:  make([]models.Word, 0, len(words)),
		ids:    make(map[int64]struct{}, len(words)),
	}
	for _, w := range words {
		c.Append(w)
	}
	return c
}

// Filter returns the language filter the catalog was fetched with
func (c *Catalog) Filter() models.LanguageFilter {
	return c.filter
}

// Len returns the number of words
func (c *Catalog) Len() int {
	return len(c.words)
}

// Words returns a copy of the catalog in its original order
func (c *Catalog) Words() []models.Word {
	out := make([]models.Word, len(c.words))
	copy(out, c.words)
	return out
}

// Contains reports whether a word id is part of the catalog
func (c *Catalog) Contains(id int64) bool {
	_, ok := c.ids[id]
	return ok
}

// Append adds a word at the end. It returns false when the id is already present.
func (c *Catalog) Append(w models.Word) bool {
	if c.Contains(w.ID) {
		return false
	}
	c.ids[w.ID] = struct{}{}
	c.words = append(c.words, w)
	return true
}
