package game

import (
	"math/rand/v2"

	"vitrola/internal/models"
)

// DrawPool holds the catalog words not yet drawn in the current raffle.
type DrawPool struct {
	words    []models.Word
	randIntN func(n int) int
}

// NewDrawPool creates an empty pool. randIntN returns a uniform index in
// [0, n); nil uses math/rand/v2.
func NewDrawPool(randIntN func(n int) int) *DrawPool {
	if randIntN == nil {
		randIntN = rand.IntN
	}
	return &DrawPool{randIntN: randIntN}
}

// Reset refills the pool with every word of the catalog
func (p *DrawPool) Reset(c *Catalog) {
	if c == nil {
		p.words = nil
		return
	}
	p.words = c.Words()
}

// Len returns the number of words left to draw
func (p *DrawPool) Len() int {
	return len(p.words)
}

// Draw removes and returns one remaining word chosen uniformly at random.
// An empty pool returns ErrExhausted and is left untouched.
func (p *DrawPool) Draw() (models.Word, error) {
	n := len(p.words)
	if n == 0 {
		return models.Word{}, ErrExhausted
	}

	i := p.randIntN(n)
	chosen := p.words[i]

	// swap-remove, order inside the pool carries no meaning
	p.words[i] = p.words[n-1]
	p.words[n-1] = models.Word{}
	p.words = p.words[:n-1]

	return chosen, nil
}

// Add makes a word eligible for future draws. Ids already in the pool are ignored.
func (p *DrawPool) Add(w models.Word) bool {
	for _, existing := range p.words {
		if existing.ID == w.ID {
			return false
		}
	}
	p.words = append(p.words, w)
	return true
}
