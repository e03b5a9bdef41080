// Package generate produces synthetic note records.
package generate

import (
	"math/rand"
	"time"

	"aweshore/seed/internal/model"
)

const (
	TitleLen   = 10
	ContentLen = 200

	TitleAlphabet   = "abcdefghijklmnopqrstuvwxyz"
	ContentAlphabet = "abcdefghijklmnopqrstuvwxyz "
)

// Generator builds one Note per call from an explicit random source and clock.
// It is not safe for concurrent use (neither is *rand.Rand).
type Generator struct {
	r   *rand.Rand
	now func() time.Time
}

// New returns a Generator drawing from r. A nil now defaults to time.Now.
func New(r *rand.Rand, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{r: r, now: now}
}

// NewSeeded returns a wall-clock Generator whose character stream is reproducible for seed.
func NewSeeded(seed int64) *Generator {
	return New(rand.New(rand.NewSource(seed)), nil)
}

// Next returns a fresh record. Created and Updated are the same string.
func (g *Generator) Next() model.Note {
	created := g.now().Format(model.TimeLayout)
	return model.Note{
		Title:   g.randString(TitleAlphabet, TitleLen),
		Content: g.randString(ContentAlphabet, ContentLen),
		Created: created,
		Updated: created,
	}
}

func (g *Generator) randString(alphabet string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[g.r.Intn(len(alphabet))]
	}
	return string(b)
}
