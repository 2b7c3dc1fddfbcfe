// Package codegen produces the short unique codes printed on buteur tickets
// and reward vouchers.
package codegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/latableronde/contest/internal/rng"
)

// Alphabet excludes 0/O/1/I so codes survive being read over a counter or
// typed from a printed receipt.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength gives 32^8 (~1.1e12) possible codes; collisions are negligible
// by construction, the retry loop is a backstop only.
const CodeLength = 8

const maxAttempts = 5

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generator builds collision-checked codes from an injectable random source.
type Generator struct {
	src rng.Source
}

// New creates a Generator drawing from src.
func New(src rng.Source) *Generator {
	return &Generator{src: src}
}

// Generate returns a fresh code that exists reports as free. Exhausting the
// attempt budget means the code space is misconfigured for the volume of
// issued codes and is surfaced as a fatal error, not retried forever.
func (g *Generator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code := g.random()
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code %s: %w", code, err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("no free code after %d attempts: alphabet/length too small for issued volume", maxAttempts)
}

func (g *Generator) random() string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(Alphabet[g.src.IntN(len(Alphabet))])
	}
	return b.String()
}
