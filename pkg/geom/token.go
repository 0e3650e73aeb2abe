package geom

import "sync/atomic"

// Token is a stable identity for triangles, edges and faces, used to order
// otherwise equal results deterministically.
type Token uint64

// TokenSource hands out monotonically increasing tokens. It is safe for
// concurrent use and is the only shared mutable state near the kernel;
// constructors that need identity take a *TokenSource explicitly.
type TokenSource struct {
	last atomic.Uint64
}

// NewTokenSource returns a source whose first token is 1.
func NewTokenSource() *TokenSource {
	return &TokenSource{}
}

// Next returns the next token.
func (s *TokenSource) Next() Token {
	return Token(s.last.Add(1))
}
