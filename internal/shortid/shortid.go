// Package shortid issues the compact identifiers used in share links.
package shortid

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is the URL-safe character set short ids are drawn from.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	DefaultLength = 8
	MinLength     = 4
	MaxLength     = 64
)

// Generator produces random short ids of a fixed length.
type Generator struct {
	length int
}

// New validates length once so Generate cannot fail afterwards.
func New(length int) (*Generator, error) {
	if length < MinLength || length > MaxLength {
		return nil, fmt.Errorf("short id length %d out of range [%d,%d]", length, MinLength, MaxLength)
	}
	return &Generator{length: length}, nil
}

// Length returns the configured id length.
func (g *Generator) Length() int {
	return g.length
}

// Generate returns a new random id. Uniqueness is enforced by the store.
func (g *Generator) Generate() string {
	return gonanoid.MustGenerate(Alphabet, g.length)
}

// Valid reports whether s could have been issued by some Generator. It is
// used to reject obviously bogus links without touching the store.
func Valid(s string) bool {
	if len(s) == 0 || len(s) > MaxLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		default:
			return false
		}
	}
	return true
}
