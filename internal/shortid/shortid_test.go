package shortid

import (
	"strings"
	"testing"
)

func TestGenerateUsesAlphabetAndLength(t *testing.T) {
	g, err := New(DefaultLength)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 500; i++ {
		id := g.Generate()
		if len(id) != DefaultLength {
			t.Fatalf("expected length %d, got %q", DefaultLength, id)
		}
		for _, r := range id {
			if !strings.ContainsRune(Alphabet, r) {
				t.Fatalf("id %q contains %q outside alphabet", id, r)
			}
		}
		if !Valid(id) {
			t.Fatalf("generated id %q not valid", id)
		}
	}
}

func TestGenerateIsRandom(t *testing.T) {
	g, err := New(12)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := g.Generate()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q after %d draws", id, i)
		}
		seen[id] = struct{}{}
	}
}

func TestNewRejectsBadLength(t *testing.T) {
	for _, n := range []int{-1, 0, MinLength - 1, MaxLength + 1} {
		if _, err := New(n); err == nil {
			t.Fatalf("expected error for length %d", n)
		}
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"aB3dE6gH", true},
		{"zzzz1", true},
		{"", false},
		{"abc-def", false},
		{"abc_def", false},
		{"../etc", false},
		{"ab cd", false},
		{"ümlaut", false},
		{strings.Repeat("a", MaxLength+1), false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := Valid(tt.in); got != tt.want {
				t.Fatalf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
