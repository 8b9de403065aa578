package schedule

import (
	"strings"
	"testing"
)

func TestNewSlug(t *testing.T) {
	seen := make(map[string]bool)
	for range 200 {
		s, err := NewSlug()
		if err != nil {
			t.Fatalf("slug: %v", err)
		}
		if len(s) != slugLength {
			t.Fatalf("expected %d chars, got %q", slugLength, s)
		}
		for _, c := range s {
			if !strings.ContainsRune(slugAlphabet, c) {
				t.Fatalf("non base-36 rune %q in %q", c, s)
			}
		}
		if seen[s] {
			t.Fatalf("duplicate slug %q", s)
		}
		seen[s] = true
	}
}
