package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		name        string
		display     string
		wantPrimary string
		wantAlt     string
	}{
		{"parentheses", "Migraine(Hemicrania)", "Migraine", "Hemicrania"},
		{"no brackets", "Migraine", "Migraine", ""},
		{"square brackets", "편두통 [Migraine]", "편두통", "Migraine"},
		{"full-width parentheses", "편두통（Migraine）", "편두통", "Migraine"},
		{"padding is trimmed", "  Gout ( Podagra )  ", "Gout", "Podagra"},
		{"unclosed bracket", "Gout (Podagra", "Gout (Podagra", ""},
		{"closing before opening", "Gout) x (", "Gout) x (", ""},
		{"earliest pair wins", "A[B](C)", "A", "B"},
		{"bracket at start keeps whole name", "(Unknown)", "(Unknown)", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary, alt := SplitName(tt.display)
			assert.Equal(t, tt.wantPrimary, primary)
			assert.Equal(t, tt.wantAlt, alt)
		})
	}
}
