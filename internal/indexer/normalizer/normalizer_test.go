package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := New([]string{"the", "On", " a "})

	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"Cat", "cat", true},
		{"cat.", "cat", true},
		{"cat?!;", "cat", true},
		{"R2D2", "r2d2", true},
		{"1984,", "1984", true},
		{"Amélie", "amélie", true},
		{"...", "", false},
		{"!", "", false},
		{"", "", false},
		{"don't", "", false},
		{"e-mail", "", false},
		{"(cat)", "", false},
		{".cat", "", false},
		{"cat.dog", "", false},
		{"THE", "", false},
		{"on.", "", false},
		{"a", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := n.Normalize(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewIgnoresBlankNoiseWords(t *testing.T) {
	n := New([]string{"", "  ", "x", "X"})
	assert.Equal(t, 1, n.NoiseCount())
	assert.True(t, n.IsNoise("x"))
}

func TestDefault(t *testing.T) {
	n := Default()
	_, ok := n.Normalize("The")
	assert.False(t, ok)
	got, ok := n.Normalize("Spaceship.")
	assert.True(t, ok)
	assert.Equal(t, "spaceship", got)
}
