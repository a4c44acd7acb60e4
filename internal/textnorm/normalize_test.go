package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses spaces and tabs", "Caesar   Salad\t\t9.50", "Caesar Salad 9.50"},
		{"collapses blank line runs", "Starters\n\n\n\nSoup", "Starters\n\nSoup"},
		{"strips control characters", "Soup\x00\x07 of the day", "Soup of the day"},
		{"canonical currency", "Steak $25 / €27 / £22", "Steak £25 / £27 / £22"},
		{"trims and drops BOM", "\uFEFF  Menu  \n", "Menu"},
		{"windows line endings", "A\r\nB\r\n\r\nC", "A\nB\n\nC"},
		{"whitespace-only lines count as blank", "A\n   \n \nB", "A\n\nB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	in := "  Wine List \n\n\n Red\t\tWines\n$12  glass\x01 "
	once := Normalize(in)
	assert.Equal(t, once, Normalize(once))
}
