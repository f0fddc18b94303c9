package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBadge(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"12345K", "12345K"},
		{"12.345-k", "12345K"},
		{" 12 345 k ", "12345K"},
		{"12\t345 K", "12345K"},
		{"12\u00a0345K", "12345K"},
		{"\u00a012345K\u00a0", "12345K"},
		{"abc-1", "ABC1"},
		{"", ""},
		{" .-. ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeBadge(tt.input))
		})
	}
}

func TestNormalizeBadge_Idempotent(t *testing.T) {
	for _, badge := range []string{"12.345-k", " a b-c ", "999"} {
		once := NormalizeBadge(badge)
		assert.Equal(t, once, NormalizeBadge(once))
	}
}

func TestBadgeKey_NumberCell(t *testing.T) {
	assert.Equal(t, "123", BadgeKey(NumberCell(123)))
	assert.Equal(t, "123", BadgeKey(StringCell("123")))
	assert.Equal(t, "", BadgeKey(EmptyCell()))
}
