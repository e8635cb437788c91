package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  immunizations  ", "mtm  ", "  billing"},
			expected: []string{"immunizations", "mtm", "billing"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"mtm", "billing", "mtm", "pgx", "billing"},
			expected: []string{"mtm", "billing", "pgx"},
		},
		{
			name:     "removes entries that trim to nothing",
			input:    []string{"mtm", "", "  ", "billing"},
			expected: []string{"mtm", "billing"},
		},
		{
			name:     "trim happens before dedupe",
			input:    []string{"  mtm ", "billing", "mtm", "", "  ", "billing"},
			expected: []string{"mtm", "billing"},
		},
		{
			name:     "case variants stay distinct",
			input:    []string{"MTM", "mtm", "Mtm"},
			expected: []string{"MTM", "mtm", "Mtm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Comprehensive Diabetes Protocol", "diabetes"))
	assert.True(t, ContainsFold("Comprehensive Diabetes Protocol", "DIABETES PRO"))
	assert.True(t, ContainsFold("anything", ""))
	assert.False(t, ContainsFold("Billing Quick Reference", "diabetes"))
	assert.False(t, ContainsFold("", "diabetes"))
}
