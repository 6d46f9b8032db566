package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHours(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0m"},
		{-1, "0m"},
		{0.25, "15m"},
		{0.5, "30m"},
		{1, "1h"},
		{1.5, "1h 30m"},
		{2.999, "3h"},
		{0.0083, "0m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatHours(tt.input), "FormatHours(%v)", tt.input)
	}
}
