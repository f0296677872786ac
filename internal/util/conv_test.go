package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in     string
		want   uint
		wantOK bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.5", 0, false},
		{"", 0, false},
		{" 1", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseID(tt.in)
		assert.Equal(t, tt.wantOK, ok, "in=%q", tt.in)
		assert.Equal(t, tt.want, got, "in=%q", tt.in)
	}
}

func TestParsePositiveInt(t *testing.T) {
	assert.Equal(t, 10, ParsePositiveInt("10", 20))
	assert.Equal(t, 20, ParsePositiveInt("", 20))
	assert.Equal(t, 20, ParsePositiveInt("0", 20))
	assert.Equal(t, 20, ParsePositiveInt("-3", 20))
	assert.Equal(t, 20, ParsePositiveInt("x", 20))
}
