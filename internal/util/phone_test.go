package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	for in, want := range map[string]string{
		"+34 600 111 222": "+34600111222",
		"0034600111222":   "+34600111222",
		"34-600-111-222":  "+34600111222",
		"+1 (555) 123":    "+1555123",
		"   ":             "",
	} {
		assert.Equal(t, want, NormalizePhone(in), "input %q", in)
	}
}

func TestNewULID(t *testing.T) {
	a, b := New(), New()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}
