package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReference(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-Z]{9}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ref := NewReference()
		assert.Regexp(t, pattern, ref)
		seen[ref] = true
	}
	assert.Greater(t, len(seen), 1)
}
