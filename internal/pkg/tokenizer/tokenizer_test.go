package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	assert.Equal(t, 0, Count(""))
	assert.Equal(t, 1, Count("a"))
	assert.Equal(t, 1, Count("abcd"))
	assert.Equal(t, 2, Count("abcde"))
	// runes, not bytes
	assert.Equal(t, 1, Count("дом"))
}

func TestCountSubadditive(t *testing.T) {
	parts := []string{"Dubai ", "Marina", " prices rose 10% ", "in 2023."}
	for _, a := range parts {
		for _, b := range parts {
			assert.LessOrEqual(t, Count(a+b), Count(a)+Count(b))
		}
	}
}
