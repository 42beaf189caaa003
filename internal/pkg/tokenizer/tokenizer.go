// Package tokenizer approximates model token counts without a vocabulary.
package tokenizer

import "unicode/utf8"

// CharsPerToken is the average number of characters a BPE token covers in
// English prose.
const CharsPerToken = 4

// Count returns ceil(runes / CharsPerToken). It is subadditive:
// Count(a+b) <= Count(a) + Count(b).
func Count(s string) int {
	n := utf8.RuneCountInString(s)
	return (n + CharsPerToken - 1) / CharsPerToken
}
