package content

import (
	"bytes"
	"regexp"
	"unicode/utf8"
)

var (
	// Trailing whitespace on lines can cause issues and is never intentional.
	trailingWhitespace = regexp.MustCompile(`(?m)[ \t]+$`)

	// Runs of repeated characters on their own line are decorative rules.
	// Left alone, CommonMark may read them as code fences or setext headings.
	decorativeHR = regexp.MustCompile(`(?m)^\s*([-=.*_~\x60#+] ?){3,}\s*$`)

	// More than one blank line in a row is collapsed to one.
	excessBlankLines = regexp.MustCompile(`\n{3,}`)
)

// ScrubText cleans up user-supplied text into something as compatible as
// possible with CommonMark.
func ScrubText() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		if !utf8.Valid(input) {
			input = bytes.ToValidUTF8(input, []byte("\uFFFD"))
		}
		input = bytes.ReplaceAll(input, []byte("\r\n"), []byte("\n"))
		input = bytes.ReplaceAll(input, []byte("\r"), []byte("\n"))

		input = decorativeHR.ReplaceAll(input, []byte("***"))
		input = trailingWhitespace.ReplaceAll(input, nil)
		input = excessBlankLines.ReplaceAll(input, []byte("\n\n"))
		return bytes.TrimSpace(input), nil
	}
}
