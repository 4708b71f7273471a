package appcast

import (
	"bytes"
	"unicode"
)

// NormalizeWhitespace strips trailing whitespace from every line, drops
// trailing blank lines and ends the content with exactly one newline.
// CRLF and CR line endings become LF.
func NormalizeWhitespace(content []byte) []byte {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	content = bytes.ReplaceAll(content, []byte("\r"), []byte("\n"))

	lines := bytes.Split(content, []byte("\n"))
	for i, line := range lines {
		lines[i] = bytes.TrimRightFunc(line, unicode.IsSpace)
	}

	for len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}

	out := bytes.Join(lines, []byte("\n"))

	return append(out, '\n')
}
