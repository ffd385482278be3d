package document

import (
	"bytes"
)

// SplitSource separates optional frontmatter from markup content. The
// returned frontmatter includes its delimiter lines; it is empty when the
// source carries none. Unterminated frontmatter is treated as content.
func SplitSource(source []byte) (frontmatter, content []byte) {
	first, _, found := bytes.Cut(source, []byte{'\n'})
	delim := bytes.TrimRight(first, "\r")
	if !found || (!bytes.Equal(delim, []byte("---")) && !bytes.Equal(delim, []byte("+++"))) {
		return nil, source
	}

	idx := len(first) + 1
	for idx <= len(source) {
		line, _, more := bytes.Cut(source[idx:], []byte{'\n'})
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			end := idx + len(line)
			return source[:end], bytes.TrimLeft(source[end:], "\r\n")
		}
		if !more {
			break
		}
		idx += len(line) + 1
	}

	return nil, source
}

// DetectLineBreak returns the dominant line break of the source. A source
// whose line feeds are all preceded by carriage returns is CRLF.
func DetectLineBreak(source []byte) []byte {
	crlfCount := bytes.Count(source, []byte{'\r', '\n'})
	lfCount := bytes.Count(source, []byte{'\n'})
	if lfCount > 0 && crlfCount == lfCount {
		return []byte{'\r', '\n'}
	}
	return []byte{'\n'}
}

// CountTrailingLineBreaks counts how many line breaks the source ends with.
func CountTrailingLineBreaks(source []byte, lineBreak []byte) int {
	i := len(source) - len(lineBreak)
	numBreaks := 0

	for i >= 0 && bytes.Equal(source[i:i+len(lineBreak)], lineBreak) {
		i -= len(lineBreak)
		numBreaks++
	}

	return numBreaks
}
