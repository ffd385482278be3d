package markup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var defaultAttributesParserWriter = &failoverParserWriter{
	parsers: []attributesParserWriter{
		&quotedParserWriter{},
		&jsonParserWriter{},
	},
	writer: &quotedParserWriter{},
}

// Attributes is the string-only key-value set a directive may carry in
// markup text. Richer types are encoded into and decoded from strings by
// the typed attribute codec.
type Attributes map[string]string

// ParseDirectiveAttributes parses a raw brace-enclosed attribute list.
// A nil or empty input yields an empty set.
func ParseDirectiveAttributes(raw []byte) (Attributes, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Attributes{}, nil
	}
	return defaultAttributesParserWriter.Parse(raw)
}

// WriteDirectiveAttributes writes attributes in the canonical quoted form,
// e.g. {collection="blog" maxItems="5"}.
func WriteDirectiveAttributes(w io.Writer, attrs Attributes) error {
	return defaultAttributesParserWriter.Write(w, attrs)
}

type attributesParserWriter interface {
	Parse([]byte) (Attributes, error)
	Write(io.Writer, Attributes) error
}

// quotedParserWriter handles the canonical directive attribute syntax:
//
//	{ key="value" other="with spaces" }
//
// Unquoted values are accepted on parse for hand-edited files.
type quotedParserWriter struct{}

func (p *quotedParserWriter) Parse(raw []byte) (Attributes, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) < 2 || raw[0] != '{' || raw[len(raw)-1] != '}' {
		return nil, errors.New("attributes must be enclosed in braces")
	}

	attrs := make(Attributes)
	s := raw[1 : len(raw)-1]

	i := 0
	for i < len(s) {
		for i < len(s) && isAttrSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}

		j := i
		for j < len(s) && s[j] != '=' && !isAttrSpace(s[j]) {
			j++
		}
		key := string(s[i:j])

		if j >= len(s) || s[j] != '=' {
			word := s[i:j]
			if bytes.ContainsAny(word, `:"`) {
				// Not the quoted syntax; let the JSON fallback try.
				return nil, errors.Errorf("malformed attribute %q", word)
			}
			// A bare word carries no value; ignore it.
			i = j
			continue
		}
		j++

		var value string
		if j < len(s) && s[j] == '"' {
			j++
			k := j
			for k < len(s) && s[k] != '"' {
				if s[k] == '\\' && k+1 < len(s) {
					k++
				}
				k++
			}
			if k >= len(s) {
				return nil, errors.New("unterminated quoted attribute value")
			}
			value = unescapeAttrValue(string(s[j:k]))
			j = k + 1
		} else {
			k := j
			for k < len(s) && !isAttrSpace(s[k]) {
				k++
			}
			value = string(s[j:k])
			j = k
		}

		if key != "" {
			attrs[key] = value
		}
		i = j
	}

	return attrs, nil
}

func (p *quotedParserWriter) Write(w io.Writer, attrs Attributes) error {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if _, err := w.Write([]byte{'{'}); err != nil {
		return errors.WithStack(err)
	}
	for i, k := range keys {
		if i > 0 {
			if _, err := w.Write([]byte{' '}); err != nil {
				return errors.WithStack(err)
			}
		}
		if _, err := fmt.Fprintf(w, "%s=%s", k, strconv.Quote(attrs[k])); err != nil {
			return errors.WithStack(err)
		}
	}
	_, err := w.Write([]byte{'}'})
	return errors.WithStack(err)
}

// jsonParserWriter parses all values as strings. Kept as a fallback for
// content authored with JSON-style attribute maps.
type jsonParserWriter struct{}

func (p *jsonParserWriter) Parse(raw []byte) (Attributes, error) {
	parsed := make(map[string]interface{})
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errors.WithStack(err)
	}

	result := make(Attributes, len(parsed))
	for k, v := range parsed {
		if strVal, ok := v.(string); ok {
			result[k] = strVal
		} else if stringified, err := json.Marshal(v); err == nil {
			result[k] = string(stringified)
		}
	}

	return result, nil
}

func (p *jsonParserWriter) Write(w io.Writer, attrs Attributes) error {
	res, err := json.Marshal(attrs)
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = w.Write(bytes.TrimSpace(res))
	return errors.WithStack(err)
}

// failoverParserWriter parses attributes using the provided parsers in
// order. If a parser fails, the next one is used. The writer is used to
// write attributes back.
type failoverParserWriter struct {
	parsers []attributesParserWriter
	writer  attributesParserWriter
}

func (p *failoverParserWriter) Parse(raw []byte) (_ Attributes, finalErr error) {
	for _, parser := range p.parsers {
		attrs, err := parser.Parse(raw)
		if err == nil {
			return attrs, nil
		}
		finalErr = multierr.Append(finalErr, err)
	}
	return
}

func (p *failoverParserWriter) Write(w io.Writer, attrs Attributes) error {
	return p.writer.Write(w, attrs)
}

func isAttrSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func unescapeAttrValue(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	unquoted, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return s
	}
	return unquoted
}
