// Package blocks converts markup text to and from a minimal,
// self-describing Block model, independent of the editor's native node
// schema. It shares the parse/stringify pipeline with the editor but no
// state; every operation is a pure function from one tree shape to
// another.
package blocks

import (
	"strconv"
	"strings"
)

// Block is a generic content unit: typed content plus named child regions.
// IDs are generated fresh on every parse; markup carries no identity, only
// content.
type Block struct {
	ID      string                 `json:"id"`
	Type    string                 `json:"type"`
	Content map[string]interface{} `json:"content"`
	Config  map[string]interface{} `json:"config"`
	Regions map[string][]*Block    `json:"regions"`
}

// Standard block types. Recognition is name-based; anything outside this
// set and outside the injected directive registry is unrecognized.
const (
	corePrefix = "core:"

	TypeParagraph = corePrefix + "paragraph"
	TypeQuote     = corePrefix + "quote"
	TypeCode      = corePrefix + "code"
	TypeImage     = corePrefix + "image"
	TypeList      = corePrefix + "list"
	TypeDivider   = corePrefix + "divider"

	typeHeadingPrefix = corePrefix + "heading_"
)

// HeadingType returns the standard type name for a heading of the given
// depth, e.g. "core:heading_2".
func HeadingType(depth int) string {
	if depth < 1 {
		depth = 1
	}
	if depth > 6 {
		depth = 6
	}
	return typeHeadingPrefix + strconv.Itoa(depth)
}

// headingDepth extracts the depth from a "core:heading_<N>" type name.
func headingDepth(blockType string) (int, bool) {
	raw, ok := strings.CutPrefix(blockType, typeHeadingPrefix)
	if !ok {
		return 0, false
	}
	depth, err := strconv.Atoi(raw)
	if err != nil || depth < 1 || depth > 6 {
		return 0, false
	}
	return depth, true
}

func (b *Block) text() string {
	return b.stringContent("text")
}

func (b *Block) stringContent(key string) string {
	v, ok := b.Content[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (b *Block) boolContent(key string) bool {
	v, ok := b.Content[key]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	default:
		return false
	}
}

func (b *Block) stringsContent(key string) []string {
	v, ok := b.Content[key]
	if !ok {
		return nil
	}
	switch items := v.(type) {
	case []string:
		return items
	case []interface{}:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// hasRegions reports whether the block has at least one non-empty region,
// which decides the container-vs-leaf form of its directive.
func (b *Block) hasRegions() bool {
	for _, children := range b.Regions {
		if len(children) > 0 {
			return true
		}
	}
	return false
}
