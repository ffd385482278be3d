package markup

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Directive node kinds extend the base markup grammar with attribute-bearing
// constructs that the format does not natively express.
var (
	KindContainerDirective = ast.NewNodeKind("ContainerDirective")
	KindLeafDirective      = ast.NewNodeKind("LeafDirective")
)

// Directive is implemented by both directive node variants. The attribute
// accessor is named DirectiveAttributes because ast.Node already claims
// Attributes for its own attribute list.
type Directive interface {
	ast.Node
	DirectiveName() string
	DirectiveAttributes() Attributes
}

// ContainerDirective is a directive with a nested markup body:
//
//	:::name{attr="value"}
//	body
//	:::
//
// Nested containers use longer fences on the outer directive, the same way
// fenced code blocks disambiguate backticks.
type ContainerDirective struct {
	ast.BaseBlock

	Name  string
	Attrs Attributes

	fenceLength int
}

var _ Directive = (*ContainerDirective)(nil)

func NewContainerDirective(name string, attrs Attributes) *ContainerDirective {
	if attrs == nil {
		attrs = Attributes{}
	}
	return &ContainerDirective{Name: name, Attrs: attrs, fenceLength: 3}
}

func (n *ContainerDirective) Kind() ast.NodeKind { return KindContainerDirective }

func (n *ContainerDirective) DirectiveName() string { return n.Name }

func (n *ContainerDirective) DirectiveAttributes() Attributes { return n.Attrs }

func (n *ContainerDirective) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": n.Name}, nil)
}

// LeafDirective is a directive without a body:
//
//	::name{attr="value"}
type LeafDirective struct {
	ast.BaseBlock

	Name  string
	Attrs Attributes
}

var _ Directive = (*LeafDirective)(nil)

func NewLeafDirective(name string, attrs Attributes) *LeafDirective {
	if attrs == nil {
		attrs = Attributes{}
	}
	return &LeafDirective{Name: name, Attrs: attrs}
}

func (n *LeafDirective) Kind() ast.NodeKind { return KindLeafDirective }

func (n *LeafDirective) DirectiveName() string { return n.Name }

func (n *LeafDirective) DirectiveAttributes() Attributes { return n.Attrs }

func (n *LeafDirective) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": n.Name}, nil)
}

var (
	containerOpenRe = regexp.MustCompile(`^(:{3,})([a-zA-Z][a-zA-Z0-9_-]*)\s*(\{.*\})?\s*$`)
	leafOpenRe      = regexp.MustCompile(`^::([a-zA-Z][a-zA-Z0-9_-]*)\s*(\{.*\})?\s*$`)
	containerEndRe  = regexp.MustCompile(`^(:{3,})\s*$`)
)

type directiveParser struct{}

// NewDirectiveParser returns a block parser for leaf and container
// directives. It is registered next to the built-in block parsers.
func NewDirectiveParser() parser.BlockParser {
	return &directiveParser{}
}

func (p *directiveParser) Trigger() []byte {
	return []byte{':'}
}

func (p *directiveParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos >= len(line) || line[pos] != ':' {
		return nil, parser.NoChildren
	}

	trimmed := bytes.TrimSpace(line)

	if m := containerOpenRe.FindSubmatch(trimmed); m != nil {
		attrs, err := ParseDirectiveAttributes(m[3])
		if err != nil {
			return nil, parser.NoChildren
		}
		node := NewContainerDirective(string(m[2]), attrs)
		node.fenceLength = len(m[1])
		reader.Advance(segment.Len() - 1)
		return node, parser.HasChildren
	}

	if m := leafOpenRe.FindSubmatch(trimmed); m != nil {
		attrs, err := ParseDirectiveAttributes(m[2])
		if err != nil {
			return nil, parser.NoChildren
		}
		node := NewLeafDirective(string(m[1]), attrs)
		reader.Advance(segment.Len() - 1)
		return node, parser.NoChildren
	}

	return nil, parser.NoChildren
}

func (p *directiveParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	container, ok := node.(*ContainerDirective)
	if !ok {
		// Leaf directives span exactly one line.
		return parser.Close
	}

	line, segment := reader.PeekLine()
	if m := containerEndRe.FindSubmatch(bytes.TrimSpace(line)); m != nil && len(m[1]) >= container.fenceLength {
		reader.Advance(segment.Len() - 1)
		return parser.Close
	}
	return parser.Continue | parser.HasChildren
}

func (p *directiveParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *directiveParser) CanInterruptParagraph() bool { return true }

func (p *directiveParser) CanAcceptIndentedLine() bool { return false }
