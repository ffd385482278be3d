// Package markup is the front end of the text⇄tree pipeline: a markdown
// parser extended with directive syntax, plus helpers for building AST
// nodes programmatically so they can be rendered without backing source.
package markup

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Attribute keys used to carry values on programmatically built AST nodes.
// Parsed nodes reference segments of their source text; built nodes have no
// source, so the renderer reads these attributes instead.
const (
	AttrCodeValue = "markup.code"
	AttrCodeInfo  = "markup.info"

	// FinalLineBreaksKey tells the renderer how many trailing line breaks
	// the document ends with.
	FinalLineBreaksKey = "markup.finalLineBreaks"
)

var defaultMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
	),
	goldmark.WithParserOptions(
		parser.WithBlockParsers(
			util.Prioritized(NewDirectiveParser(), 500),
		),
	),
)

// Parse parses markup text into an AST using the extended grammar.
func Parse(source []byte) ast.Node {
	return defaultMarkdown.Parser().Parse(text.NewReader(source))
}

// NewText returns an inline node carrying literal text independent of any
// source buffer.
func NewText(s string) *ast.String {
	return ast.NewString([]byte(s))
}

// NewParagraph builds a paragraph around raw markup text. Inline syntax in
// the text is preserved verbatim.
func NewParagraph(text string) *ast.Paragraph {
	p := ast.NewParagraph()
	p.AppendChild(p, NewText(text))
	return p
}

func NewHeading(depth int, text string) *ast.Heading {
	if depth < 1 {
		depth = 1
	}
	if depth > 6 {
		depth = 6
	}
	h := ast.NewHeading(depth)
	h.AppendChild(h, NewText(text))
	return h
}

func NewBlockquote(text string) *ast.Blockquote {
	bq := ast.NewBlockquote()
	bq.AppendChild(bq, NewParagraph(text))
	return bq
}

// NewCodeBlock builds a fenced code block. The language and body travel in
// node attributes because a built node has no source segments.
func NewCodeBlock(language, value string) *ast.FencedCodeBlock {
	n := ast.NewFencedCodeBlock(nil)
	n.SetAttributeString(AttrCodeInfo, []byte(language))
	n.SetAttributeString(AttrCodeValue, []byte(value))
	return n
}

// NewImage builds a paragraph wrapping a single image, the shape the parser
// produces for an image on its own line.
func NewImage(url, alt, title string) *ast.Paragraph {
	link := ast.NewLink()
	link.Destination = []byte(url)
	link.Title = []byte(title)

	img := ast.NewImage(link)
	img.AppendChild(img, NewText(alt))

	p := ast.NewParagraph()
	p.AppendChild(p, img)
	return p
}

func NewList(ordered bool, items []string) *ast.List {
	var list *ast.List
	if ordered {
		list = ast.NewList('.')
		list.Start = 1
	} else {
		list = ast.NewList('-')
	}
	list.IsTight = true

	for _, item := range items {
		li := ast.NewListItem(0)
		tb := ast.NewTextBlock()
		tb.AppendChild(tb, NewText(item))
		li.AppendChild(li, tb)
		list.AppendChild(list, li)
	}
	return list
}

// SoleImage returns the image when node wraps exactly one image child, the
// shape the parser produces for an image on its own line.
func SoleImage(node ast.Node) *ast.Image {
	if node.ChildCount() != 1 {
		return nil
	}
	img, ok := node.FirstChild().(*ast.Image)
	if !ok {
		return nil
	}
	return img
}

// RawText joins a block node's source lines, trailing line break trimmed.
func RawText(node ast.Node, source []byte) string {
	var b strings.Builder
	for i := 0; i < node.Lines().Len(); i++ {
		line := node.Lines().At(i)
		_, _ = b.Write(line.Value(source))
	}
	return strings.TrimRight(b.String(), "\r\n")
}

// CodeValue returns the body of a fenced code block built with NewCodeBlock.
func CodeValue(n ast.Node) ([]byte, bool) {
	return attrBytes(n, AttrCodeValue)
}

// CodeInfo returns the info string of a fenced code block built with
// NewCodeBlock.
func CodeInfo(n ast.Node) ([]byte, bool) {
	return attrBytes(n, AttrCodeInfo)
}

func attrBytes(n ast.Node, key string) ([]byte, bool) {
	v, ok := n.AttributeString(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}
