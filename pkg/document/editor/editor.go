// Package editor converts between the structured document tree and
// portable markup text. Both directions are pure tree transforms: each
// call receives a fresh tree and returns a fresh result, so calls may run
// concurrently without interference.
package editor

import (
	"bytes"

	"github.com/yuin/goldmark/ast"

	"github.com/pagecraft/sitemark/internal/renderer/markdown"
	"github.com/pagecraft/sitemark/pkg/document"
	"github.com/pagecraft/sitemark/pkg/markup"
)

// Serialize converts a structured document into markup text using the
// built-in rule set.
func Serialize(doc *document.Document) ([]byte, error) {
	return NewRegistry().Serialize(doc)
}

// Deserialize converts markup text into a structured document using the
// built-in rule set.
func Deserialize(data []byte) (*document.Document, error) {
	return NewRegistry().Deserialize(data)
}

// Serialize runs the save path: structured tree → per-type serialize →
// markup AST → stringify. Children are emitted in source order.
func (r *Registry) Serialize(doc *document.Document) ([]byte, error) {
	root := ast.NewDocument()
	for _, child := range doc.Children {
		astNode, err := r.serializeNode(child)
		if err != nil {
			return nil, err
		}
		root.AppendChild(root, astNode)
	}

	// Saved markup always ends with a newline; a source without one gains
	// exactly one on round trip.
	breaks := doc.TrailingLineBreaks
	if breaks < 1 {
		breaks = 1
	}
	root.SetAttributeString(markup.FinalLineBreaksKey, breaks)

	content, err := markdown.Render(root, nil)
	if err != nil {
		return nil, err
	}

	requireIdentity := doc.Frontmatter != nil && !doc.Frontmatter.Sitemark.IsEmpty()
	raw, err := doc.Frontmatter.Marshal(requireIdentity)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return content, nil
	}

	lb := document.DetectLineBreak(raw)
	result := append(raw, bytes.Repeat(lb, 2)...)
	return append(result, content...), nil
}

// Deserialize runs the load path: markup text → parse → markup AST →
// per-type deserialize → structured tree. Unrecognized directives are
// omitted; their siblings are unaffected.
func (r *Registry) Deserialize(data []byte) (*document.Document, error) {
	frontmatterRaw, content := document.SplitSource(data)

	frontmatter, err := document.ParseFrontmatter(frontmatterRaw)
	if err != nil {
		return nil, err
	}

	root := markup.Parse(content)
	children, err := r.deserializeChildren(root, content)
	if err != nil {
		return nil, err
	}

	return &document.Document{
		Frontmatter:        frontmatter,
		Children:           children,
		TrailingLineBreaks: document.CountTrailingLineBreaks(data, document.DetectLineBreak(data)),
	}, nil
}
