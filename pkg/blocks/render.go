package blocks

import (
	"sort"

	"github.com/yuin/goldmark/ast"
	"go.uber.org/zap"

	"github.com/pagecraft/sitemark/internal/renderer/markdown"
	"github.com/pagecraft/sitemark/pkg/document"
	"github.com/pagecraft/sitemark/pkg/markup"
)

// Render converts a Block sequence back into markup text. Unrecognized
// block types are skipped with a diagnostic; their siblings render
// unaffected.
func (c *Converter) Render(blocks []*Block) ([]byte, error) {
	root := ast.NewDocument()
	for _, b := range blocks {
		n, err := c.renderBlock(b)
		if err != nil {
			return nil, err
		}
		if n == nil {
			continue
		}
		root.AppendChild(root, n)
	}
	root.SetAttributeString(markup.FinalLineBreaksKey, 1)
	return markdown.Render(root, nil)
}

func (c *Converter) renderBlock(b *Block) (ast.Node, error) {
	if depth, ok := headingDepth(b.Type); ok {
		return markup.NewHeading(depth, b.text()), nil
	}

	switch b.Type {
	case TypeParagraph:
		return markup.NewParagraph(b.text()), nil

	case TypeQuote:
		return markup.NewBlockquote(b.text()), nil

	case TypeCode:
		return markup.NewCodeBlock(b.stringContent("language"), b.stringContent("code")), nil

	case TypeImage:
		src := b.stringContent("src")
		if document.IsTransientHandle(src) {
			// The Block model carries no reference record to recover a
			// durable path from.
			c.logger.Warn("persisting transient asset handle without reference metadata",
				zap.String("url", src))
		}
		return markup.NewImage(src, b.stringContent("alt"), b.stringContent("title")), nil

	case TypeList:
		return markup.NewList(b.boolContent("ordered"), b.stringsContent("items")), nil

	case TypeDivider:
		return ast.NewThematicBreak(), nil
	}

	schema, ok := c.directives[b.Type]
	if !ok {
		c.logger.Warn("skipping unrecognized block type", zap.String("type", b.Type))
		return nil, nil
	}

	attrs := schema.Encode(b.Config)
	if !b.hasRegions() {
		return markup.NewLeafDirective(b.Type, attrs), nil
	}

	container := markup.NewContainerDirective(b.Type, attrs)

	names := make([]string, 0, len(b.Regions))
	for name, children := range b.Regions {
		if len(children) == 0 {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		region := markup.NewContainerDirective(document.DirectiveRegion, markup.Attributes{"name": name})
		for _, child := range b.Regions[name] {
			n, err := c.renderBlock(child)
			if err != nil {
				return nil, err
			}
			if n == nil {
				continue
			}
			region.AppendChild(region, n)
		}
		container.AppendChild(container, region)
	}
	return container, nil
}
