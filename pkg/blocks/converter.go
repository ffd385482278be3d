package blocks

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"go.uber.org/zap"

	"github.com/pagecraft/sitemark/internal/log"
	"github.com/pagecraft/sitemark/internal/ulid"
	"github.com/pagecraft/sitemark/pkg/document"
	"github.com/pagecraft/sitemark/pkg/markup"
)

// Converter maps markup to Blocks and back. Directive-backed block kinds
// are resolved through an injected registry of attribute schemas; unknown
// kinds follow the same drop-and-warn policy as the editor rules.
type Converter struct {
	directives map[string]markup.Schema
	assets     document.AssetContext
	logger     *zap.Logger
}

type Option func(*Converter)

// WithDirectiveKinds adds directive-backed block kinds to the converter's
// registry. The schema decodes the directive's attributes into the block's
// config; a nil schema registers a kind with no config.
func WithDirectiveKinds(kinds map[string]markup.Schema) Option {
	return func(c *Converter) {
		for name, schema := range kinds {
			c.directives[name] = schema
		}
	}
}

func WithAssetContext(assets document.AssetContext) Option {
	return func(c *Converter) {
		c.assets = assets
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		directives: DefaultDirectiveKinds(),
		assets:     document.DefaultAssetContext,
		logger:     log.Get(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultDirectiveKinds returns the directive-backed block kinds the
// built-in editor rules understand.
func DefaultDirectiveKinds() map[string]markup.Schema {
	return map[string]markup.Schema{
		document.DirectiveCollectionView: document.CollectionViewFields,
		document.DirectiveColumns:        nil,
		document.DirectiveButton:         document.ButtonFields,
	}
}

// Parse converts markup text into a Block sequence. The walk visits nested
// structures, not just top-level siblings; nodes whose content folds into a
// parent Block produce no Block of their own.
func (c *Converter) Parse(source []byte) ([]*Block, error) {
	root := markup.Parse(source)
	return c.convertChildren(root, source), nil
}

func (c *Converter) convertChildren(parent ast.Node, source []byte) []*Block {
	out := []*Block{}
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if b := c.convertNode(n, source); b != nil {
			out = append(out, b)
		}
	}
	return out
}

// convertNode maps one AST node to at most one Block.
func (c *Converter) convertNode(n ast.Node, source []byte) *Block {
	switch n.Kind() {
	case ast.KindParagraph:
		if img := markup.SoleImage(n); img != nil {
			url := string(img.Destination)
			return c.newBlock(TypeImage, map[string]interface{}{
				"src":   url,
				"alt":   string(img.Text(source)),
				"title": string(img.Title),
			}, nil, nil)
		}
		return c.newBlock(TypeParagraph, map[string]interface{}{
			"text": markup.RawText(n, source),
		}, nil, nil)

	case ast.KindHeading:
		h := n.(*ast.Heading)
		return c.newBlock(HeadingType(h.Level), map[string]interface{}{
			"text": markup.RawText(n, source),
		}, nil, nil)

	case ast.KindBlockquote:
		var parts []string
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			parts = append(parts, markup.RawText(child, source))
		}
		return c.newBlock(TypeQuote, map[string]interface{}{
			"text": strings.Join(parts, "\n"),
		}, nil, nil)

	case ast.KindFencedCodeBlock:
		fc := n.(*ast.FencedCodeBlock)
		return c.newBlock(TypeCode, map[string]interface{}{
			"language": string(fc.Language(source)),
			"code":     markup.RawText(n, source),
		}, nil, nil)

	case ast.KindList:
		l := n.(*ast.List)
		items := []string{}
		for li := n.FirstChild(); li != nil; li = li.NextSibling() {
			if tb := li.FirstChild(); tb != nil {
				items = append(items, markup.RawText(tb, source))
			}
		}
		return c.newBlock(TypeList, map[string]interface{}{
			"ordered": l.IsOrdered(),
			"items":   items,
		}, nil, nil)

	case ast.KindThematicBreak:
		return c.newBlock(TypeDivider, nil, nil, nil)

	case markup.KindLeafDirective:
		d := n.(*markup.LeafDirective)
		schema, ok := c.directives[d.Name]
		if !ok {
			c.logger.Warn("dropping unrecognized block type", zap.String("type", d.Name))
			return nil
		}
		// A leaf-derived Block has an empty regions map.
		return c.newBlock(d.Name, nil, schema.Decode(d.Attrs), nil)

	case markup.KindContainerDirective:
		d := n.(*markup.ContainerDirective)
		schema, ok := c.directives[d.Name]
		if !ok {
			c.logger.Warn("dropping unrecognized block type", zap.String("type", d.Name))
			return nil
		}

		regions := map[string][]*Block{}
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			if region, ok := child.(*markup.ContainerDirective); ok && region.Name == document.DirectiveRegion {
				name := region.Attrs["name"]
				if name == "" {
					name = document.DefaultRegion
				}
				regions[name] = append(regions[name], c.convertChildren(region, source)...)
				continue
			}
			if b := c.convertNode(child, source); b != nil {
				regions[document.DefaultRegion] = append(regions[document.DefaultRegion], b)
			}
		}
		return c.newBlock(d.Name, nil, schema.Decode(d.Attrs), regions)

	default:
		c.logger.Debug("skipping markup construct without a block mapping",
			zap.String("astKind", n.Kind().String()))
		return nil
	}
}

func (c *Converter) newBlock(blockType string, content, config map[string]interface{}, regions map[string][]*Block) *Block {
	if content == nil {
		content = map[string]interface{}{}
	}
	if config == nil {
		config = map[string]interface{}{}
	}
	if regions == nil {
		regions = map[string][]*Block{}
	}
	return &Block{
		ID:      ulid.GenerateID(),
		Type:    blockType,
		Content: content,
		Config:  config,
		Regions: regions,
	}
}
