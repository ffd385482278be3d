package editor

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark/ast"
	"go.uber.org/zap"

	"github.com/pagecraft/sitemark/pkg/document"
	"github.com/pagecraft/sitemark/pkg/markup"
)

func registerBuiltins(r *Registry) {
	r.RegisterKind(document.KindParagraph, Rule{serializeParagraph, deserializeParagraph})
	r.RegisterKind(document.KindHeading, Rule{serializeHeading, deserializeHeading})
	r.RegisterKind(document.KindBlockquote, Rule{serializeBlockquote, deserializeBlockquote})
	r.RegisterKind(document.KindList, Rule{serializeList, deserializeList})
	r.RegisterKind(document.KindCode, Rule{serializeCode, deserializeCode})
	// Images deserialize through the paragraph rule; the parser wraps an
	// image line in a paragraph.
	r.RegisterKind(document.KindImage, Rule{Serialize: serializeImage})

	r.RegisterDirective(document.KindCollectionView, document.DirectiveCollectionView,
		Rule{serializeCollectionView, deserializeCollectionView})
	r.RegisterDirective(document.KindColumns, document.DirectiveColumns,
		Rule{serializeColumns, deserializeColumns})
	r.RegisterDirective(document.KindButton, document.DirectiveButton,
		Rule{serializeButton, deserializeButton})
}

func serializeParagraph(_ *Registry, node document.Node) (ast.Node, error) {
	p := node.(*document.Paragraph)
	return markup.NewParagraph(p.Text), nil
}

func deserializeParagraph(r *Registry, node ast.Node, source []byte) (document.Node, error) {
	if img := markup.SoleImage(node); img != nil {
		url := string(img.Destination)
		return &document.Image{
			URL:   url,
			Alt:   string(img.Text(source)),
			Title: string(img.Title),
			Ref:   r.assets.SynthesizeRef(url),
		}, nil
	}
	return &document.Paragraph{Text: markup.RawText(node, source)}, nil
}

func serializeHeading(_ *Registry, node document.Node) (ast.Node, error) {
	h := node.(*document.Heading)
	return markup.NewHeading(h.Depth, h.Text), nil
}

func deserializeHeading(_ *Registry, node ast.Node, source []byte) (document.Node, error) {
	h := node.(*ast.Heading)
	return &document.Heading{
		Depth: h.Level,
		Text:  markup.RawText(node, source),
	}, nil
}

func serializeBlockquote(_ *Registry, node document.Node) (ast.Node, error) {
	q := node.(*document.Blockquote)
	return markup.NewBlockquote(q.Text), nil
}

func deserializeBlockquote(_ *Registry, node ast.Node, source []byte) (document.Node, error) {
	var parts []string
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		parts = append(parts, markup.RawText(c, source))
	}
	return &document.Blockquote{Text: strings.Join(parts, "\n")}, nil
}

func serializeList(_ *Registry, node document.Node) (ast.Node, error) {
	l := node.(*document.List)
	return markup.NewList(l.Ordered, l.Items), nil
}

func deserializeList(_ *Registry, node ast.Node, source []byte) (document.Node, error) {
	l := node.(*ast.List)
	items := []string{}
	for li := node.FirstChild(); li != nil; li = li.NextSibling() {
		if tb := li.FirstChild(); tb != nil {
			items = append(items, markup.RawText(tb, source))
		}
	}
	return &document.List{
		Ordered: l.IsOrdered(),
		Items:   items,
	}, nil
}

func serializeCode(_ *Registry, node document.Node) (ast.Node, error) {
	c := node.(*document.Code)
	return markup.NewCodeBlock(c.Language, c.Value), nil
}

func deserializeCode(_ *Registry, node ast.Node, source []byte) (document.Node, error) {
	fc := node.(*ast.FencedCodeBlock)
	return &document.Code{
		Language: string(fc.Language(source)),
		Value:    markup.RawText(node, source),
	}, nil
}

func serializeImage(r *Registry, node document.Node) (ast.Node, error) {
	img := node.(*document.Image)
	url, ok := r.assets.DurableURL(img.URL, img.Ref)
	if !ok {
		// Known lossy edge case: a transient handle with no attached
		// reference cannot be recovered and is not portable outside the
		// originating session.
		r.logger.Warn("persisting transient asset handle without reference metadata",
			zap.String("url", img.URL))
	}
	return markup.NewImage(url, img.Alt, img.Title), nil
}

func serializeCollectionView(_ *Registry, node document.Node) (ast.Node, error) {
	v := node.(*document.CollectionView)
	attrs := document.CollectionViewFields.Encode(map[string]interface{}{
		"collection":  v.Collection,
		"layout":      v.Layout,
		"displayType": v.DisplayType,
		"maxItems":    v.MaxItems,
		"sortBy":      v.SortBy,
		"sortOrder":   v.SortOrder,
		"tagFilters":  v.TagFilters,
	})
	return markup.NewLeafDirective(document.DirectiveCollectionView, attrs), nil
}

func deserializeCollectionView(_ *Registry, node ast.Node, _ []byte) (document.Node, error) {
	vals := document.CollectionViewFields.Decode(node.(markup.Directive).DirectiveAttributes())
	return &document.CollectionView{
		Collection:  vals["collection"].(string),
		Layout:      vals["layout"].(string),
		DisplayType: vals["displayType"].(string),
		MaxItems:    vals["maxItems"].(int),
		SortBy:      vals["sortBy"].(string),
		SortOrder:   vals["sortOrder"].(string),
		TagFilters:  vals["tagFilters"].([]string),
	}, nil
}

// serializeColumns emits a container directive iff the node has at least
// one non-empty region; a node with none is a leaf. Each region becomes a
// nested region directive so region names survive the round trip.
func serializeColumns(r *Registry, node document.Node) (ast.Node, error) {
	cols := node.(*document.Columns)

	names := make([]string, 0, len(cols.Regions))
	for name, children := range cols.Regions {
		if len(children) == 0 {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		return markup.NewLeafDirective(document.DirectiveColumns, nil), nil
	}

	container := markup.NewContainerDirective(document.DirectiveColumns, nil)
	for _, name := range names {
		region := markup.NewContainerDirective(document.DirectiveRegion, markup.Attributes{"name": name})
		for _, child := range cols.Regions[name] {
			astChild, err := r.serializeNode(child)
			if err != nil {
				return nil, err
			}
			region.AppendChild(region, astChild)
		}
		container.AppendChild(container, region)
	}
	return container, nil
}

func deserializeColumns(r *Registry, node ast.Node, source []byte) (document.Node, error) {
	cols := &document.Columns{Regions: map[string][]document.Node{}}
	if node.Kind() != markup.KindContainerDirective {
		return cols, nil
	}

	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		if region, ok := c.(*markup.ContainerDirective); ok && region.Name == document.DirectiveRegion {
			name := region.Attrs["name"]
			if name == "" {
				name = document.DefaultRegion
			}
			children, err := r.deserializeChildren(region, source)
			if err != nil {
				return nil, err
			}
			if len(children) > 0 {
				cols.Regions[name] = append(cols.Regions[name], children...)
			}
			continue
		}

		// Content without a region label predates named regions; it lands
		// in the default region.
		child, err := r.deserializeNode(c, source)
		if err != nil {
			return nil, err
		}
		if child != nil {
			cols.Regions[document.DefaultRegion] = append(cols.Regions[document.DefaultRegion], child)
		}
	}
	return cols, nil
}

func serializeButton(_ *Registry, node document.Node) (ast.Node, error) {
	b := node.(*document.Button)
	attrs := document.ButtonFields.Encode(map[string]interface{}{
		"label":   b.Label,
		"href":    b.Href,
		"variant": b.Variant,
	})
	return markup.NewLeafDirective(document.DirectiveButton, attrs), nil
}

func deserializeButton(_ *Registry, node ast.Node, _ []byte) (document.Node, error) {
	vals := document.ButtonFields.Decode(node.(markup.Directive).DirectiveAttributes())
	return &document.Button{
		Label:   vals["label"].(string),
		Href:    vals["href"].(string),
		Variant: vals["variant"].(string),
	}, nil
}

func (r *Registry) deserializeChildren(parent ast.Node, source []byte) ([]document.Node, error) {
	var children []document.Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		child, err := r.deserializeNode(c, source)
		if err != nil {
			return nil, err
		}
		if child != nil {
			children = append(children, child)
		}
	}
	return children, nil
}
