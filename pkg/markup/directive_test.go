package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"
)

func TestParseLeafDirective(t *testing.T) {
	t.Run("WithAttributes", func(t *testing.T) {
		root := Parse([]byte(`::collection_view{collection="blog" maxItems="5"}` + "\n"))
		require.Equal(t, 1, root.ChildCount())

		leaf, ok := root.FirstChild().(*LeafDirective)
		require.True(t, ok)
		assert.Equal(t, "collection_view", leaf.Name)
		assert.Equal(t, Attributes{"collection": "blog", "maxItems": "5"}, leaf.Attrs)
	})

	t.Run("WithoutAttributes", func(t *testing.T) {
		root := Parse([]byte("::divider\n"))
		leaf, ok := root.FirstChild().(*LeafDirective)
		require.True(t, ok)
		assert.Equal(t, "divider", leaf.Name)
		assert.Equal(t, Attributes{}, leaf.Attrs)
	})

	t.Run("BetweenParagraphs", func(t *testing.T) {
		source := "Before\n\n::button{href=\"/x\" label=\"Go\"}\n\nAfter\n"
		root := Parse([]byte(source))
		require.Equal(t, 3, root.ChildCount())
		assert.Equal(t, ast.KindParagraph, root.FirstChild().Kind())
		assert.Equal(t, KindLeafDirective, root.FirstChild().NextSibling().Kind())
		assert.Equal(t, ast.KindParagraph, root.LastChild().Kind())
	})

	t.Run("InterruptsParagraph", func(t *testing.T) {
		source := "Before\n::divider\n"
		root := Parse([]byte(source))
		require.Equal(t, 2, root.ChildCount())
		assert.Equal(t, KindLeafDirective, root.LastChild().Kind())
	})
}

func TestParseContainerDirective(t *testing.T) {
	t.Run("WithBody", func(t *testing.T) {
		source := ":::columns{gap=\"wide\"}\nInside.\n:::\n"
		root := Parse([]byte(source))
		require.Equal(t, 1, root.ChildCount())

		container, ok := root.FirstChild().(*ContainerDirective)
		require.True(t, ok)
		assert.Equal(t, "columns", container.Name)
		assert.Equal(t, Attributes{"gap": "wide"}, container.Attrs)

		require.Equal(t, 1, container.ChildCount())
		para, ok := container.FirstChild().(*ast.Paragraph)
		require.True(t, ok)
		require.Equal(t, 1, para.Lines().Len())
		line := para.Lines().At(0)
		text := strings.TrimRight(string(line.Value([]byte(source))), "\n")
		assert.Equal(t, "Inside.", text)
	})

	t.Run("Empty", func(t *testing.T) {
		root := Parse([]byte(":::columns\n:::\n"))
		container, ok := root.FirstChild().(*ContainerDirective)
		require.True(t, ok)
		assert.Equal(t, 0, container.ChildCount())
	})

	t.Run("NestedWithLongerOuterFence", func(t *testing.T) {
		source := "::::columns\n:::region{name=\"left\"}\nLeft.\n:::\n::::\n"
		root := Parse([]byte(source))
		require.Equal(t, 1, root.ChildCount())

		outer, ok := root.FirstChild().(*ContainerDirective)
		require.True(t, ok)
		assert.Equal(t, "columns", outer.Name)

		require.Equal(t, 1, outer.ChildCount())
		inner, ok := outer.FirstChild().(*ContainerDirective)
		require.True(t, ok)
		assert.Equal(t, "region", inner.Name)
		assert.Equal(t, Attributes{"name": "left"}, inner.Attrs)
		assert.Equal(t, 1, inner.ChildCount())
	})

	t.Run("ShorterFenceDoesNotClose", func(t *testing.T) {
		source := "::::box\n:::\nStill inside.\n::::\n"
		root := Parse([]byte(source))
		require.Equal(t, 1, root.ChildCount())
		container, ok := root.FirstChild().(*ContainerDirective)
		require.True(t, ok)
		// The three-colon line is body content, not a close fence.
		assert.GreaterOrEqual(t, container.ChildCount(), 1)
	})

	t.Run("UnterminatedRunsToEOF", func(t *testing.T) {
		root := Parse([]byte(":::box\nNo close fence.\n"))
		container, ok := root.FirstChild().(*ContainerDirective)
		require.True(t, ok)
		assert.Equal(t, 1, container.ChildCount())
	})
}

// Both directive variants must satisfy Directive and remain valid ast.Nodes;
// the attribute accessor must not collide with ast.Node's Attributes.
func TestDirectiveInterface(t *testing.T) {
	root := Parse([]byte("::button{label=\"Go\"}\n\n:::columns{gap=\"wide\"}\nBody.\n:::\n"))
	require.Equal(t, 2, root.ChildCount())

	leaf, ok := root.FirstChild().(Directive)
	require.True(t, ok)
	assert.Equal(t, "button", leaf.DirectiveName())
	assert.Equal(t, Attributes{"label": "Go"}, leaf.DirectiveAttributes())
	assert.Equal(t, KindLeafDirective, leaf.Kind())

	container, ok := root.LastChild().(Directive)
	require.True(t, ok)
	assert.Equal(t, "columns", container.DirectiveName())
	assert.Equal(t, Attributes{"gap": "wide"}, container.DirectiveAttributes())
	assert.Equal(t, KindContainerDirective, container.Kind())

	var node ast.Node = container
	assert.True(t, node.HasChildren())
}

func TestParseNotADirective(t *testing.T) {
	testCases := []struct {
		name   string
		source string
	}{
		{name: "SingleColon", source: ":note\n"},
		{name: "MissingName", source: "::{a=\"b\"}\n"},
		{name: "NameStartsWithDigit", source: "::1note\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := Parse([]byte(tc.source))
			require.Equal(t, 1, root.ChildCount())
			assert.Equal(t, ast.KindParagraph, root.FirstChild().Kind())
		})
	}
}
