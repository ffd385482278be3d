package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"

	"github.com/pagecraft/sitemark/pkg/markup"
)

func render(t *testing.T, source string) string {
	t.Helper()
	result, err := Render(markup.Parse([]byte(source)), []byte(source))
	require.NoError(t, err)
	return string(result)
}

func TestRender_ParsedRoundTrip(t *testing.T) {
	testCases := []struct {
		name   string
		source string
	}{
		{
			name:   "HeadingAndParagraph",
			source: "# Title\n\nHello world.\n",
		},
		{
			name:   "Blockquote",
			source: "> Stay hungry.\n",
		},
		{
			name:   "FencedCode",
			source: "```go\nfmt.Println(1)\n```\n",
		},
		{
			name:   "UnorderedList",
			source: "- a\n- b\n",
		},
		{
			name:   "OrderedList",
			source: "1. a\n2. b\n",
		},
		{
			name:   "Image",
			source: "![foo](assets/images/foo.png \"Foo\")\n",
		},
		{
			name:   "ThematicBreak",
			source: "Above\n\n---\n\nBelow\n",
		},
		{
			name:   "LeafDirective",
			source: "::collection_view{collection=\"blog\" maxItems=\"5\"}\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.source, render(t, tc.source))
		})
	}
}

// Container output is normalized rather than byte-preserved, so rendering
// must be stable from the first pass on.
func TestRender_ContainerStability(t *testing.T) {
	testCases := []struct {
		name   string
		source string
	}{
		{
			name:   "Simple",
			source: ":::box{kind=\"tip\"}\nInside.\n:::\n",
		},
		{
			name:   "Nested",
			source: "::::columns\n:::region{name=\"left\"}\nLeft.\n:::\n:::region{name=\"right\"}\nRight.\n:::\n::::\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			first := render(t, tc.source)
			second := render(t, first)
			assert.Equal(t, first, second)
		})
	}
}

func TestRender_NestedFenceLengths(t *testing.T) {
	source := "::::columns\n:::region{name=\"left\"}\nLeft.\n:::\n::::\n"
	rendered := render(t, source)

	// The outer fence must stay longer than the inner one or reparsing
	// would close the wrong container.
	assert.Contains(t, rendered, "::::columns")
	assert.Contains(t, rendered, `:::region{name="left"}`)

	root := markup.Parse([]byte(rendered))
	require.Equal(t, 1, root.ChildCount())
	outer, ok := root.FirstChild().(*markup.ContainerDirective)
	require.True(t, ok)
	assert.Equal(t, "columns", outer.Name)
	inner, ok := outer.FirstChild().(*markup.ContainerDirective)
	require.True(t, ok)
	assert.Equal(t, "region", inner.Name)
}

func TestRender_BuiltNodes(t *testing.T) {
	newDoc := func(children ...ast.Node) ast.Node {
		doc := ast.NewDocument()
		for _, c := range children {
			doc.AppendChild(doc, c)
		}
		doc.SetAttributeString(markup.FinalLineBreaksKey, 1)
		return doc
	}

	testCases := []struct {
		name     string
		doc      ast.Node
		expected string
	}{
		{
			name:     "Heading",
			doc:      newDoc(markup.NewHeading(2, "Title")),
			expected: "## Title\n",
		},
		{
			name:     "Paragraph",
			doc:      newDoc(markup.NewParagraph("Hello world.")),
			expected: "Hello world.\n",
		},
		{
			name:     "Blockquote",
			doc:      newDoc(markup.NewBlockquote("Stay hungry.")),
			expected: "> Stay hungry.\n",
		},
		{
			name:     "CodeBlock",
			doc:      newDoc(markup.NewCodeBlock("go", "fmt.Println(1)")),
			expected: "```go\nfmt.Println(1)\n```\n",
		},
		{
			name:     "UnorderedList",
			doc:      newDoc(markup.NewList(false, []string{"a", "b"})),
			expected: "- a\n- b\n",
		},
		{
			name:     "OrderedList",
			doc:      newDoc(markup.NewList(true, []string{"a", "b"})),
			expected: "1. a\n2. b\n",
		},
		{
			name:     "ImageWithTitle",
			doc:      newDoc(markup.NewImage("assets/images/foo.png", "foo", "Foo")),
			expected: "![foo](assets/images/foo.png \"Foo\")\n",
		},
		{
			name:     "ImageWithoutTitle",
			doc:      newDoc(markup.NewImage("assets/images/foo.png", "foo", "")),
			expected: "![foo](assets/images/foo.png)\n",
		},
		{
			name: "LeafDirective",
			doc: newDoc(markup.NewLeafDirective("button", markup.Attributes{
				"label": "Go",
				"href":  "/x",
			})),
			expected: "::button{href=\"/x\" label=\"Go\"}\n",
		},
		{
			name: "HeadingThenParagraph",
			doc: newDoc(
				markup.NewHeading(1, "Title"),
				markup.NewParagraph("Hello."),
			),
			expected: "# Title\n\nHello.\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Render(tc.doc, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(result))
		})
	}
}

func TestRender_BuiltContainerReparses(t *testing.T) {
	container := markup.NewContainerDirective("columns", nil)
	region := markup.NewContainerDirective("region", markup.Attributes{"name": "left"})
	region.AppendChild(region, markup.NewParagraph("Left."))
	container.AppendChild(container, region)

	doc := ast.NewDocument()
	doc.AppendChild(doc, container)
	doc.SetAttributeString(markup.FinalLineBreaksKey, 1)

	rendered, err := Render(doc, nil)
	require.NoError(t, err)

	root := markup.Parse(rendered)
	require.Equal(t, 1, root.ChildCount())
	outer, ok := root.FirstChild().(*markup.ContainerDirective)
	require.True(t, ok)
	assert.Equal(t, "columns", outer.Name)
	require.Equal(t, 1, outer.ChildCount())
	inner, ok := outer.FirstChild().(*markup.ContainerDirective)
	require.True(t, ok)
	assert.Equal(t, "region", inner.Name)
	assert.Equal(t, markup.Attributes{"name": "left"}, inner.Attrs)
}

func TestRender_FinalLineBreaks(t *testing.T) {
	doc := markup.Parse([]byte("Hello\n\n\n"))
	doc.SetAttributeString(markup.FinalLineBreaksKey, 3)

	result, err := Render(doc, []byte("Hello\n\n\n"))
	require.NoError(t, err)
	assert.Equal(t, "Hello\n\n\n", string(result))
}

func TestRender_CRLF(t *testing.T) {
	source := "::divider\r\n"
	result, err := Render(markup.Parse([]byte(source)), []byte(source))
	require.NoError(t, err)
	assert.Equal(t, source, string(result))
}
