// Package document defines the editor-native structured document model and
// the pure transforms that keep it portable: the asset reference reconciler
// and the page frontmatter.
package document

// Kind discriminates structured node variants. The kinds below are the
// closed, built-in set; extensions registered at runtime must use values of
// KindUserBase or higher.
type Kind int

const (
	KindParagraph Kind = iota + 1
	KindHeading
	KindBlockquote
	KindList
	KindCode
	KindImage
	KindCollectionView
	KindColumns
	KindButton
)

// KindUserBase is the first kind value available to directive extensions
// registered outside this package.
const KindUserBase Kind = 100

func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindBlockquote:
		return "blockquote"
	case KindList:
		return "list"
	case KindCode:
		return "code"
	case KindImage:
		return "image"
	case KindCollectionView:
		return "collection_view"
	case KindColumns:
		return "columns"
	case KindButton:
		return "button"
	default:
		return "user"
	}
}

// Node is a structured document node. Ownership is purely tree containment;
// removing a node from its parent destroys it.
type Node interface {
	Kind() Kind
}

// Document is a parsed page: optional frontmatter plus an ordered sequence
// of structured nodes. Child order is significant; markup is
// order-sensitive.
type Document struct {
	Frontmatter *Frontmatter
	Children    []Node

	// TrailingLineBreaks preserves how many line breaks the source ended
	// with, so a round trip does not grow or shrink the file.
	TrailingLineBreaks int
}

// Paragraph carries raw markup text; inline syntax is preserved verbatim.
type Paragraph struct {
	Text string
}

func (*Paragraph) Kind() Kind { return KindParagraph }

type Heading struct {
	Depth int // 1-6
	Text  string
}

func (*Heading) Kind() Kind { return KindHeading }

type Blockquote struct {
	Text string
}

func (*Blockquote) Kind() Kind { return KindBlockquote }

type List struct {
	Ordered bool
	Items   []string
}

func (*List) Kind() Kind { return KindList }

type Code struct {
	Language string
	Value    string
}

func (*Code) Kind() Kind { return KindCode }

// Image embeds an asset. At rest in saved markup the URL must always be a
// durable asset path; Ref is never persisted as anything other than its Src.
type Image struct {
	URL   string
	Alt   string
	Title string
	Ref   *AssetRef
}

func (*Image) Kind() Kind { return KindImage }

// CollectionView is a paginated content-collection embed configured through
// typed directive attributes.
type CollectionView struct {
	Collection  string
	Layout      string
	DisplayType string
	MaxItems    int
	SortBy      string
	SortOrder   string
	TagFilters  []string
}

func (*CollectionView) Kind() Kind { return KindCollectionView }

// NewCollectionView returns a collection view with schema defaults applied.
func NewCollectionView(collection string) *CollectionView {
	return &CollectionView{
		Collection: collection,
		Layout:     DefaultCollectionLayout,
		MaxItems:   DefaultCollectionMaxItems,
		SortBy:     DefaultCollectionSortBy,
		SortOrder:  DefaultCollectionSortOrder,
		TagFilters: []string{},
	}
}

// Columns is a structural container holding named regions of nested
// content.
type Columns struct {
	Regions map[string][]Node
}

func (*Columns) Kind() Kind { return KindColumns }

// Button is a call-to-action leaf embed.
type Button struct {
	Label   string
	Href    string
	Variant string
}

func (*Button) Kind() Kind { return KindButton }
