package document

import (
	"github.com/pagecraft/sitemark/pkg/markup"
)

// Directive names understood by the built-in rule set.
const (
	DirectiveCollectionView = "collection_view"
	DirectiveColumns        = "columns"
	DirectiveButton         = "button"

	// DirectiveRegion labels a named child region inside a container
	// directive so region names survive the round trip.
	DirectiveRegion = "region"
)

// DefaultRegion receives container content that carries no region label,
// e.g. documents written before regions were introduced.
const DefaultRegion = "main"

// Collection view defaults. Absent attributes decode to these, so content
// authored by an older schema picks up current defaults instead of missing
// fields.
const (
	DefaultCollectionLayout    = "list"
	DefaultCollectionMaxItems  = 10
	DefaultCollectionSortBy    = "date"
	DefaultCollectionSortOrder = "desc"
)

const DefaultButtonVariant = "primary"

// CollectionViewFields declares the typed attribute schema of the paginated
// content-collection embed.
var CollectionViewFields = markup.Schema{
	{Name: "collection", Kind: markup.FieldString},
	{Name: "layout", Kind: markup.FieldString, Default: DefaultCollectionLayout},
	{Name: "displayType", Kind: markup.FieldString},
	{Name: "maxItems", Kind: markup.FieldNumber, Default: "10"},
	{Name: "sortBy", Kind: markup.FieldString, Default: DefaultCollectionSortBy},
	{Name: "sortOrder", Kind: markup.FieldString, Default: DefaultCollectionSortOrder},
	{Name: "tagFilters", Kind: markup.FieldList},
}

// ButtonFields declares the typed attribute schema of the button embed.
var ButtonFields = markup.Schema{
	{Name: "label", Kind: markup.FieldString},
	{Name: "href", Kind: markup.FieldString},
	{Name: "variant", Kind: markup.FieldString, Default: DefaultButtonVariant},
}
