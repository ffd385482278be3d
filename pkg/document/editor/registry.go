package editor

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark/ast"
	"go.uber.org/zap"

	"github.com/pagecraft/sitemark/internal/log"
	"github.com/pagecraft/sitemark/pkg/document"
	"github.com/pagecraft/sitemark/pkg/markup"
)

// ErrUnregisteredKind is returned when serialization hits a node kind with
// no registered rule. Every kind the editor produces must have one;
// silently dropping authored content on save is unacceptable.
var ErrUnregisteredKind = stderrors.New("no rule registered for node kind")

// SerializeFunc converts a structured node into a markup AST node.
type SerializeFunc func(*Registry, document.Node) (ast.Node, error)

// DeserializeFunc converts a markup AST node back into a structured node.
// Returning a nil node skips the input without error.
type DeserializeFunc func(*Registry, ast.Node, []byte) (document.Node, error)

// Rule pairs the two directions for one node kind or directive name.
type Rule struct {
	Serialize   SerializeFunc
	Deserialize DeserializeFunc
}

// Registry is the per-type rule table. Built-in kinds form a closed set
// registered up front; directive-style extensions, whose names are only
// known at runtime, go through the open name-keyed table. New node types
// are added by registering rules, not by modifying a dispatcher.
type Registry struct {
	kinds      map[document.Kind]Rule
	directives map[string]Rule
	assets     document.AssetContext
	logger     *zap.Logger
}

type Option func(*Registry)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithAssetContext overrides the asset namespace convention used by the
// image rules.
func WithAssetContext(assets document.AssetContext) Option {
	return func(r *Registry) {
		r.assets = assets
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		kinds:      make(map[document.Kind]Rule),
		directives: make(map[string]Rule),
		assets:     document.DefaultAssetContext,
		logger:     log.Get(),
	}
	for _, opt := range opts {
		opt(r)
	}
	registerBuiltins(r)
	return r
}

// RegisterKind registers a rule for a markup-native node kind.
func (r *Registry) RegisterKind(kind document.Kind, rule Rule) {
	r.kinds[kind] = rule
}

// RegisterDirective registers a rule for a directive-backed node kind:
// serialization dispatches on the document kind, deserialization on the
// directive name.
func (r *Registry) RegisterDirective(kind document.Kind, name string, rule Rule) {
	r.kinds[kind] = rule
	r.directives[name] = rule
}

func (r *Registry) serializeNode(node document.Node) (ast.Node, error) {
	rule, ok := r.kinds[node.Kind()]
	if !ok || rule.Serialize == nil {
		return nil, errors.Wrapf(ErrUnregisteredKind, "kind %q", node.Kind())
	}
	return rule.Serialize(r, node)
}

func (r *Registry) deserializeNode(node ast.Node, source []byte) (document.Node, error) {
	switch node.Kind() {
	case markup.KindLeafDirective, markup.KindContainerDirective:
		return r.deserializeDirective(node.(markup.Directive), source)
	case ast.KindParagraph:
		return r.deserializeKind(document.KindParagraph, node, source)
	case ast.KindHeading:
		return r.deserializeKind(document.KindHeading, node, source)
	case ast.KindBlockquote:
		return r.deserializeKind(document.KindBlockquote, node, source)
	case ast.KindList:
		return r.deserializeKind(document.KindList, node, source)
	case ast.KindFencedCodeBlock:
		return r.deserializeKind(document.KindCode, node, source)
	default:
		r.logger.Debug("skipping markup construct without a deserialize rule",
			zap.String("astKind", node.Kind().String()))
		return nil, nil
	}
}

func (r *Registry) deserializeKind(kind document.Kind, node ast.Node, source []byte) (document.Node, error) {
	rule, ok := r.kinds[kind]
	if !ok || rule.Deserialize == nil {
		return nil, nil
	}
	return rule.Deserialize(r, node, source)
}

// deserializeDirective resolves a directive by name. Unknown names come
// from newer schemas or hand-edited markup; they are dropped with a
// diagnostic rather than corrupting the document. Loss is tolerated only
// when reading unrecognized input, never when writing recognized output.
func (r *Registry) deserializeDirective(d markup.Directive, source []byte) (document.Node, error) {
	rule, ok := r.directives[d.DirectiveName()]
	if !ok || rule.Deserialize == nil {
		r.logger.Warn("dropping unrecognized directive",
			zap.String("directive", d.DirectiveName()))
		return nil, nil
	}
	return rule.Deserialize(r, d, source)
}
