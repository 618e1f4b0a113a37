// Package inherit resolves documentation inheritance: given a symbol's raw
// doc comment and its place in the type hierarchy, it produces the final
// merged ("effective") comment.
//
// Three distinct mechanisms apply, in order: full substitution when the
// comment is empty or consists solely of @inheritDoc, inline splicing of the
// ancestor's description wherever {@inheritDoc} appears inside text, and a
// structured merge of summary, description, and tag categories against the
// ancestor's fully resolved comment.
package inherit

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/docweave/docweave/internal/docblock"
)

// Kind identifies what a MemberRef points at.
type Kind int

const (
	KindClass Kind = iota
	KindConstant
	KindProperty
	KindMethod
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindProperty:
		return "property"
	case KindMethod:
		return "method"
	default:
		return "class"
	}
}

// MemberRef identifies a class-like symbol or one of its members. Member is
// empty for class references.
type MemberRef struct {
	Class  string
	Kind   Kind
	Member string
}

// String renders a stable identity used for cache keys and diagnostics.
func (r MemberRef) String() string {
	if r.Kind == KindClass {
		return r.Class
	}
	return fmt.Sprintf("%s::%s(%s)", r.Class, r.Member, r.Kind)
}

// Ancestor is the nearest doc-bearing ancestor of a reference, as reported
// by the lookup oracle.
type Ancestor struct {
	Ref MemberRef
	Doc string
}

// AncestorLookup is the introspection oracle the resolver walks. It returns
// the nearest doc-bearing ancestor of ref: superclass chain first, then
// declared interfaces recursively. A reference with no such ancestor reports
// ok=false; lookup inconsistencies are expressed the same way and are never
// fatal.
type AncestorLookup interface {
	NearestDocAncestor(ref MemberRef) (Ancestor, bool)
}

const inlineInheritDoc = "{@inheritDoc}"

// inheritDocPattern matches any casing of the inline form, so the lowercase
// spelling variant normalizes to the canonical one before splicing.
var inheritDocPattern = regexp.MustCompile(`(?i)\{@inheritdoc\}`)

// isBareInheritDoc reports whether the stripped comment content triggers
// full substitution: empty, "@inheritDoc", or "{@inheritDoc}", any casing.
func isBareInheritDoc(content string) bool {
	c := strings.ToLower(strings.TrimSpace(content))
	return c == "" || c == "@inheritdoc" || c == "{@inheritdoc}"
}

// merge applies the structured merge: child parts win when present, and each
// tag category is taken wholesale from the child if the child declares any
// tag of that category. Parameter tags are never matched by name across
// parent and child — the category is all-or-nothing.
func merge(child, anc *docblock.DocBlock) *docblock.DocBlock {
	summary := child.Summary()
	if summary == "" {
		summary = anc.Summary()
	}
	description := child.Description()
	if description == "" {
		description = anc.Description()
	}
	params := child.Params
	if len(params) == 0 {
		params = anc.Params
	}
	returns := child.Returns
	if len(returns) == 0 {
		returns = anc.Returns
	}
	throws := child.Throws
	if len(throws) == 0 {
		throws = anc.Throws
	}
	return docblock.Compose(summary, description, params, returns, throws,
		child.Vars, child.Markers, child.Others)
}
