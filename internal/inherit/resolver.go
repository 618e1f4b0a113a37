package inherit

import (
	"fmt"
	"strings"

	"github.com/maypok86/otter"

	"github.com/docweave/docweave/internal/docblock"
)

// DefaultMaxDepth bounds the ancestor walk. Real inheritance chains are
// shallow; the limit exists so a misreporting oracle fails with a diagnostic
// instead of recursing forever.
const DefaultMaxDepth = 64

const cacheCapacity = 16384

// Resolver computes effective doc comments. Resolution is lazy — once per
// reference, cached — and never mutates the source symbol's raw comment.
type Resolver struct {
	lookup   AncestorLookup
	maxDepth int
	cache    otter.Cache[string, *docblock.DocBlock]
}

// NewResolver creates a Resolver over the given ancestor oracle.
func NewResolver(lookup AncestorLookup) (*Resolver, error) {
	cache, err := otter.MustBuilder[string, *docblock.DocBlock](cacheCapacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build doc comment cache: %w", err)
	}
	return &Resolver{
		lookup:   lookup,
		maxDepth: DefaultMaxDepth,
		cache:    cache,
	}, nil
}

// Close releases the cache.
func (r *Resolver) Close() {
	r.cache.Close()
}

// Resolve returns the effective doc comment for ref, whose raw comment is
// raw (empty when the symbol has none — an absent comment is treated as an
// empty one, never an error).
func (r *Resolver) Resolve(ref MemberRef, raw string) (*docblock.DocBlock, error) {
	key := ref.String()
	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}
	resolved, err := r.resolve(ref, raw, make(map[string]bool), 0)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, resolved)
	return resolved, nil
}

func (r *Resolver) resolve(ref MemberRef, raw string, visited map[string]bool, depth int) (*docblock.DocBlock, error) {
	key := ref.String()
	if visited[key] {
		return nil, fmt.Errorf("documentation inheritance cycle detected at %s", key)
	}
	if depth > r.maxDepth {
		return nil, fmt.Errorf("documentation inheritance deeper than %d levels at %s", r.maxDepth, key)
	}
	visited[key] = true
	defer delete(visited, key)

	// Full substitution: a bare @inheritDoc (or an absent comment) resolves
	// to the nearest doc-bearing ancestor's effective comment verbatim.
	if isBareInheritDoc(docblock.StripDelimiters(raw)) {
		anc, ok := r.lookup.NearestDocAncestor(ref)
		if !ok {
			return docblock.Parse(""), nil
		}
		return r.resolve(anc.Ref, anc.Doc, visited, depth+1)
	}

	// The ancestor's resolved comment is needed by both the inline splice
	// and the structured merge; compute it at most once.
	var ancResolved *docblock.DocBlock
	ancestor := func() (*docblock.DocBlock, error) {
		if ancResolved != nil {
			return ancResolved, nil
		}
		anc, ok := r.lookup.NearestDocAncestor(ref)
		if !ok {
			ancResolved = docblock.Parse("")
			return ancResolved, nil
		}
		resolved, err := r.resolve(anc.Ref, anc.Doc, visited, depth+1)
		if err != nil {
			return nil, err
		}
		ancResolved = resolved
		return ancResolved, nil
	}

	// Inline splice: every {@inheritDoc} occurrence inside descriptive text
	// is replaced by the ancestor's resolved description only — not its
	// whole comment.
	text := inheritDocPattern.ReplaceAllString(raw, inlineInheritDoc)
	if strings.Contains(text, inlineInheritDoc) {
		anc, err := ancestor()
		if err != nil {
			return nil, err
		}
		text = strings.ReplaceAll(text, inlineInheritDoc, anc.Description())
	}

	child := docblock.Parse(text)
	anc, err := ancestor()
	if err != nil {
		return nil, err
	}
	return merge(child, anc), nil
}
