package inherit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the inheritance resolver:
// - Bare @inheritDoc (and empty comments) fully substitute the ancestor
// - Full substitution recurses through intermediate bare comments
// - {@inheritDoc} inside text splices the ancestor's description only
// - Inline splice keeps the child's own tags
// - Structured merge: summary/description child-else-ancestor
// - Tag categories are all-or-nothing, never matched per name
// - No ancestor resolves to the declared comment unchanged
// - Cycle in the reported ancestry fails with a diagnostic
// - Depth limit fails instead of recursing forever

// fakeLookup maps a reference's string form to its reported ancestor.
type fakeLookup map[string]Ancestor

func (f fakeLookup) NearestDocAncestor(ref MemberRef) (Ancestor, bool) {
	anc, ok := f[ref.String()]
	return anc, ok
}

func method(class string) MemberRef {
	return MemberRef{Class: class, Kind: KindMethod, Member: "save"}
}

func newResolver(t *testing.T, lookup AncestorLookup) *Resolver {
	t.Helper()
	r, err := NewResolver(lookup)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

func TestResolve_BareInheritDocSubstitutes(t *testing.T) {
	t.Parallel()

	lookup := fakeLookup{
		method("\\App\\Child").String(): {
			Ref: method("\\App\\Base"),
			Doc: "/**\n * Base doc.\n *\n * @return bool\n */",
		},
	}
	r := newResolver(t, lookup)

	for _, raw := range []string{
		"/** @inheritDoc */",
		"/** {@inheritdoc} */",
		"/** @INHERITDOC */",
		"",
	} {
		doc, err := r.Resolve(method("\\App\\Child"), raw)
		require.NoError(t, err)
		assert.Equal(t, "Base doc.", doc.Summary(), "raw=%q", raw)
		require.Len(t, doc.Returns, 1)
		assert.Equal(t, "bool", doc.Returns[0].Type)
	}
}

func TestResolve_FullSubstitutionRecurses(t *testing.T) {
	t.Parallel()

	// Child -> Middle (also bare) -> Base (real doc).
	lookup := fakeLookup{
		method("\\App\\Child").String():  {Ref: method("\\App\\Middle"), Doc: "/** @inheritDoc */"},
		method("\\App\\Middle").String(): {Ref: method("\\App\\Base"), Doc: "/** Base doc. */"},
	}
	r := newResolver(t, lookup)

	doc, err := r.Resolve(method("\\App\\Child"), "/** @inheritDoc */")
	require.NoError(t, err)
	assert.Equal(t, "Base doc.", doc.Summary())
}

func TestResolve_NoAncestorYieldsEmpty(t *testing.T) {
	t.Parallel()

	r := newResolver(t, fakeLookup{})

	doc, err := r.Resolve(method("\\App\\Orphan"), "/** @inheritDoc */")
	require.NoError(t, err)
	assert.True(t, doc.IsEmpty())
}

func TestResolve_InlineSpliceUsesDescriptionOnly(t *testing.T) {
	t.Parallel()

	lookup := fakeLookup{
		method("\\App\\Child").String(): {
			Ref: method("\\App\\Base"),
			Doc: "/**\n * Ancestor summary.\n *\n * Ancestor description.\n *\n * @param int $x Base param.\n */",
		},
	}
	r := newResolver(t, lookup)

	raw := "/**\n * Child summary.\n *\n * Before {@inheritdoc} after.\n *\n * @param string $y Child param.\n */"
	doc, err := r.Resolve(method("\\App\\Child"), raw)
	require.NoError(t, err)

	// The placeholder expands to the ancestor's description, never its
	// summary or tags.
	assert.Equal(t, "Child summary.", doc.Summary())
	assert.Contains(t, doc.Description(), "Before Ancestor description. after.")
	assert.NotContains(t, doc.Description(), "Ancestor summary.")

	// The child declared its own @param category, so the ancestor's is
	// ignored wholesale.
	require.Len(t, doc.Params, 1)
	assert.Equal(t, "$y", doc.Params[0].Var)
}

func TestResolve_MergeFillsMissingParts(t *testing.T) {
	t.Parallel()

	lookup := fakeLookup{
		method("\\App\\Child").String(): {
			Ref: method("\\App\\Base"),
			Doc: "/**\n * Base summary.\n *\n * Base description.\n *\n * @param int $a First.\n * @param int $b Second.\n * @return int\n * @throws \\DomainException bad input\n * @throws \\RuntimeException backend down\n */",
		},
	}
	r := newResolver(t, lookup)

	raw := "/**\n * Child summary.\n *\n * @param string $only The only child param.\n */"
	doc, err := r.Resolve(method("\\App\\Child"), raw)
	require.NoError(t, err)

	assert.Equal(t, "Child summary.", doc.Summary())
	assert.Equal(t, "Base description.", doc.Description())

	// Child declared one @param: the category is taken exclusively from the
	// child, never padded from the ancestor's two.
	require.Len(t, doc.Params, 1)
	assert.Equal(t, "$only", doc.Params[0].Var)

	// Child declared no @return and no @throws: both categories come from
	// the ancestor in full.
	require.Len(t, doc.Returns, 1)
	assert.Equal(t, "int", doc.Returns[0].Type)
	require.Len(t, doc.Throws, 2)
	assert.Equal(t, "\\DomainException", doc.Throws[0].Type)
	assert.Equal(t, "\\RuntimeException", doc.Throws[1].Type)
}

func TestResolve_PlainCommentWithoutAncestor(t *testing.T) {
	t.Parallel()

	r := newResolver(t, fakeLookup{})

	doc, err := r.Resolve(method("\\App\\Solo"), "/** Own doc. */")
	require.NoError(t, err)
	assert.Equal(t, "Own doc.", doc.Summary())
	assert.Empty(t, doc.Params)
}

func TestResolve_CycleDetected(t *testing.T) {
	t.Parallel()

	// A misreporting oracle: A's ancestor is B, B's ancestor is A, both
	// bare, so resolution would ping-pong forever without the visited set.
	lookup := fakeLookup{
		method("\\App\\A").String(): {Ref: method("\\App\\B"), Doc: "/** @inheritDoc */"},
		method("\\App\\B").String(): {Ref: method("\\App\\A"), Doc: "/** @inheritDoc */"},
	}
	r := newResolver(t, lookup)

	_, err := r.Resolve(method("\\App\\A"), "/** @inheritDoc */")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inheritance cycle")
}

func TestResolve_DepthLimit(t *testing.T) {
	t.Parallel()

	// A chain longer than the depth bound, every link bare.
	lookup := fakeLookup{}
	for i := 0; i < DefaultMaxDepth+10; i++ {
		lookup[method(fmt.Sprintf("\\App\\C%d", i)).String()] = Ancestor{
			Ref: method(fmt.Sprintf("\\App\\C%d", i+1)),
			Doc: "/** @inheritDoc */",
		}
	}
	r := newResolver(t, lookup)

	_, err := r.Resolve(method("\\App\\C0"), "/** @inheritDoc */")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deeper than")
}

func TestResolve_Cached(t *testing.T) {
	t.Parallel()

	lookup := fakeLookup{
		method("\\App\\Child").String(): {Ref: method("\\App\\Base"), Doc: "/** Base doc. */"},
	}
	r := newResolver(t, lookup)

	first, err := r.Resolve(method("\\App\\Child"), "/** @inheritDoc */")
	require.NoError(t, err)
	second, err := r.Resolve(method("\\App\\Child"), "/** @inheritDoc */")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "Base doc.", second.Summary())
}

func TestMemberRef_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\\App\\User", MemberRef{Class: "\\App\\User", Kind: KindClass}.String())
	assert.Equal(t, "\\App\\User::save(method)", method("\\App\\User").String())
	assert.Equal(t, "\\App\\User::id(property)",
		MemberRef{Class: "\\App\\User", Kind: KindProperty, Member: "id"}.String())
}
