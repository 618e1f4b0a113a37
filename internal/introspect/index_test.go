package introspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/aliases"
	"github.com/docweave/docweave/internal/inherit"
)

// Test Plan for the introspection index:
// - Class-like declarations recorded with namespace-qualified names
// - Heritage names resolved through the unit's alias table
// - Members extracted with doc comments, modifiers, params, return types
// - AncestorsOf walks the superclass chain and interface closure
// - NearestDocAncestor: classes walk superclasses only, skipping doc-less
// - NearestDocAncestor: members walk superclasses first, then interfaces
// - Verify rejects inheritance cycles with the classes named

func addUnit(t *testing.T, idx *Index, path, src string, table *aliases.Table) {
	t.Helper()
	require.NoError(t, idx.AddUnit(path, []byte(src), table))
}

func TestIndex_AddUnitRecordsClasses(t *testing.T) {
	t.Parallel()

	idx := NewIndex()
	addUnit(t, idx, "user.php", `<?php
namespace App\Models;

/** A persisted user. */
class User extends Model implements \JsonSerializable
{
    /** Primary key. */
    public int $id;

    /** Default page size. */
    const PAGE_SIZE = 25;

    /** Saves the record. */
    public function save(bool $force = false): bool { return true; }
}
`, nil)

	require.Equal(t, 1, idx.Len())
	cls, ok := idx.Class("\\App\\Models\\User")
	require.True(t, ok)

	assert.Equal(t, "\\App\\Models\\User", cls.Name)
	assert.Equal(t, "class", cls.Kind)
	assert.Contains(t, cls.Doc, "A persisted user.")
	assert.Equal(t, "\\App\\Models\\Model", cls.Parent)
	assert.Equal(t, []string{"\\JsonSerializable"}, cls.Interfaces)

	require.Len(t, cls.Properties, 1)
	assert.Equal(t, "id", cls.Properties[0].Name)
	assert.Equal(t, "int", cls.Properties[0].Type)
	assert.Contains(t, cls.Properties[0].Doc, "Primary key.")
	assert.Contains(t, cls.Properties[0].Modifiers, "public")

	require.Len(t, cls.Constants, 1)
	assert.Equal(t, "PAGE_SIZE", cls.Constants[0].Name)
	assert.Equal(t, "25", cls.Constants[0].Value)

	require.Len(t, cls.Methods, 1)
	m := cls.Methods[0]
	assert.Equal(t, "save", m.Name)
	assert.Equal(t, "bool", m.ReturnType)
	require.Len(t, m.Params, 1)
	assert.Equal(t, "$force", m.Params[0].Name)
	assert.Equal(t, "bool", m.Params[0].Type)
}

func TestIndex_HeritageResolvesThroughAliases(t *testing.T) {
	t.Parallel()

	table := aliases.NewTable()
	table.Register(aliases.UseType, "Vendor\\Orm\\Model", "Model")

	idx := NewIndex()
	addUnit(t, idx, "post.php", `<?php
namespace App;

class Post extends Model {}
`, table)

	cls, ok := idx.Class("\\App\\Post")
	require.True(t, ok)
	assert.Equal(t, "\\Vendor\\Orm\\Model", cls.Parent)
}

func TestIndex_ClassLookupCaseInsensitive(t *testing.T) {
	t.Parallel()

	idx := NewIndex()
	addUnit(t, idx, "a.php", `<?php
namespace App;
class UserService {}
`, nil)

	_, ok := idx.Class("\\app\\userservice")
	assert.True(t, ok)
	_, ok = idx.Class("App\\UserService")
	assert.True(t, ok, "unrooted lookups normalize")
}

func hierarchyIndex(t *testing.T) *Index {
	t.Helper()
	idx := NewIndex()
	addUnit(t, idx, "hierarchy.php", `<?php
namespace App;

/** Countable contract. */
interface HasCount
{
    /** Counts the records. */
    public function total(): int;
}

/** Base repository. */
class Base implements HasCount
{
    /** Persists the record. */
    public function save(): bool { return true; }

    public function total(): int { return 0; }
}

class Middle extends Base
{
    public function save(): bool { return false; }
}

class Child extends Middle {}
`, nil)
	require.NoError(t, idx.Verify())
	return idx
}

func TestIndex_AncestorsOf(t *testing.T) {
	t.Parallel()

	idx := hierarchyIndex(t)
	anc := idx.AncestorsOf("\\App\\Child")

	assert.Equal(t, []string{"\\App\\Middle", "\\App\\Base"}, anc.Superclasses)
	assert.Equal(t, []string{"\\App\\HasCount"}, anc.Interfaces)
}

func TestIndex_NearestDocAncestorForClass(t *testing.T) {
	t.Parallel()

	idx := hierarchyIndex(t)

	// Middle has no doc comment; the walk skips it and lands on Base.
	anc, ok := idx.NearestDocAncestor(inherit.MemberRef{Class: "\\App\\Child", Kind: inherit.KindClass})
	require.True(t, ok)
	assert.Equal(t, "\\App\\Base", anc.Ref.Class)
	assert.Contains(t, anc.Doc, "Base repository.")
}

func TestIndex_NearestDocAncestorForMethod(t *testing.T) {
	t.Parallel()

	idx := hierarchyIndex(t)

	// Middle overrides save() without a doc comment, so the chain continues
	// to Base, whose save() is documented.
	anc, ok := idx.NearestDocAncestor(inherit.MemberRef{
		Class: "\\App\\Child", Kind: inherit.KindMethod, Member: "save",
	})
	require.True(t, ok)
	assert.Equal(t, "\\App\\Base", anc.Ref.Class)
	assert.Contains(t, anc.Doc, "Persists the record.")
}

func TestIndex_NearestDocAncestorFallsBackToInterfaces(t *testing.T) {
	t.Parallel()

	idx := hierarchyIndex(t)

	// total() is undocumented everywhere in the superclass chain; the
	// interface declaration carries the comment.
	anc, ok := idx.NearestDocAncestor(inherit.MemberRef{
		Class: "\\App\\Child", Kind: inherit.KindMethod, Member: "total",
	})
	require.True(t, ok)
	assert.Equal(t, "\\App\\HasCount", anc.Ref.Class)
	assert.Contains(t, anc.Doc, "Counts the records.")
}

func TestIndex_NearestDocAncestorNone(t *testing.T) {
	t.Parallel()

	idx := hierarchyIndex(t)

	_, ok := idx.NearestDocAncestor(inherit.MemberRef{
		Class: "\\App\\Child", Kind: inherit.KindMethod, Member: "missing",
	})
	assert.False(t, ok)
}

func TestIndex_VerifyRejectsCycle(t *testing.T) {
	t.Parallel()

	idx := NewIndex()
	addUnit(t, idx, "cycle.php", `<?php
namespace App;
class A extends B {}
class B extends A {}
`, nil)

	err := idx.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inheritance cycle")
}

func TestIndex_ExternalParentIsNotACycle(t *testing.T) {
	t.Parallel()

	idx := NewIndex()
	addUnit(t, idx, "ext.php", `<?php
namespace App;
class Local extends \Vendor\Unknown {}
`, nil)

	assert.NoError(t, idx.Verify())
}
