package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/aliases"
)

// Test Plan for the structural scanner:
// - Declarations at namespace depth captured with rooted FQNs
// - Statement and braced namespace forms, multiple namespaces per unit
// - Grouped use imports expand to one entry per name, per-entry kind override
// - Doc comments attach through modifiers and attributes, drop on statements
// - Class/function bodies are opaque: nothing inside is captured
// - Anonymous classes, closures, and member access are not declarations
// - Constant values round-trip verbatim with aliased names rewritten
// - define() capture: literal names only, dynamic names skip, EOF fails hard
// - Hard failures return no partial unit

func scanSource(t *testing.T, src string) *Unit {
	t.Helper()
	unit, err := New().ScanUnit("test.php", []byte(src))
	require.NoError(t, err)
	return unit
}

func findSymbol(t *testing.T, unit *Unit, fqn string) *Symbol {
	t.Helper()
	for _, s := range unit.Symbols {
		if s.FQN == fqn {
			return s
		}
	}
	t.Fatalf("symbol %s not found in %d symbols", fqn, len(unit.Symbols))
	return nil
}

func TestScanUnit_Declarations(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php
namespace App\Services;

/** Handles user accounts. */
class UserService {}

/** Formats a display name. */
function format_name(string $name): string { return trim($name); }

/** Maximum retry count. */
const MAX_RETRIES = 5;
`)

	assert.Equal(t, "App\\Services", unit.Namespace)
	require.Len(t, unit.Symbols, 3)

	cls := findSymbol(t, unit, "\\App\\Services\\UserService")
	assert.Equal(t, KindClass, cls.Kind)
	assert.Contains(t, cls.Doc, "Handles user accounts.")
	assert.Equal(t, "UserService", cls.ShortName())

	fn := findSymbol(t, unit, "\\App\\Services\\format_name")
	assert.Equal(t, KindFunction, fn.Kind)
	assert.Contains(t, fn.Doc, "Formats a display name.")

	c := findSymbol(t, unit, "\\App\\Services\\MAX_RETRIES")
	assert.Equal(t, KindConstant, c.Kind)
	assert.Equal(t, "5", unit.Aliases.Rewrite(c.Value))
}

func TestScanUnit_GlobalNamespace(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php
interface Jsonable {}
trait Timestamps {}
enum Suit {}
`)

	assert.Empty(t, unit.Namespace)
	require.Len(t, unit.Symbols, 3)
	assert.Equal(t, KindInterface, findSymbol(t, unit, "\\Jsonable").Kind)
	assert.Equal(t, KindTrait, findSymbol(t, unit, "\\Timestamps").Kind)
	assert.Equal(t, KindEnum, findSymbol(t, unit, "\\Suit").Kind)
}

func TestScanUnit_BracedNamespaces(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php
namespace First {
    class A {}
}
namespace Second {
    class B {}
}
namespace {
    class C {}
}
`)

	// The unit-level namespace is the first one declared.
	assert.Equal(t, "First", unit.Namespace)
	require.Len(t, unit.Symbols, 3)
	findSymbol(t, unit, "\\First\\A")
	findSymbol(t, unit, "\\Second\\B")
	findSymbol(t, unit, "\\C")
}

func TestScanUnit_UseDeclarations(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php
namespace App;

use App\Models\User;
use Vendor\Long\Name as Short;
use function App\Helpers\format_name as fmt;
use const App\Config\DEBUG;
`)

	target, ok := unit.Aliases.TargetFor(aliases.UseType, "User")
	require.True(t, ok)
	assert.Equal(t, "App\\Models\\User", target)

	target, ok = unit.Aliases.TargetFor(aliases.UseType, "Short")
	require.True(t, ok)
	assert.Equal(t, "Vendor\\Long\\Name", target)

	target, ok = unit.Aliases.TargetFor(aliases.UseFunction, "fmt")
	require.True(t, ok)
	assert.Equal(t, "App\\Helpers\\format_name", target)

	target, ok = unit.Aliases.TargetFor(aliases.UseConstant, "DEBUG")
	require.True(t, ok)
	assert.Equal(t, "App\\Config\\DEBUG", target)
}

func TestScanUnit_GroupedUse(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php
use App\{Models\User, Models\Post as Article};
use App\Support\{function arr_get, const VERSION, Str};
`)

	target, ok := unit.Aliases.TargetFor(aliases.UseType, "User")
	require.True(t, ok)
	assert.Equal(t, "App\\Models\\User", target)

	target, ok = unit.Aliases.TargetFor(aliases.UseType, "Article")
	require.True(t, ok)
	assert.Equal(t, "App\\Models\\Post", target)

	// Per-entry kind keywords override the clause kind.
	target, ok = unit.Aliases.TargetFor(aliases.UseFunction, "arr_get")
	require.True(t, ok)
	assert.Equal(t, "App\\Support\\arr_get", target)

	target, ok = unit.Aliases.TargetFor(aliases.UseConstant, "VERSION")
	require.True(t, ok)
	assert.Equal(t, "App\\Support\\VERSION", target)

	target, ok = unit.Aliases.TargetFor(aliases.UseType, "Str")
	require.True(t, ok)
	assert.Equal(t, "App\\Support\\Str", target)
}

func TestScanUnit_DocAttachesThroughModifiersAndAttributes(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php
/** Immutable base. */
#[Attribute(flags: 1)]
final readonly class Config {}

/** Abstract contract. */
abstract class Handler {}
`)

	assert.Contains(t, findSymbol(t, unit, "\\Config").Doc, "Immutable base.")
	assert.Contains(t, findSymbol(t, unit, "\\Handler").Doc, "Abstract contract.")
}

func TestScanUnit_DocDroppedByInterveningStatement(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php
/** Not attached to anything below. */
$bootstrap = true;

class Plain {}

/** Dropped by the use statement. */
use App\Models\User;

class AlsoPlain {}
`)

	assert.Empty(t, findSymbol(t, unit, "\\Plain").Doc)
	assert.Empty(t, findSymbol(t, unit, "\\AlsoPlain").Doc)
}

func TestScanUnit_BodiesAreOpaque(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php
class Service {
    /** A method, not a top-level function. */
    public function handle(): void {
        define('INSIDE', 1);
        const NOPE = 2;
    }
}

function outer() {
    function inner() {}
    if (true) {
        class Conditional {}
    }
}
`)

	require.Len(t, unit.Symbols, 2)
	findSymbol(t, unit, "\\Service")
	findSymbol(t, unit, "\\outer")
}

func TestScanUnit_ExpressionsAreNotDeclarations(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php
$c = Foo::class;
$obj->function();
$fn = function ($x) { return $x; };
$anon = new class { public function f() {} };
function &by_ref() {}
`)

	require.Len(t, unit.Symbols, 1)
	assert.Equal(t, KindFunction, findSymbol(t, unit, "\\by_ref").Kind)
}

func TestScanUnit_ConstValueRewrite(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php
namespace App;

use App\Options as O;

const LIMIT = \App\Options::DEFAULT_LIMIT + 1;
const NAMES = ['a' => true, 'b' => null];
`)

	limit := findSymbol(t, unit, "\\App\\LIMIT")
	// The qualified name rewrites to its alias; the member name after ::
	// and the surrounding text are reproduced verbatim.
	assert.Equal(t, "O::DEFAULT_LIMIT + 1", unit.Aliases.Rewrite(limit.Value))

	names := findSymbol(t, unit, "\\App\\NAMES")
	assert.Equal(t, "['a' => true, 'b' => null]", unit.Aliases.Rewrite(names.Value))
}

func TestScanUnit_MultipleConstElementsShareDoc(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php
/** Shared doc. */
const FIRST = 1, SECOND = 2;
`)

	require.Len(t, unit.Symbols, 2)
	assert.Contains(t, findSymbol(t, unit, "\\FIRST").Doc, "Shared doc.")
	assert.Contains(t, findSymbol(t, unit, "\\SECOND").Doc, "Shared doc.")
	assert.Equal(t, "2", unit.Aliases.Rewrite(findSymbol(t, unit, "\\SECOND").Value))
}

func TestScanUnit_TypedConst(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php
const int WINDOW = 30;
`)

	sym := findSymbol(t, unit, "\\WINDOW")
	assert.Equal(t, "30", unit.Aliases.Rewrite(sym.Value))
}

func TestScanUnit_Define(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php
namespace App;

/** Build identifier. */
define('APP_BUILD', '1.0.' . PATCH);
define('Legacy\MAX_SIZE', 4096);
define('OLD_STYLE', 1, true);
`)

	require.Len(t, unit.Symbols, 3)

	build := findSymbol(t, unit, "\\APP_BUILD")
	assert.Equal(t, KindDefine, build.Kind)
	assert.Contains(t, build.Doc, "Build identifier.")
	assert.Equal(t, "'1.0.' . PATCH", unit.Aliases.Rewrite(build.Value))

	// define() registers globally: the FQN comes from the literal name's own
	// prefix, never from the unit's active namespace.
	legacy := findSymbol(t, unit, "\\Legacy\\MAX_SIZE")
	assert.Equal(t, "4096", unit.Aliases.Rewrite(legacy.Value))

	old := findSymbol(t, unit, "\\OLD_STYLE")
	assert.Equal(t, "1", unit.Aliases.Rewrite(old.Value))
}

func TestScanUnit_DefineDynamicNameSkips(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php
define($name, 1);
define('PREFIX' . $suffix, 2);
define("WITH_$var", 3);

class Survivor {}
`)

	// Dynamic names are recoverable: the call is skipped and scanning
	// continues.
	require.Len(t, unit.Symbols, 1)
	findSymbol(t, unit, "\\Survivor")
}

func TestScanUnit_DefineCaptureDisabled(t *testing.T) {
	t.Parallel()

	s := New()
	s.CaptureDefines = false
	unit, err := s.ScanUnit("test.php", []byte(`<?php
define('IGNORED', 1);
`))
	require.NoError(t, err)
	assert.Empty(t, unit.Symbols)
}

func TestScanUnit_HardFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		src  string
		msg  string
	}{
		{"unterminated use", "<?php\nuse App\\Models\\User", "unterminated use declaration"},
		{"use missing name", "<?php\nuse ;", "use declaration missing name"},
		{"unterminated use group", "<?php\nuse App\\{Models\\User", "unterminated use group"},
		{"unterminated const", "<?php\nconst X = 1", "unterminated expression"},
		{"unterminated define", "<?php\ndefine('X', 1", "unterminated define"},
		{"unterminated dynamic define", "<?php\ndefine($x, 1", "unterminated define"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			unit, err := New().ScanUnit("bad.php", []byte(tc.src))
			require.Error(t, err)
			assert.Nil(t, unit, "a failed unit must not return partial state")
			var uerr *UnitError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, "bad.php", uerr.Path)
			assert.Contains(t, uerr.Msg, tc.msg)
		})
	}
}

func TestScanUnit_NoOpenTag(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, "just some html, no php here\n<b>class NotAClass {}</b>\n")
	assert.Empty(t, unit.Symbols)
}

func TestScanUnit_HeredocValue(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php
const TEMPLATE = <<<'EOT'
{ not a real { brace depth } problem }
EOT;
`)

	sym := findSymbol(t, unit, "\\TEMPLATE")
	assert.Contains(t, unit.Aliases.Rewrite(sym.Value), "brace depth")
}

func TestScanUnit_LineNumbers(t *testing.T) {
	t.Parallel()

	unit := scanSource(t, `<?php

class OnLineThree {}
`)

	assert.Equal(t, 3, findSymbol(t, unit, "\\OnLineThree").Line)
}
