// Package aliases tracks the import aliasing of a single source unit and the
// rewriting of captured literal expressions.
//
// A Table is unit-scoped: the scanner registers every use-statement triple
// (full name, alias, kind) while it walks the unit, and the renderer later
// asks the same table how a qualified name should be displayed. Qualified
// names embedded in captured constant values are protected as typed NameRef
// tokens so they can never be confused with plain expression text.
package aliases

import (
	"hash/fnv"
	"strings"
)

// UseKind distinguishes the three PHP import kinds.
type UseKind int

const (
	UseType UseKind = iota
	UseFunction
	UseConstant
)

// String returns the use-kind keyword as it appears in source.
func (k UseKind) String() string {
	switch k {
	case UseFunction:
		return "function"
	case UseConstant:
		return "const"
	default:
		return "type"
	}
}

// Entry is one registered import: FullName is the imported name without a
// leading separator, Alias is the local short name bound to it.
type Entry struct {
	FullName string
	Alias    string
	Kind     UseKind
}

// Table holds the alias state for one source unit. It is not safe for
// concurrent use; units get their own table (one scanner, one table).
type Table struct {
	// byAlias enforces alias uniqueness per kind, last write wins.
	byAlias map[UseKind]map[string]Entry
	// byTarget answers "is there an alias whose target is this name".
	byTarget map[UseKind]map[string]string
	// refs makes NameRef idempotent per original name.
	refs map[string]NameRef
}

// NewTable creates an empty alias table for one source unit.
func NewTable() *Table {
	return &Table{
		byAlias: map[UseKind]map[string]Entry{
			UseType:     {},
			UseFunction: {},
			UseConstant: {},
		},
		byTarget: map[UseKind]map[string]string{
			UseType:     {},
			UseFunction: {},
			UseConstant: {},
		},
		refs: make(map[string]NameRef),
	}
}

// normalize strips the leading separator so "\App\X" and "App\X" compare
// equal everywhere in the table.
func normalize(name string) string {
	return strings.TrimPrefix(name, "\\")
}

// Register records one import triple. Within a unit, aliases are unique per
// use-kind; registering a duplicate alias replaces the earlier entry.
func (t *Table) Register(kind UseKind, fullName, alias string) {
	fullName = normalize(fullName)
	if prev, ok := t.byAlias[kind][alias]; ok {
		delete(t.byTarget[kind], prev.FullName)
	}
	e := Entry{FullName: fullName, Alias: alias, Kind: kind}
	t.byAlias[kind][alias] = e
	t.byTarget[kind][fullName] = alias
}

// TargetFor returns the full name bound to alias under the given kind.
func (t *Table) TargetFor(kind UseKind, alias string) (string, bool) {
	e, ok := t.byAlias[kind][alias]
	if !ok {
		return "", false
	}
	return e.FullName, true
}

// Entries returns every registered import in no particular order.
func (t *Table) Entries() []Entry {
	var out []Entry
	for _, m := range t.byAlias {
		for _, e := range m {
			out = append(out, e)
		}
	}
	return out
}

// ResolveDisplayName returns the alias whose target equals name, checking
// type, then function, then constant entries. A name that matches no entry
// is returned unmodified. The priority order matters: a class and a constant
// may share a short name under different aliases, and the type alias wins.
func (t *Table) ResolveDisplayName(name string) string {
	key := normalize(name)
	for _, kind := range []UseKind{UseType, UseFunction, UseConstant} {
		if alias, ok := t.byTarget[kind][key]; ok {
			return alias
		}
	}
	return name
}

// NameRef returns the placeholder token protecting name inside a captured
// expression. Calls with the same name return the same token for the life of
// the table.
func (t *Table) NameRef(name string) NameRef {
	if ref, ok := t.refs[name]; ok {
		return ref
	}
	h := fnv.New64a()
	h.Write([]byte(name))
	ref := NameRef{Name: name, id: h.Sum64()}
	t.refs[name] = ref
	return ref
}

// Rewrite re-serializes a captured expression: text runs pass through
// verbatim and every name reference is resolved to its display form.
func (t *Table) Rewrite(expr Expr) string {
	var b strings.Builder
	for _, tok := range expr {
		switch v := tok.(type) {
		case TextRun:
			b.WriteString(string(v))
		case NameRef:
			b.WriteString(t.ResolveDisplayName(v.Name))
		}
	}
	return b.String()
}
