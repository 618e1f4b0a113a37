package scanner

import (
	"fmt"

	"github.com/docweave/docweave/internal/aliases"
)

// SymbolKind classifies a top-level declaration recovered by the scanner.
type SymbolKind string

const (
	KindClass     SymbolKind = "class"
	KindInterface SymbolKind = "interface"
	KindTrait     SymbolKind = "trait"
	KindEnum      SymbolKind = "enum"
	KindFunction  SymbolKind = "function"
	KindConstant  SymbolKind = "constant"
	KindDefine    SymbolKind = "defined-constant"
)

// Symbol is one top-level declaration. Symbols are created once during
// scanning and never mutated afterwards; derived documentation is computed
// elsewhere.
type Symbol struct {
	// FQN is the fully qualified name, always rooted ("\App\UserService").
	FQN string
	// Kind is the declaration kind.
	Kind SymbolKind
	// Doc is the raw documentation comment attached to the declaration, or
	// empty when none immediately preceded it.
	Doc string
	// Value holds the captured literal expression for constant and
	// defined-constant symbols; nil otherwise.
	Value aliases.Expr
	// Line is the 1-based line of the declaring keyword.
	Line int
}

// ShortName returns the last qualified segment of the FQN.
func (s *Symbol) ShortName() string {
	name := s.FQN
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '\\' {
			return name[i+1:]
		}
	}
	return name
}

// Unit is the result of scanning one source file.
type Unit struct {
	Path string
	// Namespace is the first namespace prefix declared in the unit, empty
	// for the global namespace. Units with multiple braced namespaces still
	// carry correct per-symbol FQNs.
	Namespace string
	Symbols   []*Symbol
	Aliases   *aliases.Table
}

// UnitError is a fatal scan failure for one source unit. The unit produced
// no symbols and no alias entries; other units are unaffected.
type UnitError struct {
	Path string
	Line int
	Msg  string
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

func unitErrorf(path string, line int, format string, args ...any) *UnitError {
	return &UnitError{Path: path, Line: line, Msg: fmt.Sprintf(format, args...)}
}
