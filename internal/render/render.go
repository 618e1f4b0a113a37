// Package render writes the generated documentation as Markdown: one page
// per class-like symbol plus index pages for functions and constants. Every
// displayed comment is the effective comment after inheritance resolution.
package render

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docweave/docweave/internal/docblock"
	"github.com/docweave/docweave/internal/inherit"
	"github.com/docweave/docweave/internal/introspect"
	"github.com/docweave/docweave/internal/scanner"
)

// Document is the searchable projection of one rendered symbol.
type Document struct {
	FQN         string
	Kind        string
	Summary     string
	Description string
	Unit        string
}

// Renderer renders an index plus scanned units into a Markdown tree.
type Renderer struct {
	index    *introspect.Index
	resolver *inherit.Resolver
	outDir   string
}

// NewRenderer creates a renderer writing under outDir.
func NewRenderer(index *introspect.Index, resolver *inherit.Resolver, outDir string) *Renderer {
	return &Renderer{index: index, resolver: resolver, outDir: outDir}
}

// Render writes all pages and returns the searchable documents, one per
// rendered symbol (classes, their members, functions, constants).
func (r *Renderer) Render(units []*scanner.Unit) ([]Document, error) {
	if err := os.MkdirAll(filepath.Join(r.outDir, "classes"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var docs []Document

	classes := r.index.Classes()
	for _, cls := range classes {
		pageDocs, err := r.renderClassPage(cls, unitOf(units, cls.Name))
		if err != nil {
			return nil, err
		}
		docs = append(docs, pageDocs...)
	}

	fnDocs, err := r.renderFunctionsPage(units)
	if err != nil {
		return nil, err
	}
	docs = append(docs, fnDocs...)

	constDocs, err := r.renderConstantsPage(units)
	if err != nil {
		return nil, err
	}
	docs = append(docs, constDocs...)

	if err := r.renderIndexPage(classes, units); err != nil {
		return nil, err
	}
	return docs, nil
}

// effectiveDoc resolves the inherited doc comment for ref. Resolution errors
// (cycles, depth) degrade to the declared comment so one bad hierarchy does
// not abort the whole render.
func (r *Renderer) effectiveDoc(ref inherit.MemberRef, raw string) *docblock.DocBlock {
	doc, err := r.resolver.Resolve(ref, raw)
	if err != nil {
		log.Printf("Warning: %v; using declared comment for %s", err, ref)
		return docblock.Parse(raw)
	}
	return doc
}

// unitOf finds the unit that declared fqn, if the scanner captured it.
func unitOf(units []*scanner.Unit, fqn string) string {
	for _, u := range units {
		for _, s := range u.Symbols {
			if strings.EqualFold(s.FQN, fqn) {
				return u.Path
			}
		}
	}
	return ""
}

// pageSlug maps a rooted FQN to a stable page filename.
func pageSlug(fqn string) string {
	return strings.ReplaceAll(strings.TrimPrefix(fqn, "\\"), "\\", ".") + ".md"
}

func (r *Renderer) writePage(relPath, content string) error {
	path := filepath.Join(r.outDir, relPath)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", relPath, err)
	}
	return nil
}

// sortSymbols returns the symbols of the given kinds across all units,
// ordered by FQN.
func sortSymbols(units []*scanner.Unit, kinds ...scanner.SymbolKind) []symbolInUnit {
	var out []symbolInUnit
	for _, u := range units {
		for _, s := range u.Symbols {
			for _, k := range kinds {
				if s.Kind == k {
					out = append(out, symbolInUnit{sym: s, unit: u})
					break
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].sym.FQN < out[j].sym.FQN })
	return out
}

type symbolInUnit struct {
	sym  *scanner.Symbol
	unit *scanner.Unit
}
