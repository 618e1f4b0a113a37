package render

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/docweave/docweave/internal/docblock"
	"github.com/docweave/docweave/internal/inherit"
	"github.com/docweave/docweave/internal/introspect"
	"github.com/docweave/docweave/internal/scanner"
)

// renderClassPage writes one class-like page and returns the documents for
// the class and each of its members.
func (r *Renderer) renderClassPage(cls *introspect.ClassInfo, unit string) ([]Document, error) {
	var b strings.Builder
	var docs []Document

	fmt.Fprintf(&b, "# %s\n\n", cls.Name)

	line := "*" + cls.Kind + "*"
	if len(cls.Modifiers) > 0 {
		line = "*" + strings.Join(cls.Modifiers, " ") + " " + cls.Kind + "*"
	}
	if cls.Parent != "" {
		line += fmt.Sprintf(", extends `%s`", cls.Parent)
	}
	if len(cls.Interfaces) > 0 {
		verb := "implements"
		if cls.Kind == "interface" {
			verb = "extends"
		}
		line += fmt.Sprintf(", %s `%s`", verb, strings.Join(cls.Interfaces, "`, `"))
	}
	b.WriteString(line + "\n\n")

	classDoc := r.effectiveDoc(inherit.MemberRef{Class: cls.Name, Kind: inherit.KindClass}, cls.Doc)
	writeDocText(&b, classDoc)
	docs = append(docs, Document{
		FQN:         cls.Name,
		Kind:        cls.Kind,
		Summary:     classDoc.Summary(),
		Description: classDoc.Description(),
		Unit:        unit,
	})

	sections := []struct {
		title   string
		kind    inherit.Kind
		members []*introspect.MemberInfo
	}{
		{"Constants", inherit.KindConstant, cls.Constants},
		{"Properties", inherit.KindProperty, cls.Properties},
		{"Methods", inherit.KindMethod, cls.Methods},
	}
	for _, sec := range sections {
		if len(sec.members) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", sec.title)
		for _, m := range sec.members {
			ref := inherit.MemberRef{Class: cls.Name, Kind: sec.kind, Member: m.Name}
			doc := r.effectiveDoc(ref, m.Doc)
			writeMember(&b, sec.kind, m, doc)
			docs = append(docs, Document{
				FQN:         cls.Name + "::" + m.Name,
				Kind:        sec.kind.String(),
				Summary:     doc.Summary(),
				Description: doc.Description(),
				Unit:        unit,
			})
		}
	}

	return docs, r.writePage(path.Join("classes", pageSlug(cls.Name)), b.String())
}

// writeMember renders one member heading, its signature line, and its doc.
func writeMember(b *strings.Builder, kind inherit.Kind, m *introspect.MemberInfo, doc *docblock.DocBlock) {
	switch kind {
	case inherit.KindConstant:
		fmt.Fprintf(b, "### %s\n\n", m.Name)
		if m.Value != "" {
			fmt.Fprintf(b, "`%s = %s`\n\n", m.Name, m.Value)
		}
	case inherit.KindProperty:
		fmt.Fprintf(b, "### $%s\n\n", m.Name)
		if m.Type != "" {
			fmt.Fprintf(b, "`%s $%s`\n\n", m.Type, m.Name)
		}
	case inherit.KindMethod:
		fmt.Fprintf(b, "### %s()\n\n", m.Name)
		fmt.Fprintf(b, "`%s`\n\n", methodSignature(m))
	}
	if len(m.Modifiers) > 0 {
		fmt.Fprintf(b, "*%s*\n\n", strings.Join(m.Modifiers, " "))
	}
	writeDocText(b, doc)
}

// methodSignature rebuilds a compact declared signature from the member
// record.
func methodSignature(m *introspect.MemberInfo) string {
	parts := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		if p.Type != "" {
			parts = append(parts, p.Type+" "+p.Name)
		} else {
			parts = append(parts, p.Name)
		}
	}
	sig := fmt.Sprintf("%s(%s)", m.Name, strings.Join(parts, ", "))
	if m.ReturnType != "" {
		sig += ": " + m.ReturnType
	}
	return sig
}

// writeDocText renders a resolved doc block: markers first, then summary and
// description, then the tag sections.
func writeDocText(b *strings.Builder, doc *docblock.DocBlock) {
	for _, m := range doc.Markers {
		if m.Description != "" {
			fmt.Fprintf(b, "> **%s** — %s\n\n", m.Name, m.Description)
		} else {
			fmt.Fprintf(b, "> **%s**\n\n", m.Name)
		}
	}
	if s := doc.Summary(); s != "" {
		b.WriteString(s + "\n\n")
	}
	if d := doc.Description(); d != "" {
		b.WriteString(d + "\n\n")
	}
	if len(doc.Params) > 0 {
		b.WriteString("**Parameters**\n\n")
		for _, p := range doc.Params {
			writeTagItem(b, p.Var, p.Type, p.Description)
		}
		b.WriteString("\n")
	}
	for _, t := range doc.Returns {
		fmt.Fprintf(b, "**Returns** `%s` %s\n\n", t.Type, t.Description)
	}
	if len(doc.Throws) > 0 {
		b.WriteString("**Throws**\n\n")
		for _, t := range doc.Throws {
			writeTagItem(b, "", t.Type, t.Description)
		}
		b.WriteString("\n")
	}
	for _, t := range doc.Vars {
		fmt.Fprintf(b, "**Type** `%s` %s\n\n", t.Type, t.Description)
	}
}

func writeTagItem(b *strings.Builder, name, typ, desc string) {
	item := "- "
	if name != "" {
		item += "`" + name + "` "
	}
	if typ != "" {
		item += "(`" + typ + "`) "
	}
	b.WriteString(strings.TrimSpace(item+desc) + "\n")
}

// renderFunctionsPage writes the global function index.
func (r *Renderer) renderFunctionsPage(units []*scanner.Unit) ([]Document, error) {
	entries := sortSymbols(units, scanner.KindFunction)
	var b strings.Builder
	b.WriteString("# Functions\n\n")

	var docs []Document
	for _, e := range entries {
		doc := docblock.Parse(e.sym.Doc)
		fmt.Fprintf(&b, "## %s()\n\n", e.sym.FQN)
		fmt.Fprintf(&b, "Declared in `%s` (line %d).\n\n", e.unit.Path, e.sym.Line)
		writeDocText(&b, doc)
		docs = append(docs, Document{
			FQN:         e.sym.FQN,
			Kind:        string(e.sym.Kind),
			Summary:     doc.Summary(),
			Description: doc.Description(),
			Unit:        e.unit.Path,
		})
	}
	if len(entries) == 0 {
		b.WriteString("No global functions.\n")
	}
	return docs, r.writePage("functions.md", b.String())
}

// renderConstantsPage writes the constant index. Values are re-serialized
// through each unit's alias table so imported names display in their local
// aliased form.
func (r *Renderer) renderConstantsPage(units []*scanner.Unit) ([]Document, error) {
	entries := sortSymbols(units, scanner.KindConstant, scanner.KindDefine)
	var b strings.Builder
	b.WriteString("# Constants\n\n")

	var docs []Document
	for _, e := range entries {
		doc := docblock.Parse(e.sym.Doc)
		fmt.Fprintf(&b, "## %s\n\n", e.sym.FQN)
		if e.sym.Kind == scanner.KindDefine {
			b.WriteString("*runtime-defined*\n\n")
		}
		if e.sym.Value != nil {
			fmt.Fprintf(&b, "`%s`\n\n", e.unit.Aliases.Rewrite(e.sym.Value))
		}
		fmt.Fprintf(&b, "Declared in `%s` (line %d).\n\n", e.unit.Path, e.sym.Line)
		writeDocText(&b, doc)
		docs = append(docs, Document{
			FQN:         e.sym.FQN,
			Kind:        string(e.sym.Kind),
			Summary:     doc.Summary(),
			Description: doc.Description(),
			Unit:        e.unit.Path,
		})
	}
	if len(entries) == 0 {
		b.WriteString("No constants.\n")
	}
	return docs, r.writePage("constants.md", b.String())
}

// renderIndexPage writes the top-level table of contents.
func (r *Renderer) renderIndexPage(classes []*introspect.ClassInfo, units []*scanner.Unit) error {
	var b strings.Builder
	b.WriteString("# API Documentation\n\n")

	if len(classes) > 0 {
		b.WriteString("## Types\n\n")
		sorted := make([]*introspect.ClassInfo, len(classes))
		copy(sorted, classes)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
		for _, cls := range sorted {
			fmt.Fprintf(&b, "- [%s](classes/%s) (%s)\n", cls.Name, pageSlug(cls.Name), cls.Kind)
		}
		b.WriteString("\n")
	}

	fns := sortSymbols(units, scanner.KindFunction)
	consts := sortSymbols(units, scanner.KindConstant, scanner.KindDefine)
	fmt.Fprintf(&b, "[Functions](functions.md) (%d) · [Constants](constants.md) (%d)\n", len(fns), len(consts))

	return r.writePage("index.md", b.String())
}
