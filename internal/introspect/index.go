// Package introspect builds the type/member index the rest of the tool
// treats as an oracle: canonical member lists, modifiers, parameter and
// return types, and the parent/interface relations used for documentation
// inheritance.
//
// The structural scanner deliberately stays lexical; this package is where
// the syntax tree lives. Units are parsed with tree-sitter and the class
// hierarchy is held in a directed graph that rejects cycles up front.
package introspect

import (
	"fmt"
	"strings"

	"github.com/dominikbraun/graph"
	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/docweave/docweave/internal/aliases"
)

// ClassInfo is the canonical record for one class-like declaration.
type ClassInfo struct {
	Name       string // rooted FQN in declared casing
	Kind       string // class, interface, trait, enum
	Doc        string
	Parent     string   // rooted FQN of the superclass, empty for none
	Interfaces []string // implements for classes, extends for interfaces
	Modifiers  []string

	Constants  []*MemberInfo
	Properties []*MemberInfo
	Methods    []*MemberInfo
}

// MemberInfo is one declared member.
type MemberInfo struct {
	Name       string
	Doc        string
	Modifiers  []string
	Type       string // property/constant type text, if declared
	Value      string // constant value text
	Params     []ParamInfo
	ReturnType string
}

// ParamInfo is one declared parameter.
type ParamInfo struct {
	Name string
	Type string
}

// Ancestry is the ordered ancestor view of one class: the superclass chain
// nearest-first, and the declared interfaces in discovery order including
// those contributed by superclasses and interface extension.
type Ancestry struct {
	Superclasses []string
	Interfaces   []string
}

// Index accumulates class records per unit and answers oracle queries. Not
// safe for concurrent mutation; the engine adds units sequentially after the
// parallel scan phase.
type Index struct {
	language *sitter.Language
	classes  map[string]*ClassInfo // keyed by lowercased rooted FQN
	order    []string
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		language: sitter.NewLanguage(php.LanguagePHP()),
		classes:  make(map[string]*ClassInfo),
	}
}

// AddUnit parses one source unit and records its class-like declarations.
// The unit's alias table resolves heritage names to fully qualified form.
func (idx *Index) AddUnit(path string, src []byte, table *aliases.Table) error {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(idx.language)

	tree := parser.Parse(src, nil)
	if tree == nil {
		return fmt.Errorf("failed to parse %s", path)
	}
	defer tree.Close()

	u := &unitContext{src: src, table: table}
	idx.walkScope(tree.RootNode(), u)
	return nil
}

// unitContext carries per-unit extraction state.
type unitContext struct {
	src    []byte
	table  *aliases.Table
	prefix string
}

// walkScope visits program and namespace-body nodes, dispatching class-like
// declarations at the current namespace prefix.
func (idx *Index) walkScope(node *sitter.Node, u *unitContext) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		switch child.Kind() {
		case "namespace_definition":
			prev := u.prefix
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				u.prefix = strings.Trim(nodeText(nameNode, u.src), "\\")
			} else {
				u.prefix = ""
			}
			if body := child.ChildByFieldName("body"); body != nil {
				idx.walkScope(body, u)
				u.prefix = prev
			}
		case "class_declaration":
			idx.addClassLike(child, u, "class")
		case "interface_declaration":
			idx.addClassLike(child, u, "interface")
		case "trait_declaration":
			idx.addClassLike(child, u, "trait")
		case "enum_declaration":
			idx.addClassLike(child, u, "enum")
		}
	}
}

func (idx *Index) addClassLike(node *sitter.Node, u *unitContext, kind string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, u.src)
	info := &ClassInfo{
		Name:      qualify(u.prefix, name),
		Kind:      kind,
		Doc:       docCommentBefore(node, u.src),
		Modifiers: modifiersOf(node, u.src),
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		switch child.Kind() {
		case "base_clause":
			names := clauseNames(child, u)
			if kind == "interface" {
				// Interfaces extend multiple interfaces.
				info.Interfaces = append(info.Interfaces, names...)
			} else if len(names) > 0 {
				info.Parent = names[0]
			}
		case "class_interface_clause":
			info.Interfaces = append(info.Interfaces, clauseNames(child, u)...)
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		idx.addMembers(body, u, info)
	}

	key := strings.ToLower(info.Name)
	if _, exists := idx.classes[key]; !exists {
		idx.order = append(idx.order, key)
	}
	idx.classes[key] = info
}

func (idx *Index) addMembers(body *sitter.Node, u *unitContext, info *ClassInfo) {
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		switch child.Kind() {
		case "const_declaration":
			doc := docCommentBefore(child, u.src)
			for j := 0; j < int(child.ChildCount()); j++ {
				el := child.Child(uint(j))
				if el.Kind() != "const_element" {
					continue
				}
				nameNode := el.ChildByFieldName("name")
				if nameNode == nil {
					nameNode = firstChildOfKind(el, "name")
				}
				if nameNode == nil {
					continue
				}
				m := &MemberInfo{
					Name:      nodeText(nameNode, u.src),
					Doc:       doc,
					Modifiers: modifiersOf(child, u.src),
				}
				if valueNode := el.ChildByFieldName("value"); valueNode != nil {
					m.Value = nodeText(valueNode, u.src)
				}
				info.Constants = append(info.Constants, m)
			}
		case "property_declaration":
			doc := docCommentBefore(child, u.src)
			mods := modifiersOf(child, u.src)
			typeText := ""
			if typeNode := child.ChildByFieldName("type"); typeNode != nil {
				typeText = nodeText(typeNode, u.src)
			}
			for j := 0; j < int(child.ChildCount()); j++ {
				el := child.Child(uint(j))
				if el.Kind() != "property_element" {
					continue
				}
				varNode := firstChildOfKind(el, "variable_name")
				if varNode == nil {
					continue
				}
				info.Properties = append(info.Properties, &MemberInfo{
					Name:      strings.TrimPrefix(nodeText(varNode, u.src), "$"),
					Doc:       doc,
					Modifiers: mods,
					Type:      typeText,
				})
			}
		case "method_declaration":
			m := methodInfo(child, u)
			if m != nil {
				info.Methods = append(info.Methods, m)
			}
		case "enum_case":
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			info.Constants = append(info.Constants, &MemberInfo{
				Name: nodeText(nameNode, u.src),
				Doc:  docCommentBefore(child, u.src),
			})
		}
	}
}

func methodInfo(node *sitter.Node, u *unitContext) *MemberInfo {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	m := &MemberInfo{
		Name:      nodeText(nameNode, u.src),
		Doc:       docCommentBefore(node, u.src),
		Modifiers: modifiersOf(node, u.src),
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		m.ReturnType = nodeText(ret, u.src)
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.ChildCount()); i++ {
			p := params.Child(uint(i))
			switch p.Kind() {
			case "simple_parameter", "property_promotion_parameter", "variadic_parameter":
				param := ParamInfo{}
				if t := p.ChildByFieldName("type"); t != nil {
					param.Type = nodeText(t, u.src)
				}
				if n := p.ChildByFieldName("name"); n != nil {
					param.Name = nodeText(n, u.src)
				}
				m.Params = append(m.Params, param)
			}
		}
	}
	return m
}

// clauseNames resolves the names of a heritage clause (extends/implements)
// to rooted fully qualified form through the unit's alias table.
func clauseNames(clause *sitter.Node, u *unitContext) []string {
	var out []string
	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(uint(i))
		switch child.Kind() {
		case "name", "qualified_name":
			out = append(out, resolveTypeName(nodeText(child, u.src), u))
		}
	}
	return out
}

// resolveTypeName turns a source-level type name into a rooted FQN: already
// rooted names pass through, aliased first segments expand through the use
// table, and everything else is qualified by the active namespace.
func resolveTypeName(name string, u *unitContext) string {
	if strings.HasPrefix(name, "\\") {
		return "\\" + strings.Trim(name, "\\")
	}
	first := name
	rest := ""
	if i := strings.IndexByte(name, '\\'); i >= 0 {
		first = name[:i]
		rest = name[i:]
	}
	if u.table != nil {
		if target, ok := u.table.TargetFor(aliases.UseType, first); ok {
			return "\\" + target + rest
		}
	}
	return qualify(u.prefix, name)
}

func qualify(prefix, name string) string {
	name = strings.Trim(name, "\\")
	if prefix == "" {
		return "\\" + name
	}
	return "\\" + prefix + "\\" + name
}

// Verify checks the recorded hierarchy for cycles, using a directed graph
// that refuses cycle-creating edges. A sound codebase never trips this; a
// misreporting or adversarial input fails here with the offending classes
// named instead of hanging the resolver later.
func (idx *Index) Verify() error {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())
	for key := range idx.classes {
		_ = g.AddVertex(key)
	}
	for key, info := range idx.classes {
		var parents []string
		if info.Parent != "" {
			parents = append(parents, strings.ToLower(info.Parent))
		}
		for _, iface := range info.Interfaces {
			parents = append(parents, strings.ToLower(iface))
		}
		for _, parent := range parents {
			if _, exists := idx.classes[parent]; !exists {
				continue // external ancestor, nothing to check
			}
			if err := g.AddEdge(key, parent); err != nil {
				if err == graph.ErrEdgeAlreadyExists {
					continue
				}
				return fmt.Errorf("inheritance cycle involving %s and %s: %w", info.Name, parent, err)
			}
		}
	}
	return nil
}

// Class returns the record for a rooted (or unrooted) FQN, matching PHP's
// case-insensitive class names.
func (idx *Index) Class(fqn string) (*ClassInfo, bool) {
	key := strings.ToLower("\\" + strings.Trim(fqn, "\\"))
	info, ok := idx.classes[key]
	return info, ok
}

// Classes returns every indexed class in first-seen order.
func (idx *Index) Classes() []*ClassInfo {
	out := make([]*ClassInfo, 0, len(idx.order))
	for _, key := range idx.order {
		out = append(out, idx.classes[key])
	}
	return out
}

// Len reports the number of indexed classes.
func (idx *Index) Len() int { return len(idx.classes) }

func nodeText(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	return string(src[node.StartByte():node.EndByte()])
}

func firstChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// docCommentBefore returns the documentation comment immediately preceding
// node, if any.
func docCommentBefore(node *sitter.Node, src []byte) string {
	prev := node.PrevSibling()
	if prev == nil {
		return ""
	}
	if prev.Kind() != "comment" {
		return ""
	}
	text := nodeText(prev, src)
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	return text
}

// modifiersOf collects declaration modifiers in source order.
func modifiersOf(node *sitter.Node, src []byte) []string {
	var mods []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		switch child.Kind() {
		case "visibility_modifier", "static_modifier", "abstract_modifier",
			"final_modifier", "readonly_modifier", "var_modifier":
			mods = append(mods, nodeText(child, src))
		}
	}
	return mods
}
