package introspect

import (
	"strings"

	"github.com/docweave/docweave/internal/inherit"
)

// MembersOf returns the canonical member record for a class-like symbol.
func (idx *Index) MembersOf(fqn string) (*ClassInfo, bool) {
	return idx.Class(fqn)
}

// AncestorsOf returns the ordered superclass chain and the interfaces
// reachable from fqn, nearest first. Unknown classes yield an empty
// ancestry.
func (idx *Index) AncestorsOf(fqn string) Ancestry {
	var anc Ancestry
	seen := map[string]bool{}

	cls, ok := idx.Class(fqn)
	if !ok {
		return anc
	}

	var collectInterfaces func(info *ClassInfo)
	collectInterfaces = func(info *ClassInfo) {
		for _, iface := range info.Interfaces {
			key := strings.ToLower(iface)
			if seen[key] {
				continue
			}
			seen[key] = true
			anc.Interfaces = append(anc.Interfaces, iface)
			if ic, ok := idx.Class(iface); ok {
				collectInterfaces(ic)
			}
		}
	}

	collectInterfaces(cls)
	visited := map[string]bool{strings.ToLower(cls.Name): true}
	for parent := cls.Parent; parent != ""; {
		key := strings.ToLower(parent)
		if visited[key] {
			break
		}
		visited[key] = true
		anc.Superclasses = append(anc.Superclasses, parent)
		pc, ok := idx.Class(parent)
		if !ok {
			break
		}
		collectInterfaces(pc)
		parent = pc.Parent
	}
	return anc
}

// DocCommentOf returns the raw doc comment of the referenced symbol or
// member, ok=false when the symbol is unknown.
func (idx *Index) DocCommentOf(ref inherit.MemberRef) (string, bool) {
	cls, ok := idx.Class(ref.Class)
	if !ok {
		return "", false
	}
	if ref.Kind == inherit.KindClass {
		return cls.Doc, true
	}
	if m := memberOf(cls, ref.Kind, ref.Member); m != nil {
		return m.Doc, true
	}
	return "", false
}

// NearestDocAncestor implements inherit.AncestorLookup.
//
// For class references the superclass chain is walked past classes without a
// doc comment. For members the superclass chain is walked first, stopping at
// the first class that declares the same member and carries a doc comment;
// only when that finds nothing are declared interfaces walked, recursing
// into an interface's own ancestors when its member lacks a comment.
func (idx *Index) NearestDocAncestor(ref inherit.MemberRef) (inherit.Ancestor, bool) {
	cls, ok := idx.Class(ref.Class)
	if !ok {
		return inherit.Ancestor{}, false
	}

	if ref.Kind == inherit.KindClass {
		visited := map[string]bool{strings.ToLower(cls.Name): true}
		for parent := cls.Parent; parent != ""; {
			key := strings.ToLower(parent)
			if visited[key] {
				break
			}
			visited[key] = true
			pc, ok := idx.Class(parent)
			if !ok {
				break
			}
			if pc.Doc != "" {
				return inherit.Ancestor{
					Ref: inherit.MemberRef{Class: pc.Name, Kind: inherit.KindClass},
					Doc: pc.Doc,
				}, true
			}
			parent = pc.Parent
		}
		return inherit.Ancestor{}, false
	}

	// Superclass chain first.
	visited := map[string]bool{strings.ToLower(cls.Name): true}
	chain := []*ClassInfo{cls}
	for parent := cls.Parent; parent != ""; {
		key := strings.ToLower(parent)
		if visited[key] {
			break
		}
		visited[key] = true
		pc, ok := idx.Class(parent)
		if !ok {
			break
		}
		chain = append(chain, pc)
		if m := memberOf(pc, ref.Kind, ref.Member); m != nil && m.Doc != "" {
			return inherit.Ancestor{
				Ref: inherit.MemberRef{Class: pc.Name, Kind: ref.Kind, Member: m.Name},
				Doc: m.Doc,
			}, true
		}
		parent = pc.Parent
	}

	// Then interfaces, declared order, recursing through interface
	// extension. Interfaces declared on the class are checked before those
	// declared on its superclasses.
	seen := map[string]bool{}
	var walkInterfaces func(info *ClassInfo) (inherit.Ancestor, bool)
	walkInterfaces = func(info *ClassInfo) (inherit.Ancestor, bool) {
		for _, iface := range info.Interfaces {
			key := strings.ToLower(iface)
			if seen[key] {
				continue
			}
			seen[key] = true
			ic, ok := idx.Class(iface)
			if !ok {
				continue
			}
			if m := memberOf(ic, ref.Kind, ref.Member); m != nil && m.Doc != "" {
				return inherit.Ancestor{
					Ref: inherit.MemberRef{Class: ic.Name, Kind: ref.Kind, Member: m.Name},
					Doc: m.Doc,
				}, true
			}
			if a, ok := walkInterfaces(ic); ok {
				return a, true
			}
		}
		return inherit.Ancestor{}, false
	}
	for _, info := range chain {
		if a, ok := walkInterfaces(info); ok {
			return a, true
		}
	}
	return inherit.Ancestor{}, false
}

// memberOf finds a declared member of the given kind. Method names compare
// case-insensitively, as PHP does.
func memberOf(cls *ClassInfo, kind inherit.Kind, name string) *MemberInfo {
	switch kind {
	case inherit.KindConstant:
		for _, m := range cls.Constants {
			if m.Name == name {
				return m
			}
		}
	case inherit.KindProperty:
		for _, m := range cls.Properties {
			if m.Name == name {
				return m
			}
		}
	case inherit.KindMethod:
		for _, m := range cls.Methods {
			if strings.EqualFold(m.Name, name) {
				return m
			}
		}
	}
	return nil
}
