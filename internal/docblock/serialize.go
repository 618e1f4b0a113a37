package docblock

import "strings"

// Compose builds a DocBlock from already-resolved parts. The inheritance
// resolver uses it to assemble merged comments without mutating the blocks it
// merged from. Summary and description become the first and second text
// blocks; empty parts are omitted.
func Compose(summary, description string, params, returns, throws, vars, markers, others []Tag) *DocBlock {
	d := &DocBlock{
		Params:  append([]Tag(nil), params...),
		Returns: append([]Tag(nil), returns...),
		Throws:  append([]Tag(nil), throws...),
		Vars:    append([]Tag(nil), vars...),
		Markers: append([]Tag(nil), markers...),
		Others:  append([]Tag(nil), others...),
	}
	summary = strings.TrimSpace(summary)
	description = strings.TrimSpace(description)
	if summary != "" {
		d.textBlocks = append(d.textBlocks, summary)
	}
	if description != "" {
		d.textBlocks = append(d.textBlocks, description)
	}
	return d
}

// String re-serializes the block in canonical order: summary, description,
// parameter tags, return tag, throws tags, then remaining tags — with blank
// separators collapsed when a section is absent.
func (d *DocBlock) String() string {
	var sections []string
	if s := d.Summary(); s != "" {
		sections = append(sections, s)
	}
	if desc := d.Description(); desc != "" {
		sections = append(sections, desc)
	}
	if len(d.Params) > 0 {
		sections = append(sections, joinTags(d.Params))
	}
	if len(d.Returns) > 0 {
		sections = append(sections, joinTags(d.Returns))
	}
	if len(d.Throws) > 0 {
		sections = append(sections, joinTags(d.Throws))
	}
	var rest []Tag
	rest = append(rest, d.Vars...)
	rest = append(rest, d.Markers...)
	rest = append(rest, d.Others...)
	if len(rest) > 0 {
		sections = append(sections, joinTags(rest))
	}
	return strings.Join(sections, "\n\n")
}

func joinTags(tags []Tag) string {
	lines := make([]string, 0, len(tags))
	for _, t := range tags {
		lines = append(lines, t.String())
	}
	return strings.Join(lines, "\n")
}

// String renders the tag back to its source form.
func (t Tag) String() string {
	parts := []string{"@" + t.Name}
	if t.Type != "" {
		parts = append(parts, t.Type)
	}
	if t.Var != "" {
		parts = append(parts, t.Var)
	}
	if t.Description != "" {
		parts = append(parts, t.Description)
	}
	return strings.Join(parts, " ")
}
