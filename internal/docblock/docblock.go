// Package docblock parses PHP documentation comments into a summary, a
// description, and typed tag records.
//
// The grammar is best-effort: a line whose first non-space character is '@'
// starts a tag, and the tag's description continues until the next tag or the
// end of the comment. Everything else is free text, split into blocks at
// blank lines.
package docblock

import (
	"strings"
)

// Tag kinds handled by the model. Unknown tags are preserved under Others so
// the renderer can still show them.
const (
	TagParam      = "param"
	TagReturn     = "return"
	TagThrows     = "throws"
	TagVar        = "var"
	TagDeprecated = "deprecated"
	TagInternal   = "internal"
	TagGenerated  = "generated"
)

// Tag is one parsed documentation tag. Type and Var are filled only for the
// kinds that carry them (@param has both, @return/@throws/@var have Type).
type Tag struct {
	Name        string
	Type        string
	Var         string
	Description string
}

// DocBlock is the parsed form of one documentation comment.
type DocBlock struct {
	// textBlocks holds the non-tag text split at blank lines, in order,
	// with surrounding whitespace trimmed. Empty blocks are dropped.
	textBlocks []string

	Params  []Tag
	Returns []Tag
	Throws  []Tag
	Vars    []Tag
	Markers []Tag // deprecated / internal / generated
	Others  []Tag
}

// Parse parses one raw documentation comment. The input may include the
// comment delimiters and per-line margins; both are stripped first. A nil
// result is never returned: an empty or absent comment parses to an empty
// block.
func Parse(raw string) *DocBlock {
	d := &DocBlock{}
	content := StripDelimiters(raw)
	if content == "" {
		return d
	}

	lines := strings.Split(content, "\n")
	var text []string
	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "@") {
			text = append(text, line)
			i++
			continue
		}
		// Tag line: collect continuation lines until the next tag.
		tagLines := []string{trimmed}
		i++
		for i < len(lines) {
			next := strings.TrimSpace(lines[i])
			if strings.HasPrefix(next, "@") {
				break
			}
			tagLines = append(tagLines, next)
			i++
		}
		d.addTag(parseTag(strings.TrimSpace(strings.Join(tagLines, "\n"))))
	}

	d.textBlocks = splitBlocks(text)
	return d
}

// splitBlocks groups lines into blank-line-separated blocks, dropping blocks
// that are entirely blank.
func splitBlocks(lines []string) []string {
	var blocks []string
	var cur []string
	flush := func() {
		if len(cur) == 0 {
			return
		}
		block := strings.TrimSpace(strings.Join(cur, "\n"))
		if block != "" {
			blocks = append(blocks, block)
		}
		cur = nil
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return blocks
}

// parseTag splits "@kind [type] [$var] description" into a Tag.
func parseTag(s string) Tag {
	s = strings.TrimPrefix(s, "@")
	name := s
	rest := ""
	if idx := strings.IndexAny(s, " \t\n"); idx >= 0 {
		name = s[:idx]
		rest = strings.TrimSpace(s[idx+1:])
	}
	tag := Tag{Name: strings.ToLower(name)}

	switch tag.Name {
	case TagParam:
		// @param type $name description — the type expression may be
		// absent, in which case the variable comes first.
		first, remainder := splitWord(rest)
		if strings.HasPrefix(first, "$") {
			tag.Var = first
			tag.Description = remainder
		} else {
			tag.Type = first
			second, remainder2 := splitWord(remainder)
			if strings.HasPrefix(second, "$") {
				tag.Var = second
				tag.Description = remainder2
			} else {
				tag.Description = remainder
			}
		}
	case TagReturn, TagThrows, TagVar:
		tag.Type, tag.Description = splitWord(rest)
	default:
		tag.Description = rest
	}
	return tag
}

// splitWord returns the first whitespace-delimited word and the trimmed rest.
func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	if idx := strings.IndexAny(s, " \t\n"); idx >= 0 {
		return s[:idx], strings.TrimSpace(s[idx+1:])
	}
	return s, ""
}

func (d *DocBlock) addTag(tag Tag) {
	switch tag.Name {
	case TagParam:
		d.Params = append(d.Params, tag)
	case TagReturn:
		d.Returns = append(d.Returns, tag)
	case TagThrows:
		d.Throws = append(d.Throws, tag)
	case TagVar:
		d.Vars = append(d.Vars, tag)
	case TagDeprecated, TagInternal, TagGenerated:
		d.Markers = append(d.Markers, tag)
	default:
		d.Others = append(d.Others, tag)
	}
}

// Summary returns the first non-empty text block, trimmed. A blank block
// ahead of the first real text never counts as the summary.
func (d *DocBlock) Summary() string {
	if len(d.textBlocks) == 0 {
		return ""
	}
	return d.textBlocks[0]
}

// Description returns every non-empty text block strictly after the summary,
// newline-joined. It is empty until a second non-empty block exists.
func (d *DocBlock) Description() string {
	if len(d.textBlocks) < 2 {
		return ""
	}
	return strings.Join(d.textBlocks[1:], "\n")
}

// IsDeprecated reports whether a @deprecated tag is present, regardless of
// its description text.
func (d *DocBlock) IsDeprecated() bool { return d.hasMarker(TagDeprecated) }

// IsInternal reports whether an @internal tag is present.
func (d *DocBlock) IsInternal() bool { return d.hasMarker(TagInternal) }

// IsGenerated reports whether a @generated tag is present.
func (d *DocBlock) IsGenerated() bool { return d.hasMarker(TagGenerated) }

func (d *DocBlock) hasMarker(name string) bool {
	for _, m := range d.Markers {
		if m.Name == name {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the block carries no text and no tags.
func (d *DocBlock) IsEmpty() bool {
	return len(d.textBlocks) == 0 &&
		len(d.Params) == 0 && len(d.Returns) == 0 && len(d.Throws) == 0 &&
		len(d.Vars) == 0 && len(d.Markers) == 0 && len(d.Others) == 0
}

// StripDelimiters removes the comment delimiters and per-line '*' margins,
// returning the trimmed inner content. Input without delimiters is returned
// trimmed, so callers can pass already-stripped text.
func StripDelimiters(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "*") {
			line = strings.TrimPrefix(line, "*")
			line = strings.TrimPrefix(line, " ")
		}
		lines[i] = line
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
