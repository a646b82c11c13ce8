package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// segment is either literal text or a capture reference (index >= 0).
type segment struct {
	text  string
	index int
}

// Template is a prerequisite name with positional placeholders such as {0}.
// Doubled braces ({{ and }}) stand for literal braces.
type Template struct {
	raw      string
	segments []segment
}

// ParseTemplate parses raw into a Template.
func ParseTemplate(raw string) (Template, error) {
	var (
		segments []segment
		text     strings.Builder
	)

	flush := func() {
		if text.Len() > 0 {
			segments = append(segments, segment{text: text.String(), index: -1})
			text.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch c {
		case '{':
			if i+1 < len(raw) && raw[i+1] == '{' {
				text.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(raw[i+1:], '}')
			if end < 0 {
				return Template{}, invalidTemplate(raw, "unclosed '{'")
			}
			digits := raw[i+1 : i+1+end]
			idx, err := strconv.Atoi(digits)
			if err != nil || idx < 0 || digits == "" || digits[0] == '+' || digits[0] == '-' {
				return Template{}, invalidTemplate(raw, "placeholder must be a capture index, got {"+digits+"}")
			}
			flush()
			segments = append(segments, segment{index: idx})
			i += end + 1
		case '}':
			if i+1 < len(raw) && raw[i+1] == '}' {
				text.WriteByte('}')
				i++
				continue
			}
			return Template{}, invalidTemplate(raw, "single '}' outside a placeholder")
		default:
			text.WriteByte(c)
		}
	}
	flush()

	return Template{raw: raw, segments: segments}, nil
}

// MustParseTemplate is like ParseTemplate but panics on a malformed template.
func MustParseTemplate(raw string) Template {
	t, err := ParseTemplate(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTemplates parses every entry of raws, keeping order.
func ParseTemplates(raws []string) ([]Template, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]Template, len(raws))
	for i, raw := range raws {
		t, err := ParseTemplate(raw)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func invalidTemplate(raw, reason string) error {
	return zerr.With(zerr.Wrap(zerr.New(reason), ErrInvalidTemplate.Error()), "template", raw)
}

// String returns the template as written.
func (t Template) String() string {
	return t.raw
}

// MaxIndex returns the highest placeholder index used, or -1 when there is none.
func (t Template) MaxIndex() int {
	highest := -1
	for _, s := range t.segments {
		if s.index > highest {
			highest = s.index
		}
	}
	return highest
}

// Expand substitutes captures into the template for the given target.
func (t Template) Expand(target string, captures Captures) (string, error) {
	var b strings.Builder
	for _, s := range t.segments {
		if s.index < 0 {
			b.WriteString(s.text)
			continue
		}
		if s.index >= len(captures) {
			return "", &TemplateError{
				Target:   target,
				Template: t.raw,
				Index:    s.index,
				Captured: len(captures),
			}
		}
		b.WriteString(captures[s.index])
	}
	return b.String(), nil
}
