package domain

import (
	"regexp"

	"go.trai.ch/zerr"
)

// PatternKind distinguishes literal target patterns from regex ones.
type PatternKind uint8

const (
	// PatternLiteral matches a single target name by exact equality.
	PatternLiteral PatternKind = iota
	// PatternRegex matches any target name the anchored expression accepts.
	PatternRegex
)

// String returns the name used in rule files and listings.
func (k PatternKind) String() string {
	if k == PatternRegex {
		return "regex"
	}
	return "literal"
}

// Captures holds the ordered sub-matches of a regex pattern.
type Captures []string

// TargetPattern is either a literal name or a regex with capture groups.
// The zero value is not usable; construct with LiteralPattern or RegexPattern.
type TargetPattern struct {
	kind PatternKind
	expr string
	re   *regexp.Regexp
}

// LiteralPattern returns a pattern matching exactly name.
func LiteralPattern(name string) TargetPattern {
	return TargetPattern{kind: PatternLiteral, expr: name}
}

// RegexPattern compiles expr so that it must match an entire target name.
func RegexPattern(expr string) (TargetPattern, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return TargetPattern{}, zerr.With(zerr.Wrap(err, ErrInvalidPattern.Error()), "pattern", expr)
	}
	return TargetPattern{kind: PatternRegex, expr: expr, re: re}, nil
}

// MustRegexPattern is like RegexPattern but panics on an invalid expression.
func MustRegexPattern(expr string) TargetPattern {
	p, err := RegexPattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Kind reports whether the pattern is literal or regex.
func (p TargetPattern) Kind() PatternKind {
	return p.kind
}

// String returns the pattern as written by the user.
func (p TargetPattern) String() string {
	return p.expr
}

// Groups returns how many capture groups a successful match produces.
func (p TargetPattern) Groups() int {
	if p.re == nil {
		return 0
	}
	return p.re.NumSubexp()
}

// Match reports whether the pattern accepts the whole of name.
// Literal patterns never capture; regex captures are returned in group order,
// with "" for optional groups that did not participate.
func (p TargetPattern) Match(name string) (Captures, bool) {
	switch p.kind {
	case PatternRegex:
		if p.re == nil {
			return nil, false
		}
		m := p.re.FindStringSubmatch(name)
		if m == nil {
			return nil, false
		}
		return Captures(m[1:]), true
	default:
		if name != p.expr {
			return nil, false
		}
		return Captures{}, true
	}
}
