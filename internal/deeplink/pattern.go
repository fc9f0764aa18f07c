package deeplink

import (
	"net/url"
	"strings"
)

type tokenKind int

const (
	literalToken tokenKind = iota
	paramToken
	wildcardToken
)

type token struct {
	kind  tokenKind
	value string // literal text or parameter name
}

// Params holds values captured from a path and its query.
type Params map[string]string

// Get returns the named value, or "" if absent.
func (p Params) Get(name string) string {
	return p[name]
}

// Pattern is a compiled path template. Patterns are immutable and safe for
// concurrent use.
type Pattern struct {
	template string
	tokens   []token
	wildcard bool
}

// Compile tokenizes template. Empty segments are ignored, so "/a/b",
// "a/b" and "/a/b/" compile to the same pattern.
func Compile(template string) (*Pattern, error) {
	p := &Pattern{template: template}
	for _, seg := range splitPath(template) {
		switch {
		case seg == "*":
			p.tokens = append(p.tokens, token{kind: wildcardToken})
			p.wildcard = true
		case strings.HasPrefix(seg, ":"):
			name := seg[1:]
			if name == "" {
				return nil, &PatternError{Template: template, Segment: seg, Message: "parameter name is empty"}
			}
			p.tokens = append(p.tokens, token{kind: paramToken, value: name})
		default:
			p.tokens = append(p.tokens, token{kind: literalToken, value: seg})
		}
	}
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(template string) *Pattern {
	p, err := Compile(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Template returns the source template.
func (p *Pattern) Template() string {
	return p.template
}

// String implements fmt.Stringer.
func (p *Pattern) String() string {
	return p.template
}

// Match matches a concrete path, such as "/products/123". Segments are
// compared raw; percent-escapes are not decoded.
func (p *Pattern) Match(path string) (Params, bool) {
	segs := splitPath(path)
	if !p.wildcard && len(segs) != len(p.tokens) {
		return nil, false
	}

	params := Params{}
	for i, tok := range p.tokens {
		if tok.kind == wildcardToken {
			return params, true
		}
		if i >= len(segs) {
			return nil, false
		}
		switch tok.kind {
		case literalToken:
			if segs[i] != tok.value {
				return nil, false
			}
		case paramToken:
			params[tok.value] = segs[i]
		}
	}
	return params, true
}

// MatchURL matches u's escaped path, then merges u's query into the
// captured params. Query keys overwrite path captures; for a repeated
// query key the last value wins.
func (p *Pattern) MatchURL(u *url.URL) (Params, bool) {
	params, ok := p.Match(u.EscapedPath())
	if !ok {
		return nil, false
	}
	for key, values := range u.Query() {
		if len(values) > 0 {
			params[key] = values[len(values)-1]
		}
	}
	return params, true
}

// splitPath splits on "/" and drops empty segments.
func splitPath(path string) []string {
	raw := strings.Split(path, "/")
	segs := raw[:0]
	for _, s := range raw {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
