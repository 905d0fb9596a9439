// FILE: rtlog/redact/redact.go
// Package redact masks sensitive key=value fragments in log messages using
// patterns compiled once per keyword list and reused across calls.
package redact

import (
	"regexp"
	"strings"
)

// Mask is the fixed token substituted for a matched value
const Mask = "***FILTERED***"

// Redactor holds one compiled pattern per configured keyword. Patterns are
// applied in keyword declaration order; when a value matches two keyword
// patterns at once (e.g. "password=token=1"), the earlier keyword wins
// because its pattern consumes the whole non-whitespace run.
type Redactor struct {
	keywords []string
	patterns []*regexp.Regexp
}

// New compiles a redactor from the keyword list. Blank keywords are skipped;
// declaration order is preserved.
func New(keywords ...string) *Redactor {
	r := &Redactor{
		keywords: make([]string, 0, len(keywords)),
		patterns: make([]*regexp.Regexp, 0, len(keywords)),
	}
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		// Matches "keyword=<non-whitespace-run>", case-insensitive on the
		// keyword, anchored at a word boundary so a keyword embedded in a
		// longer identifier ("mypassword=x") is not treated as a match.
		prefix := ""
		if isWordByte(kw[0]) {
			prefix = `\b`
		}
		p, err := regexp.Compile(`(?i)` + prefix + regexp.QuoteMeta(kw) + `=\S+`)
		if err != nil {
			continue
		}
		r.keywords = append(r.keywords, kw)
		r.patterns = append(r.patterns, p)
	}
	return r
}

// Redact replaces every "keyword=value" match with "keyword=***FILTERED***".
// A message with no matching keyword is returned unchanged. MatchString is
// checked before ReplaceAllString so non-matching patterns pay no
// replacement cost.
func (r *Redactor) Redact(message string) string {
	if r == nil || message == "" || len(r.patterns) == 0 {
		return message
	}
	for i, p := range r.patterns {
		if !p.MatchString(message) {
			continue
		}
		message = p.ReplaceAllString(message, r.keywords[i]+"="+Mask)
	}
	return message
}

// isWordByte reports whether \b applies before the byte: the boundary
// anchor only makes sense when the keyword starts with a word character.
func isWordByte(c byte) bool {
	return c == '_' ||
		('0' <= c && c <= '9') ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z')
}

// Keywords returns the compiled keyword list in declaration order
func (r *Redactor) Keywords() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keywords))
	copy(out, r.keywords)
	return out
}
