// Package search owns the search state shared by every find/replace surface of
// an editing session: the compiled pattern, match navigation, replacement, and
// the not-found messages shown to the user.
package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/colonyops/quill/internal/core/document"
)

// matchTimeout bounds a single regex evaluation so a pathological pattern
// cannot freeze the UI loop.
const matchTimeout = 2 * time.Second

// PatternError reports a malformed search expression.
type PatternError struct {
	Query  string // text the user entered
	Detail string // syntax message from the regex engine
	Err    error
}

func (e *PatternError) Error() string {
	return "regexp error: " + e.Detail
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Pattern is a compiled search expression plus its flags.
type Pattern struct {
	query      string
	regex      bool
	ignoreCase bool
	re         *regexp2.Regexp
}

// Compile builds a Pattern from the query. Literal queries are escaped so
// every rune matches itself. A malformed regex returns *PatternError.
func Compile(query string, regex, ignoreCase bool) (*Pattern, error) {
	expr := query
	if !regex {
		expr = regexp2.Escape(query)
	}

	opts := regexp2.RegexOptions(regexp2.Multiline)
	if ignoreCase {
		opts |= regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, &PatternError{Query: query, Detail: err.Error(), Err: err}
	}
	re.MatchTimeout = matchTimeout

	return &Pattern{
		query:      query,
		regex:      regex,
		ignoreCase: ignoreCase,
		re:         re,
	}, nil
}

// Query returns the text the pattern was compiled from.
func (p *Pattern) Query() string { return p.query }

// Regex reports whether the query is a regular expression.
func (p *Pattern) Regex() bool { return p.regex }

// IgnoreCase reports whether matching folds case.
func (p *Pattern) IgnoreCase() bool { return p.ignoreCase }

func (p *Pattern) String() string {
	var flags string
	if p.regex {
		flags += "r"
	}
	if p.ignoreCase {
		flags += "i"
	}
	if flags == "" {
		return fmt.Sprintf("%q", p.query)
	}
	return fmt.Sprintf("%q/%s", p.query, flags)
}

// Same reports whether q describes the same query and flags as p.
func (p *Pattern) Same(q *Pattern) bool {
	if p == nil || q == nil {
		return p == q
	}
	return p.query == q.query && p.regex == q.regex && p.ignoreCase == q.ignoreCase
}

// FindAll returns every non-overlapping match in text, empty matches
// included.
func (p *Pattern) FindAll(text string) []document.Range {
	var out []document.Range
	m, err := p.re.FindStringMatch(text)
	for m != nil && err == nil {
		out = append(out, toRange(m))
		m, err = p.re.FindNextMatch(m)
	}
	return out
}

// Next returns the first match starting at or after from.
func (p *Pattern) Next(text string, from int) (document.Range, bool) {
	runes := []rune(text)
	if from < 0 || from > len(runes) {
		return document.Range{}, false
	}
	m, err := p.re.FindRunesMatchStartingAt(runes, from)
	if err != nil || m == nil {
		return document.Range{}, false
	}
	return toRange(m), true
}

// Prev returns the last match that ends at or before the offset before. An
// empty match sitting on before is not a previous match.
func (p *Pattern) Prev(text string, before int) (document.Range, bool) {
	var (
		last  document.Range
		found bool
	)
	for _, r := range p.FindAll(text) {
		if r.End > before || (r.Empty() && r.Start == before) {
			break
		}
		last, found = r, true
	}
	return last, found
}

// Matches reports whether r is exactly one match of the pattern in text.
func (p *Pattern) Matches(text string, r document.Range) bool {
	if r.Empty() {
		return false
	}
	got, ok := p.Next(text, r.Start)
	return ok && got == r
}

// Expand returns the text that replaces the match at r. Regex patterns expand
// group references such as $1 and ${name}; literal patterns use the
// replacement verbatim.
func (p *Pattern) Expand(text string, r document.Range, replacement string) (string, error) {
	if !p.regex {
		return replacement, nil
	}

	out, err := p.re.Replace(text, replacement, r.Start, 1)
	if err != nil {
		return "", fmt.Errorf("expand replacement: %w", err)
	}

	// Everything outside the match is unchanged, so the expansion is the
	// middle of the result.
	outRunes := []rune(out)
	tail := len([]rune(text)) - r.End
	end := len(outRunes) - tail
	if end < r.Start {
		return "", errors.New("expand replacement: match moved")
	}
	return string(outRunes[r.Start:end]), nil
}

// ReplaceAll substitutes every match in text and returns the result with the
// number of replacements.
func (p *Pattern) ReplaceAll(text, replacement string) (string, int, error) {
	count := len(p.FindAll(text))
	if count == 0 {
		return text, 0, nil
	}

	var (
		out string
		err error
	)
	if p.regex {
		out, err = p.re.Replace(text, replacement, -1, -1)
	} else {
		out, err = p.re.ReplaceFunc(text, func(regexp2.Match) string {
			return replacement
		}, -1, -1)
	}
	if err != nil {
		return "", 0, fmt.Errorf("replace all: %w", err)
	}
	return out, count, nil
}

func toRange(m *regexp2.Match) document.Range {
	return document.Range{Start: m.Index, End: m.Index + m.Length}
}
