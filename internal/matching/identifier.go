package matching

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	// listSeparators splits cells that carry several identifiers,
	// e.g. "24-5-072, 24-5-073".
	listSeparators = regexp.MustCompile(`[,/]+`)

	// trailingSuffix is a separator followed by an alphanumeric run at the
	// end of an identifier, e.g. "-quie1" in "24-5-072-quie1".
	trailingSuffix = regexp.MustCompile(`[-_/]([\p{L}\p{N}]+)$`)
)

// Normalize returns the canonical form of an identifier: NFKC-normalized,
// case-folded, internal whitespace collapsed to single spaces, trimmed.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)

	return strings.Join(strings.Fields(s), " ")
}

// Variants returns the canonical form of s followed by every identifier that
// can be derived from it by splitting on commas, slashes and whitespace, or by
// stripping a trailing letter-bearing suffix. Words split off on whitespace
// only count when they look like an identifier (see isIdentifierToken). Numeric-only suffixes such as
// "-072" are structural and never stripped.
//
// The result is closed under Variants: applying it to any member yields a
// subset of the original result.
func Variants(s string) []string {
	canonical := Normalize(s)
	if canonical == "" {
		return nil
	}

	seen := map[string]struct{}{canonical: {}}
	out := []string{canonical}
	queue := []string{canonical}

	add := func(v string) {
		v = Normalize(v)
		if v == "" {
			return
		}

		if _, dup := seen[v]; dup {
			return
		}

		seen[v] = struct{}{}
		out = append(out, v)
		queue = append(queue, v)
	}

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]

		for _, token := range tokens(v) {
			add(token)
		}

		if stripped, ok := stripSuffix(v); ok {
			add(stripped)
		}
	}

	return out
}

// Ladders groups the variants of s for exact lookup. The first ladder is the
// cell as written; each further ladder is one identifier split out of a
// multi-identifier cell. Rungs run from most to least specific, so the first
// rung that hits is the one to credit.
func Ladders(s string) [][]string {
	canonical := Normalize(s)
	if canonical == "" {
		return nil
	}

	out := [][]string{ladder(canonical)}

	for _, token := range tokens(canonical) {
		if token == canonical {
			continue
		}

		out = append(out, ladder(token))
	}

	return out
}

// ladder is s followed by each successive suffix strip of s.
func ladder(s string) []string {
	out := []string{s}

	for {
		stripped, ok := stripSuffix(s)
		if !ok {
			return out
		}

		out = append(out, stripped)
		s = stripped
	}
}

// tokens splits s into the identifiers it lists. Comma and slash parts are
// kept as they are; a part holding several words also yields the words that
// pass isIdentifierToken.
func tokens(s string) []string {
	var out []string

	for _, part := range listSeparators.Split(s, -1) {
		part = Normalize(part)
		if part == "" {
			continue
		}

		out = append(out, part)

		words := strings.Fields(part)
		if len(words) < 2 {
			continue
		}

		for _, w := range words {
			if isIdentifierToken(w) {
				out = append(out, w)
			}
		}
	}

	return lo.Uniq(out)
}

// isIdentifierToken keeps plain words ("campus") and short fragments ("1")
// out of the index: a whitespace-split token needs a digit and at least
// DefaultMinFuzzyLength characters.
func isIdentifierToken(w string) bool {
	return utf8.RuneCountInString(w) >= DefaultMinFuzzyLength && strings.ContainsFunc(w, unicode.IsDigit)
}

// stripSuffix removes one trailing separator-delimited suffix, but only when
// the suffix contains a letter and something is left afterwards.
func stripSuffix(s string) (string, bool) {
	loc := trailingSuffix.FindStringSubmatchIndex(s)
	if loc == nil {
		return "", false
	}

	if !strings.ContainsFunc(s[loc[2]:loc[3]], unicode.IsLetter) {
		return "", false
	}

	rest := strings.TrimSpace(s[:loc[0]])
	if rest == "" {
		return "", false
	}

	return rest, true
}
