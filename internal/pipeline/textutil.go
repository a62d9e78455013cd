package pipeline

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PDF extractors emit no-break and narrow no-break spaces where the
// document shows ordinary spacing.
var exoticSpaces = strings.NewReplacer(" ", " ", " ", " ")

// normalizeSpaces rewrites exotic space characters to plain spaces.
// Newlines are preserved: the segment regexes depend on them.
func normalizeSpaces(text string) string {
	return exoticSpaces.Replace(text)
}

var spaceRun = regexp.MustCompile(`\s+`)

// foldText lowercases text with diacritics and ligatures stripped and
// whitespace collapsed, for keyword searches that must not depend on how
// the PDF encoded accents.
func foldText(text string) string {
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(fold, text)
	if err != nil {
		folded = text
	}
	folded = spaceRun.ReplaceAllString(folded, " ")
	return strings.ToLower(strings.TrimSpace(folded))
}

// tryPatterns returns the submatches of the first pattern that matches,
// honoring the primary-then-fallback extraction order.
func tryPatterns(text string, patterns []*regexp.Regexp) []string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m
		}
	}
	return nil
}

// blockAfter locates the first match of start and returns the text that
// follows it, cut at the earliest match of any stop pattern. The boolean is
// false when start does not match. Stop markers substitute for lookahead,
// which Go's regexp syntax does not have.
func blockAfter(text string, start *regexp.Regexp, stops []*regexp.Regexp) (string, bool) {
	loc := start.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := text[loc[1]:]
	cut := len(rest)
	for _, stop := range stops {
		if sl := stop.FindStringIndex(rest); sl != nil && sl[0] < cut {
			cut = sl[0]
		}
	}
	return rest[:cut], true
}

var digitRun = regexp.MustCompile(`\d+`)

// digitTokens extracts every run of digits in order.
func digitTokens(text string) []string {
	return digitRun.FindAllString(text, -1)
}

// dedupeNumeric keeps purely numeric tokens, first occurrence wins.
func dedupeNumeric(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" || !isDigits(tok) || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
