// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\w -]+`)
	separatorRe  = regexp.MustCompile(`[ -]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	edgeDashRe   = regexp.MustCompile(`^-+|-+$`)
)

// foldAccents lower-cases s, decomposes it (NFD) and drops combining marks,
// so "Niño" becomes "nino".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		// transform only fails on invalid UTF-8 input; keep the lower-cased text
		return strings.ToLower(s)
	}
	return folded
}

// Make derives a URL-safe slug from an article title.
//
// Only ASCII word characters survive. Runs of spaces and hyphens become a
// single hyphen and leading/trailing hyphens are trimmed, which keeps Make
// idempotent: Make(Make(t)) == Make(t).
func Make(title string) string {
	s := foldAccents(title)
	s = nonWordRe.ReplaceAllString(s, "")
	s = separatorRe.ReplaceAllString(s, "-")
	return edgeDashRe.ReplaceAllString(s, "")
}
