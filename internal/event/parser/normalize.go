// Package parser holds the pure text heuristics of the extraction pipeline:
// normalization, company-name extraction, event classification, date/time
// extraction and dedup-key computation. Nothing in here touches storage.
package parser

import (
	"regexp"
	"strings"
)

var (
	leadingBracketsRe  = regexp.MustCompile(`^[【\[\(（]+`)
	trailingBracketsRe = regexp.MustCompile(`[】\]\)）]+$`)
)

// Clean strips the decoration recruiting mail tends to carry: full-width
// spaces, surrounding quotes, and leading/trailing runs of bracket
// punctuation.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "　", " ")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'“”‘’`)
	s = leadingBracketsRe.ReplaceAllString(s, "")
	s = trailingBracketsRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
