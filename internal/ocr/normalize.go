package ocr

import (
	"regexp"
	"strings"
)

var (
	reCRLF          = regexp.MustCompile(`\r\n?`)
	reTrailingSpace = regexp.MustCompile(`(?m)[ \t]+$`)
)

// NormalizeText cleans engine output before it is scored: unified line
// endings, no form feeds or tabs, no trailing blanks.
func NormalizeText(s string) string {
	s = reCRLF.ReplaceAllString(s, "\n")
	s = strings.ReplaceAll(s, "\f", "")
	s = strings.ReplaceAll(s, "\t", " ")
	s = reTrailingSpace.ReplaceAllString(s, "")
	return strings.TrimRight(s, "\n")
}
