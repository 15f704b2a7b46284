package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// attributePrefixes are the labels that can be merged with their value
// into a single text node on new-vehicle pages ("Двигатель2.0 л").
// Matching is by exact prefix; an unknown prefix leaves the text as is.
var attributePrefixes = []string{
	"Год выпуска",
	"Двигатель",
	"Коробка",
	"Цвет",
	"Привод",
}

// extractText returns the trimmed text of a selection, or def when the
// selection matched nothing. It never fails: a missing node is a
// defaulted field, not an error.
//
// With secondText set, a known label prefix is stripped from the text,
// leaving only the value segment of a merged label/value node.
func extractText(s *goquery.Selection, def string, secondText bool) string {
	if s == nil || s.Length() == 0 {
		return def
	}

	full := strings.TrimSpace(s.First().Text())
	if !secondText {
		return full
	}

	for _, prefix := range attributePrefixes {
		if strings.HasPrefix(full, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(full, prefix))
		}
	}
	return full
}
