// Package parser turns raw classifieds markup into canonical listings.
// Each supported site has its own normalizer behind the Parser
// interface; selection happens by URL at the boundary.
package parser

import (
	"strings"

	"avkuzmin/caroffer/internal/listing"
	apperr "avkuzmin/caroffer/pkg/errors"
)

// Parser is the contract implemented by every site normalizer
type Parser interface {
	// Site returns the site name for logging and error tagging
	Site() string

	// Parse extracts a canonical listing from page markup
	Parse(pageURL string, body []byte) (*listing.Listing, error)
}

// ForURL selects the parser responsible for the given listing URL
func ForURL(pageURL string) (Parser, error) {
	switch {
	case strings.Contains(pageURL, "auto.ru"):
		return NewAutoRu(), nil
	case strings.Contains(pageURL, "drom.ru"):
		return NewDrom(), nil
	}
	return nil, apperr.NewExtraction("", "no parser registered for URL "+pageURL)
}

// absoluteURL rewrites protocol-relative URLs to explicit https
func absoluteURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
