// Package price implements the VAT adjustment applied to extracted
// listing prices.
package price

import (
	"math"
	"strconv"
	"strings"

	apperr "avkuzmin/caroffer/pkg/errors"
)

// vatRate is the multiplicative VAT adjustment
const vatRate = 1.20

// ApplyVAT parses a human-formatted price, multiplies it by the VAT rate
// and re-formats the result with a space as the thousands separator.
//
// The operation is one-way: applying it twice doubles the adjustment, so
// the caller tracks whether VAT has already been added.
func ApplyVAT(raw string) (string, error) {
	digits := keepDigits(raw)
	if digits == "" {
		return "", apperr.NewPrice("price contains no digits: " + strconv.Quote(raw))
	}

	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return "", apperr.NewPrice("price is not a valid number: " + strconv.Quote(raw))
	}

	adjusted := int64(math.Round(float64(value) * vatRate))
	return groupThousands(adjusted), nil
}

// keepDigits strips every non-digit rune from s
func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// groupThousands formats n with a space between each group of three digits
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)

	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	groups = append([]string{s}, groups...)

	return strings.Join(groups, " ")
}
