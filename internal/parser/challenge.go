package parser

import (
	"strings"

	apperr "avkuzmin/caroffer/pkg/errors"
)

// challengeMarkers are phrases an anti-automation interstitial leaves in
// the markup it serves instead of the real page.
var challengeMarkers = []string{
	"captcha",
	"подтвердите, что вы не робот",
	"доступ ограничен",
}

// CheckChallenge scans markup for known challenge markers. A hit is
// fatal for the request: the page content is an interstitial, whatever
// individual selectors might still match.
func CheckChallenge(site string, body []byte) error {
	page := strings.ToLower(string(body))
	for _, marker := range challengeMarkers {
		if strings.Contains(page, marker) {
			return apperr.NewChallenge(site, marker)
		}
	}
	return nil
}
