// Package offer orchestrates the listing pipeline: fetch a page, extract
// the canonical listing, optionally adjust the price for VAT and compose
// the branded offer card.
package offer

import (
	"context"
	"fmt"

	"avkuzmin/caroffer/internal/fetch"
	"avkuzmin/caroffer/internal/listing"
	"avkuzmin/caroffer/internal/parser"
	"avkuzmin/caroffer/internal/price"
	"avkuzmin/caroffer/logger"
	apperr "avkuzmin/caroffer/pkg/errors"
)

// Composer renders a listing plus one photo into an offer card
type Composer interface {
	Compose(l *listing.Listing, photo []byte, vatIncluded bool) ([]byte, error)
}

// Service wires the fetcher, the site parsers and the renderer together
type Service struct {
	fetcher  fetch.Fetcher
	renderer Composer
	log      *logger.Logger
}

// NewService creates the offer service
func NewService(fetcher fetch.Fetcher, renderer Composer) *Service {
	return &Service{
		fetcher:  fetcher,
		renderer: renderer,
		log:      logger.ForOffer(),
	}
}

// Extract fetches a listing page and extracts the canonical listing
func (s *Service) Extract(ctx context.Context, pageURL string) (*listing.Listing, error) {
	p, err := parser.ForURL(pageURL)
	if err != nil {
		return nil, err
	}

	body, err := s.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	l, err := p.Parse(pageURL, body)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("site", p.Site()).
		Str("title", l.Title).
		Int("images", len(l.Images)).
		Msg("extracted listing")
	return l, nil
}

// ApplyVAT returns a copy of the listing with the VAT-adjusted price.
// The input listing is left untouched so the original price stays
// available.
func (s *Service) ApplyVAT(l *listing.Listing) (*listing.Listing, error) {
	adjusted, err := price.ApplyVAT(l.Price)
	if err != nil {
		return nil, err
	}

	withVAT := *l
	withVAT.Price = adjusted
	return &withVAT, nil
}

// Compose fetches the photo at imageIndex and renders the offer card
func (s *Service) Compose(ctx context.Context, l *listing.Listing, imageIndex int, vatIncluded bool) ([]byte, error) {
	if l == nil {
		return nil, apperr.NewComposition("no listing to compose", nil)
	}
	if imageIndex < 0 || imageIndex >= len(l.Images) {
		return nil, apperr.NewComposition(
			fmt.Sprintf("photo index %d out of range, listing has %d photos", imageIndex, len(l.Images)), nil)
	}

	photo, err := s.fetcher.FetchRaw(ctx, l.Images[imageIndex])
	if err != nil {
		return nil, err
	}

	return s.renderer.Compose(l, photo, vatIncluded)
}
