package offer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avkuzmin/caroffer/internal/listing"
	apperr "avkuzmin/caroffer/pkg/errors"
)

const usedPageFixture = `<html><body>
<div class="CardOfferBody">
  <h1 class="CardHead__title">Toyota Camry, 2021</h1>
  <span class="OfferPriceCaption__price">2 400 000 ₽</span>
</div>
</body></html>`

type stubFetcher struct {
	page     []byte
	raw      []byte
	rawCalls int
}

func (s *stubFetcher) FetchPage(_ context.Context, _ string) ([]byte, error) {
	return s.page, nil
}

func (s *stubFetcher) FetchRaw(_ context.Context, _ string) ([]byte, error) {
	s.rawCalls++
	return s.raw, nil
}

type stubComposer struct {
	photo       []byte
	vatIncluded bool
	out         []byte
}

func (s *stubComposer) Compose(_ *listing.Listing, photo []byte, vatIncluded bool) ([]byte, error) {
	s.photo = photo
	s.vatIncluded = vatIncluded
	return s.out, nil
}

func TestExtract(t *testing.T) {
	svc := NewService(&stubFetcher{page: []byte(usedPageFixture)}, &stubComposer{})

	l, err := svc.Extract(context.Background(), "https://auto.ru/cars/used/sale/123")
	require.NoError(t, err)
	assert.Equal(t, "Toyota Camry", l.Title)
	assert.Equal(t, "2 400 000", l.Price)
	assert.Equal(t, listing.SentinelYear, l.Year)
	assert.Equal(t, listing.SentinelMileage, l.Mileage)
}

func TestExtractUnknownSite(t *testing.T) {
	svc := NewService(&stubFetcher{}, &stubComposer{})

	_, err := svc.Extract(context.Background(), "https://example.com/listing/1")
	require.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.ErrorTypeExtraction))
}

func TestApplyVAT(t *testing.T) {
	svc := NewService(&stubFetcher{}, &stubComposer{})
	l := &listing.Listing{Title: "Toyota Camry", Price: "100 000"}

	withVAT, err := svc.ApplyVAT(l)
	require.NoError(t, err)
	assert.Equal(t, "120 000", withVAT.Price)

	// The original listing keeps the pre-VAT price
	assert.Equal(t, "100 000", l.Price)
}

func TestApplyVATInvalidPrice(t *testing.T) {
	svc := NewService(&stubFetcher{}, &stubComposer{})

	_, err := svc.ApplyVAT(&listing.Listing{Price: "договорная"})
	require.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.ErrorTypePrice))
}

func TestCompose(t *testing.T) {
	fetcher := &stubFetcher{raw: []byte("jpeg-bytes")}
	composer := &stubComposer{out: []byte("png-bytes")}
	svc := NewService(fetcher, composer)

	l := &listing.Listing{
		Title:  "Toyota Camry",
		Images: []string{"https://img.example/1.jpg", "https://img.example/2.jpg"},
	}

	out, err := svc.Compose(context.Background(), l, 1, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), out)
	assert.Equal(t, []byte("jpeg-bytes"), composer.photo)
	assert.True(t, composer.vatIncluded)
	assert.Equal(t, 1, fetcher.rawCalls)
}

func TestComposeIndexOutOfRange(t *testing.T) {
	fetcher := &stubFetcher{raw: []byte("jpeg-bytes")}
	svc := NewService(fetcher, &stubComposer{})

	l := &listing.Listing{Images: []string{"https://img.example/1.jpg"}}

	_, err := svc.Compose(context.Background(), l, 3, false)
	require.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.ErrorTypeComposition))
	assert.Zero(t, fetcher.rawCalls)
}

func TestComposeNoListing(t *testing.T) {
	svc := NewService(&stubFetcher{}, &stubComposer{})

	_, err := svc.Compose(context.Background(), nil, 0, false)
	require.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.ErrorTypeComposition))
}
