// Package fetch retrieves page markup and photos for the extraction
// pipeline. The pipeline itself does not care how markup was obtained;
// both a plain HTTP client and a headless Chrome session satisfy the
// Fetcher contract.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"

	"avkuzmin/caroffer/config"
	"avkuzmin/caroffer/logger"
	apperr "avkuzmin/caroffer/pkg/errors"
	"avkuzmin/caroffer/services/cache"
)

// Fetcher is the page-fetching collaborator consumed by the offer service
type Fetcher interface {
	// FetchPage returns UTF-8 page markup for a listing URL
	FetchPage(ctx context.Context, pageURL string) ([]byte, error)

	// FetchRaw returns a resource (a gallery photo) verbatim
	FetchRaw(ctx context.Context, rawURL string) ([]byte, error)
}

var referers = []string{
	"https://www.google.com/",
	"https://yandex.ru/",
	"https://www.bing.com/",
}

// HTTPFetcher fetches pages over plain HTTP with browser-like headers.
// After a source rate-limits us it records a block window in the cache
// and refuses further requests to that host until the window expires.
type HTTPFetcher struct {
	client    *resty.Client
	cacheSvc  cache.CacheService
	blockTime time.Duration
	log       *logger.Logger
}

// NewHTTPFetcher creates an HTTP fetcher from the application config
func NewHTTPFetcher(cfg config.Config, cacheSvc cache.CacheService) *HTTPFetcher {
	client := resty.New()
	client.SetTimeout(cfg.FetchTimeout)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	if cfg.Cookie != "" {
		client.SetHeader("Cookie", cfg.Cookie)
	}

	return &HTTPFetcher{
		client:    client,
		cacheSvc:  cacheSvc,
		blockTime: cfg.FetchBlockTime,
		log:       logger.ForFetcher(),
	}
}

// FetchPage fetches a listing page and converts it to UTF-8
func (f *HTTPFetcher) FetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	blockKey := rateLimitKey(pageURL)
	if f.cacheSvc != nil && blockKey != "" {
		if _, err := f.cacheSvc.Get(blockKey); err == nil {
			return nil, apperr.NewRateLimit(blockKey, f.blockTime)
		}
	}

	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", browser.Computer()).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8").
		SetHeader("Accept-Language", "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7").
		SetHeader("Referer", referers[rnd.Intn(len(referers))]).
		SetHeader("Cache-Control", "no-cache").
		SetHeader("Upgrade-Insecure-Requests", "1").
		Get(pageURL)
	if err != nil {
		return nil, apperr.NewNetwork("", "failed to fetch page", err)
	}

	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode()) {
		if f.cacheSvc != nil && blockKey != "" {
			f.cacheSvc.Set(blockKey, []byte(fmt.Sprintf("%d", int(f.blockTime.Seconds()))), f.blockTime)
		}
		f.log.Warn().Str("url", pageURL).Str("retry_after", resp.Header().Get("Retry-After")).Msg("rate limited")
		return nil, apperr.NewRateLimit(blockKey, f.blockTime)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, apperr.NewNetwork("", fmt.Sprintf("fetch %s unexpected status code: %d", pageURL, resp.StatusCode()), nil)
	}

	return toUTF8(resp.Body(), resp.Header().Get("Content-Type"))
}

// FetchRaw fetches a resource without any charset handling
func (f *HTTPFetcher) FetchRaw(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", browser.Computer()).
		Get(rawURL)
	if err != nil {
		return nil, apperr.NewNetwork("", "failed to fetch resource", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apperr.NewNetwork("", fmt.Sprintf("fetch %s unexpected status code: %d", rawURL, resp.StatusCode()), nil)
	}
	return resp.Body(), nil
}

// toUTF8 converts a response body to UTF-8 based on the Content-Type
// header and the body content itself
func toUTF8(body []byte, contentType string) ([]byte, error) {
	encoding, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || name == "UTF-8" {
		return body, nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(body))
	converted, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, apperr.NewNetwork("", "failed to convert body to UTF-8", err)
	}
	return converted, nil
}

// rateLimitKey derives the cache key for a host's block window
func rateLimitKey(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.ReplaceAll(u.Hostname(), ".", "_") + "_rate_limited"
}
