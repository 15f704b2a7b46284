package fetch

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"avkuzmin/caroffer/config"
	"avkuzmin/caroffer/logger"
	apperr "avkuzmin/caroffer/pkg/errors"
)

// ChromeFetcher fetches pages through a headless Chrome session. Both
// target sites render parts of the offer card client-side, so the plain
// HTTP fetcher only works when their server-rendered markup is enough.
type ChromeFetcher struct {
	cfg config.Config
	raw *HTTPFetcher
	log *logger.Logger
}

// NewChromeFetcher creates a headless-Chrome fetcher. Photos are still
// fetched over plain HTTP through the given fetcher.
func NewChromeFetcher(cfg config.Config, raw *HTTPFetcher) *ChromeFetcher {
	return &ChromeFetcher{
		cfg: cfg,
		raw: raw,
		log: logger.ForFetcher(),
	}
}

// FetchPage navigates to the URL and returns the rendered DOM
func (f *ChromeFetcher) FetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if bin := findChromeBinary(); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, f.cfg.FetchTimeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		network.Enable(),
		f.setCookies(),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight / 2)`, nil),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, apperr.NewNetwork("", "headless fetch failed", err)
	}

	f.log.Debug().Str("url", pageURL).Int("bytes", len(html)).Msg("fetched rendered DOM")
	return []byte(html), nil
}

// FetchRaw fetches a resource over plain HTTP
func (f *ChromeFetcher) FetchRaw(ctx context.Context, rawURL string) ([]byte, error) {
	return f.raw.FetchRaw(ctx, rawURL)
}

// setCookies injects the configured session cookies before navigation
func (f *ChromeFetcher) setCookies() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if f.cfg.Cookie == "" {
			return nil
		}
		for _, pair := range strings.Split(f.cfg.Cookie, ";") {
			name, value, found := strings.Cut(strings.TrimSpace(pair), "=")
			if !found || name == "" {
				continue
			}
			err := network.SetCookie(name, value).
				WithDomain(f.cfg.CookieDomain).
				Do(ctx)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// findChromeBinary locates a Chrome/Chromium binary
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
