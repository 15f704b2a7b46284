package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"avkuzmin/caroffer/config"
	"avkuzmin/caroffer/internal/fetch"
	"avkuzmin/caroffer/internal/render"
	"avkuzmin/caroffer/logger"
	"avkuzmin/caroffer/services/cache"
	"avkuzmin/caroffer/services/offer"
)

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	logger.Init()

	var (
		pageURL    = flag.String("url", "", "listing page URL (auto.ru or drom.ru)")
		imageIndex = flag.Int("image", 0, "index of the gallery photo to embed")
		withVAT    = flag.Bool("vat", false, "add VAT to the price and use the VAT template")
		output     = flag.String("out", "offer.png", "output PNG path")
		infoOnly   = flag.Bool("info", false, "print the extracted listing and exit")
	)
	flag.Parse()

	if *pageURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration: %v", err)
	}

	cacheSvc := cache.NewMemcacheService(cfg.MemcacheAddr)

	httpFetcher := fetch.NewHTTPFetcher(cfg, cacheSvc)
	var fetcher fetch.Fetcher = httpFetcher
	if cfg.UseChrome {
		fetcher = fetch.NewChromeFetcher(cfg, httpFetcher)
	}

	svc := offer.NewService(fetcher, render.NewRenderer(cfg))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	l, err := svc.Extract(ctx, *pageURL)
	if err != nil {
		logger.Fatal("Extraction failed: %v", err)
	}

	fmt.Println(l.String())
	if *infoOnly {
		return
	}

	if *withVAT {
		l, err = svc.ApplyVAT(l)
		if err != nil {
			logger.Fatal("VAT adjustment failed: %v", err)
		}
	}

	card, err := svc.Compose(ctx, l, *imageIndex, *withVAT)
	if err != nil {
		logger.Fatal("Composition failed: %v", err)
	}

	if err := os.WriteFile(*output, card, 0o644); err != nil {
		logger.Fatal("Failed to write offer card: %v", err)
	}

	logger.Info("Offer card written to %s", *output)
}
