package parser

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"avkuzmin/caroffer/internal/listing"
	"avkuzmin/caroffer/logger"
	apperr "avkuzmin/caroffer/pkg/errors"
)

const autoRuSite = "auto.ru"

// Selectors for the offer card. Used and new-vehicle pages share the
// card body but lay attributes out differently: used pages keep label
// and value in separate row cells, new pages merge them into one node.
const (
	autoRuCardSel      = "div.CardOfferBody"
	autoRuIDSel        = "div.CardHead__infoItem.CardHead__id"
	autoRuTitleSel     = "h1.CardHead__title"
	autoRuPriceSel     = "span.OfferPriceCaption__price"
	autoRuNewPriceSel  = "span.PriceUsedOfferNew__maxDiscount-QAptH"
	autoRuRowCellSel   = "div.CardInfoRow__cell"
	autoRuGallerySel   = "div.ImageGalleryDesktop__itemContainer"
	autoRuImageSel     = "img.ImageGalleryDesktop__image"
	autoRuCoverSpanSel = "span.ImageGalleryDesktop__image_cover"
)

// autoRuAttributes drives attribute extraction: one selector per page
// subtype plus the sentinel used when the row is missing. Keeping this
// as data isolates the per-site fragility from the parsing logic.
var autoRuAttributes = map[string]struct {
	usedSel  string
	newSel   string
	sentinel string
}{
	"year": {
		usedSel:  "li.CardInfoRow.CardInfoRow_year",
		newSel:   "li.CardInfoGroupedRow.CardInfoGroupedRow_year",
		sentinel: listing.SentinelYear,
	},
	"mileage": {
		usedSel:  "li.CardInfoRow.CardInfoRow_kmAge",
		newSel:   "li.CardInfoRow.CardInfoRow_kmAge",
		sentinel: listing.SentinelMileage,
	},
	"engine": {
		usedSel:  "li.CardInfoRow.CardInfoRow_engine",
		newSel:   "li.CardInfoGroupedRow.CardInfoGroupedRow_engine",
		sentinel: listing.SentinelEngine,
	},
	"transmission": {
		usedSel:  "li.CardInfoRow.CardInfoRow_transmission",
		newSel:   "li.CardInfoGroupedRow.CardInfoGroupedRow_transmission",
		sentinel: listing.SentinelTransmission,
	},
	"color": {
		usedSel:  "li.CardInfoRow.CardInfoRow_color",
		newSel:   "li.CardInfoGroupedRow.CardInfoGroupedRow_color",
		sentinel: listing.SentinelColor,
	},
	"drive": {
		usedSel:  "li.CardInfoRow.CardInfoRow_drive",
		newSel:   "li.CardInfoGroupedRow.CardInfoGroupedRow_drive",
		sentinel: listing.SentinelDrive,
	},
}

// styleURLPattern pulls the protocol-relative URL out of an inline
// background-image style.
var styleURLPattern = regexp.MustCompile(`url\((//[^)]+)\)`)

// AutoRu is the normalizer for auto.ru offer pages
type AutoRu struct {
	log *logger.Logger
}

// NewAutoRu creates the auto.ru normalizer
func NewAutoRu() *AutoRu {
	return &AutoRu{log: logger.ForParser(autoRuSite)}
}

// Site returns the site name
func (p *AutoRu) Site() string {
	return autoRuSite
}

// Parse extracts a listing from an auto.ru offer page
func (p *AutoRu) Parse(pageURL string, body []byte) (*listing.Listing, error) {
	if err := CheckChallenge(autoRuSite, body); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, apperr.New(apperr.ErrorTypeExtraction, autoRuSite, "HTML parse error", err)
	}

	card := doc.Find(autoRuCardSel).First()
	if card.Length() == 0 {
		return nil, apperr.NewExtraction(autoRuSite, "offer card body not found")
	}

	// New-vehicle offer pages live under a /new/ path segment
	isNew := strings.Contains(strings.ToLower(pageURL), "new")

	attrs := make(map[string]string, len(autoRuAttributes))
	for field, spec := range autoRuAttributes {
		sel := spec.usedSel
		if isNew {
			sel = spec.newSel
		}
		attrs[field] = p.extractAttribute(card, sel, spec.sentinel, isNew)
	}

	raw := listing.Listing{
		ID:           extractText(card.Find(autoRuIDSel), "", false),
		Title:        cleanTitle(extractText(card.Find(autoRuTitleSel), "", false)),
		Price:        p.parsePrice(card, isNew),
		Year:         attrs["year"],
		Mileage:      attrs["mileage"],
		Engine:       attrs["engine"],
		Transmission: attrs["transmission"],
		Color:        attrs["color"],
		Drive:        attrs["drive"],
		Images:       p.parseImages(doc),
		SourceURL:    pageURL,
	}

	p.log.Debug().Str("url", pageURL).Bool("new_vehicle", isNew).Msg("parsed offer card")
	return listing.New(raw), nil
}

// extractAttribute pulls one attribute row out of the card. Used pages
// keep the value in the second row cell; new pages merge label and
// value, handled by the secondText mode of extractText.
func (p *AutoRu) extractAttribute(card *goquery.Selection, sel, sentinel string, merged bool) string {
	content := card.Find(sel)
	if content.Length() == 0 {
		return sentinel
	}

	if merged {
		return extractText(content, sentinel, true)
	}

	cells := content.First().Find(autoRuRowCellSel)
	if cells.Length() < 2 {
		return sentinel
	}
	return extractText(cells.Eq(1), sentinel, false)
}

// parsePrice reads the subtype-specific price node. New-vehicle pages
// rendered from a partial template sometimes carry the used-page price
// node instead, so that selector doubles as a fallback.
func (p *AutoRu) parsePrice(card *goquery.Selection, isNew bool) string {
	sel := autoRuPriceSel
	if isNew {
		sel = autoRuNewPriceSel
	}

	price := cleanPrice(card.Find(sel))
	if isNew && price == "" {
		price = cleanPrice(card.Find(autoRuPriceSel))
	}
	return price
}

// cleanPrice truncates the price text at the currency symbol and
// normalizes non-breaking spaces.
func cleanPrice(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}

	raw := strings.TrimSpace(s.First().Text())
	raw = strings.SplitN(raw, "₽", 2)[0]
	raw = strings.ReplaceAll(raw, " ", " ")
	return strings.TrimSpace(raw)
}

// cleanTitle strips the ", <year>" suffix from a card header
func cleanTitle(raw string) string {
	if i := strings.Index(raw, ","); i >= 0 {
		return strings.TrimSpace(raw[:i])
	}
	return raw
}

// parseImages collects up to MaxImages gallery photo URLs in document
// order. The srcset's second candidate is preferred (the first is a
// low-res thumbnail); covers rendered via an inline background-image
// style are the fallback.
func (p *AutoRu) parseImages(doc *goquery.Document) []string {
	var urls []string
	doc.Find(autoRuGallerySel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if u := galleryImageURL(s); u != "" {
			urls = append(urls, u)
		}
		return len(urls) < listing.MaxImages
	})
	return urls
}

func galleryImageURL(s *goquery.Selection) string {
	if srcset, ok := s.Find(autoRuImageSel).Attr("srcset"); ok && srcset != "" {
		candidates := strings.Split(srcset, ",")
		if len(candidates) >= 2 {
			fields := strings.Fields(strings.TrimSpace(candidates[1]))
			if len(fields) > 0 {
				return absoluteURL(fields[0])
			}
		}
	}

	cover := s.Find(autoRuCoverSpanSel).First()
	if style, ok := cover.Attr("style"); ok && strings.Contains(style, "background-image") {
		if m := styleURLPattern.FindStringSubmatch(style); m != nil {
			return "https:" + m[1]
		}
	}

	return ""
}
