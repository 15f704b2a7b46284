package parser

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"avkuzmin/caroffer/internal/listing"
	"avkuzmin/caroffer/logger"
	apperr "avkuzmin/caroffer/pkg/errors"
)

const dromSite = "drom.ru"

const (
	dromMetaTitleSel  = `meta[property="og:title"]`
	dromThumbnailsSel = `div[data-ftid="bull-page_bull-gallery_thumbnails"]`
)

// dromAttributes maps specification-table labels to listing fields.
// "Мощность" is special-cased: it folds into the engine description
// instead of standing alone.
var dromAttributes = map[string]string{
	"Двигатель":       "engine",
	"Мощность":        "power",
	"Пробег":          "mileage",
	"Цвет":            "color",
	"Коробка передач": "transmission",
	"Привод":          "drive",
}

// Drom is the normalizer for drom.ru bulletin pages
type Drom struct {
	log *logger.Logger
}

// NewDrom creates the drom.ru normalizer
func NewDrom() *Drom {
	return &Drom{log: logger.ForParser(dromSite)}
}

// Site returns the site name
func (p *Drom) Site() string {
	return dromSite
}

// Parse extracts a listing from a drom.ru bulletin page
func (p *Drom) Parse(pageURL string, body []byte) (*listing.Listing, error) {
	if err := CheckChallenge(dromSite, body); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, apperr.New(apperr.ErrorTypeExtraction, dromSite, "HTML parse error", err)
	}

	title, year, priceText := p.parseTitle(doc)
	attrs := p.parseAttributes(doc)

	raw := listing.Listing{
		Title:        title,
		Price:        priceText,
		Year:         year,
		Mileage:      attrs["mileage"],
		Engine:       attrs["engine"],
		Transmission: attrs["transmission"],
		Color:        attrs["color"],
		Drive:        attrs["drive"],
		Images:       p.parseImages(doc),
		SourceURL:    pageURL,
	}

	p.log.Debug().Str("url", pageURL).Msg("parsed bulletin page")
	return listing.New(raw), nil
}

// parseTitle derives title, year and price from the og:title metadata,
// formatted "Продажа <make> <model> <year>, <price> руб". Without the
// meta tag only the page header is usable: title from h1, year and
// price stay empty.
func (p *Drom) parseTitle(doc *goquery.Document) (title, year, priceText string) {
	meta := doc.Find(dromMetaTitleSel).First()
	if meta.Length() == 0 {
		return extractText(doc.Find("h1"), "", false), "", ""
	}

	content, _ := meta.Attr("content")
	parts := strings.SplitN(content, ",", 2)

	head := strings.TrimSpace(strings.Replace(parts[0], "Продажа", "", 1))
	if i := strings.LastIndex(head, " "); i >= 0 {
		title, year = head[:i], head[i+1:]
	} else {
		title = head
	}

	if len(parts) > 1 {
		priceText = cleanDromPrice(parts[1])
	}
	return title, year, priceText
}

// cleanDromPrice removes thousand-separator markup and the currency word
func cleanDromPrice(s string) string {
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "руб", "")
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "."))
}

// parseAttributes walks the specification table, matching row labels
// against the fixed dictionary. Unknown labels are skipped.
func (p *Drom) parseAttributes(doc *goquery.Document) map[string]string {
	attrs := make(map[string]string)

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return attrs
	}

	var power string
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.TrimSpace(row.Find("th").First().Text())
		value := row.Find("td")
		if label == "" || value.Length() == 0 {
			return
		}

		field, ok := dromAttributes[label]
		if !ok {
			return
		}

		text := extractText(value, "", false)
		text = strings.ReplaceAll(text, " ", " ")
		text = strings.TrimSpace(strings.ReplaceAll(text, ", налог", ""))

		if field == "power" {
			power = text
			return
		}
		attrs[field] = text
	})

	// Power folds into the engine description rather than standing alone
	if power != "" {
		if attrs["engine"] != "" {
			attrs["engine"] += ", " + power
		} else {
			attrs["engine"] = power
		}
	}

	return attrs
}

// parseImages collects up to MaxImages gallery anchors in document order
func (p *Drom) parseImages(doc *goquery.Document) []string {
	var urls []string
	doc.Find(dromThumbnailsSel).First().Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if href, ok := a.Attr("href"); ok && strings.TrimSpace(href) != "" {
			urls = append(urls, absoluteURL(strings.TrimSpace(href)))
		}
		return len(urls) < listing.MaxImages
	})
	return urls
}
