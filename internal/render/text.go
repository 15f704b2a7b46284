package render

import (
	"image"
	"strings"

	"github.com/fogleman/gg"

	"avkuzmin/caroffer/internal/listing"
	apperr "avkuzmin/caroffer/pkg/errors"
)

type fontRole int

const (
	fontTitle fontRole = iota
	fontAccent
	fontInfo
)

// priceSuffix is appended to the price when it is drawn on the card
const priceSuffix = " P"

// titleLineSpacing is the extra vertical gap between wrapped title lines
const titleLineSpacing = 20.0

// overlayField places one listing field on the card. Coordinates are the
// top-left corner of the text block in template pixels; they are fixed
// by the template artwork.
type overlayField struct {
	text      func(l *listing.Listing) string
	x, y      float64
	size      float64
	role      fontRole
	color     string
	wrapWidth float64 // >0 enables greedy word wrapping
}

var overlayFields = []overlayField{
	{text: func(l *listing.Listing) string { return l.Title }, x: 205, y: 570, size: 50, role: fontTitle, color: "#FFFFFF", wrapWidth: 700},
	{text: func(l *listing.Listing) string {
		if l.Price == "" {
			return ""
		}
		return l.Price + priceSuffix
	}, x: 500, y: 735, size: 40, role: fontAccent, color: "#000000"},
	{text: func(l *listing.Listing) string { return l.Year }, x: 730, y: 440, size: 35, role: fontAccent, color: "#000000"},
	{text: func(l *listing.Listing) string { return l.Engine }, x: 361, y: 905, size: 30, role: fontInfo, color: "#FFFFFF"},
	{text: func(l *listing.Listing) string { return l.Mileage }, x: 361, y: 980, size: 30, role: fontInfo, color: "#FFFFFF"},
	{text: func(l *listing.Listing) string { return l.Drive }, x: 361, y: 1065, size: 30, role: fontInfo, color: "#FFFFFF"},
	{text: func(l *listing.Listing) string { return l.Color }, x: 361, y: 1145, size: 30, role: fontInfo, color: "#FFFFFF"},
}

// overlayText draws the listing fields onto the composited card
func (r *Renderer) overlayText(img image.Image, l *listing.Listing) (image.Image, error) {
	dc := gg.NewContextForImage(img)

	for _, f := range overlayFields {
		text := displayText(f.text(l))
		if text == "" {
			continue
		}

		if err := dc.LoadFontFace(r.fontPath(f.role), f.size); err != nil {
			return nil, apperr.NewComposition("font load failed", err)
		}
		dc.SetHexColor(f.color)

		// DrawString takes the baseline; the layout stores the top edge
		if f.wrapWidth > 0 {
			y := f.y + f.size
			for _, line := range dc.WordWrap(text, f.wrapWidth) {
				dc.DrawString(line, f.x, y)
				y += f.size + titleLineSpacing
			}
		} else {
			dc.DrawString(text, f.x, f.y+f.size)
		}
	}

	return dc.Image(), nil
}

func (r *Renderer) fontPath(role fontRole) string {
	switch role {
	case fontTitle:
		return r.cfg.TitleFontPath
	case fontAccent:
		return r.cfg.AccentFontPath
	default:
		return r.cfg.InfoFontPath
	}
}

// displayText prepares a field value for drawing
func displayText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
}
