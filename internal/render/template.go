package render

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"image"
	"io"
	"regexp"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"

	apperr "avkuzmin/caroffer/pkg/errors"
)

// photoHrefIndex is the ordinal of the xlink:href occurrence holding the
// primary photo placeholder. This is a contract with the template files:
// moving the placeholder inside the SVG requires updating this constant,
// or the photo silently lands in the wrong slot.
const photoHrefIndex = 14

var hrefPattern = regexp.MustCompile(`xlink:href="[^"]*"`)

// embedPhoto substitutes the photo placeholder with the photo inlined as
// a base64 data URI
func embedPhoto(svg, photo []byte) ([]byte, error) {
	matches := hrefPattern.FindAllIndex(svg, -1)
	if len(matches) <= photoHrefIndex {
		return nil, apperr.NewComposition(
			fmt.Sprintf("template has %d href slots, the photo placeholder is slot %d", len(matches), photoHrefIndex+1), nil)
	}

	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(photo)

	m := matches[photoHrefIndex]
	var b bytes.Buffer
	b.Grow(len(svg) + len(dataURI))
	b.Write(svg[:m[0]])
	b.WriteString(`xlink:href="`)
	b.WriteString(dataURI)
	b.WriteString(`"`)
	b.Write(svg[m[1]:])
	return b.Bytes(), nil
}

// rasterize renders the template's vector content at its native
// resolution
func rasterize(svg []byte) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, apperr.NewComposition("template parse failed", err)
	}

	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		return nil, apperr.NewComposition("template viewBox has no size", nil)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

// drawEmbeddedImages composites the template's data-URI image elements
// (the embedded photo included) onto the raster, scaled to their
// declared rects. The path rasterizer covers vector content only, so
// bitmaps are drawn here.
func drawEmbeddedImages(dst *image.RGBA, svg []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(svg))
	dec.Strict = false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return apperr.NewComposition("template scan failed", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "image" {
			continue
		}

		var href string
		var x, y, w, h float64
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "href":
				href = attr.Value
			case "x":
				x, _ = strconv.ParseFloat(attr.Value, 64)
			case "y":
				y, _ = strconv.ParseFloat(attr.Value, 64)
			case "width":
				w, _ = strconv.ParseFloat(attr.Value, 64)
			case "height":
				h, _ = strconv.ParseFloat(attr.Value, 64)
			}
		}

		if w <= 0 || h <= 0 || !strings.HasPrefix(href, "data:image/") {
			continue
		}

		img, err := decodeDataURI(href)
		if err != nil {
			return err
		}

		rect := image.Rect(int(x), int(y), int(x+w), int(y+h))
		xdraw.ApproxBiLinear.Scale(dst, rect, img, img.Bounds(), xdraw.Over, nil)
	}

	return nil
}

// decodeDataURI decodes a base64 image data URI
func decodeDataURI(uri string) (image.Image, error) {
	_, payload, found := strings.Cut(uri, "base64,")
	if !found {
		return nil, apperr.NewComposition("template image is not base64-encoded", nil)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperr.NewComposition("template image decode failed", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, apperr.NewComposition("embedded photo is not a valid image", err)
	}
	return img, nil
}
