// Package render composites branded offer cards. A card starts from one
// of two pre-authored SVG templates (with or without the VAT badge),
// gets the chosen gallery photo embedded into the template's photo slot,
// is rasterized at the template's native resolution and finally receives
// the listing fields as a text overlay.
package render

import (
	"bytes"
	"image/png"
	"os"

	"avkuzmin/caroffer/config"
	"avkuzmin/caroffer/internal/listing"
	"avkuzmin/caroffer/logger"
	apperr "avkuzmin/caroffer/pkg/errors"
)

// Renderer builds offer card images from template assets on disk
type Renderer struct {
	cfg config.Config
	log *logger.Logger
}

// NewRenderer creates a renderer using the configured template and font
// paths
func NewRenderer(cfg config.Config) *Renderer {
	return &Renderer{
		cfg: cfg,
		log: logger.ForRenderer(),
	}
}

// Compose renders the offer card for a listing and returns it as PNG.
// The photo bytes are embedded as-is; vatIncluded selects the template
// variant.
func (r *Renderer) Compose(l *listing.Listing, photo []byte, vatIncluded bool) ([]byte, error) {
	if l == nil {
		return nil, apperr.NewComposition("no listing to render", nil)
	}
	if len(photo) == 0 {
		return nil, apperr.NewComposition("no photo to embed", nil)
	}

	templatePath := r.cfg.TemplateWithoutVAT
	if vatIncluded {
		templatePath = r.cfg.TemplateWithVAT
	}

	svg, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, apperr.NewComposition("template read failed", err)
	}

	svg, err = embedPhoto(svg, photo)
	if err != nil {
		return nil, err
	}

	base, err := rasterize(svg)
	if err != nil {
		return nil, err
	}

	if err := drawEmbeddedImages(base, svg); err != nil {
		return nil, err
	}

	card, err := r.overlayText(base, l)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, card); err != nil {
		return nil, apperr.NewComposition("card encode failed", err)
	}

	r.log.Debug().
		Str("template", templatePath).
		Int("bytes", buf.Len()).
		Msg("composed offer card")
	return buf.Bytes(), nil
}
