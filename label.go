package pagesnap

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/root4loot/goutils/urlutil"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// labelImage adds the page origin to the bottom of the image and
// re-encodes it in the configured format.
func (c *Capturer) labelImage(imageBytes []byte, rawURL string) ([]byte, error) {
	origin, err := urlutil.GetOrigin(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	img, err := c.decodeImage(imageBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	const padding = 20
	const borderSize = 1

	w := img.Bounds().Dx()
	h := img.Bounds().Dy() + padding*2 + borderSize
	dc := gg.NewContext(w, h)

	dc.SetColor(color.White)
	dc.Clear()
	dc.DrawImage(img, 0, 0)

	yLine := float64(img.Bounds().Dy())
	dc.SetColor(color.Black)
	dc.DrawLine(0, yLine, float64(w), yLine)
	dc.SetLineWidth(float64(borderSize))
	dc.Stroke()

	face, err := c.labelFont()
	if err != nil {
		return nil, err
	}

	dc.SetColor(color.Black)
	dc.SetFontFace(face)
	dc.DrawStringAnchored(origin, float64(w)/2, yLine+float64(padding), 0.5, 0.3)

	return c.encodeImage(dc.Image())
}

func (c *Capturer) decodeImage(imageBytes []byte) (image.Image, error) {
	if c.Options.Format == FormatJPEG {
		return jpeg.Decode(bytes.NewReader(imageBytes))
	}
	return png.Decode(bytes.NewReader(imageBytes))
}

func (c *Capturer) encodeImage(img image.Image) ([]byte, error) {
	var buf bytes.Buffer

	if c.Options.Format == FormatJPEG {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.Options.Quality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		return buf.Bytes(), nil
	}

	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// labelFont loads the configured TTF, falling back to a builtin bitmap
// face when none is set.
func (c *Capturer) labelFont() (font.Face, error) {
	if c.Options.LabelFont == "" {
		return basicfont.Face7x13, nil
	}

	fontData, err := os.ReadFile(c.Options.LabelFont)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}

	ttFont, err := truetype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	return truetype.NewFace(ttFont, &truetype.Options{
		Size: 14,
	}), nil
}
