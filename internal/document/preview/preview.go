package preview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"resume-tailor/internal/document"
)

const (
	pageWidth  = 850
	pageHeight = 1100
	marginX    = 60
	marginY    = 60
	lineHeight = 18
	maxChars   = 100
)

// RenderPNG draws the first page of a parsed resume onto a white canvas
// and returns it as a data URI suitable for an <img> tag. This is a
// rough reading proof, not a faithful layout rendering.
func RenderPNG(doc *document.Document) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, pageWidth, pageHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}

	y := marginY
	for _, p := range doc.Paragraphs {
		text := p.Text()
		if text == "" {
			y += lineHeight / 2
			continue
		}
		for _, line := range wrapText(text, maxChars) {
			if y > pageHeight-marginY {
				break
			}
			drawer.Dot = fixed.P(marginX, y)
			drawer.DrawString(line)
			if isBold(p) {
				// re-draw shifted a pixel to fake a heavier weight
				drawer.Dot = fixed.P(marginX+1, y)
				drawer.DrawString(line)
			}
			y += lineHeight
		}
		if y > pageHeight-marginY {
			break
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func isBold(p document.Paragraph) bool {
	for _, r := range p.Runs {
		if !r.Bold {
			return false
		}
	}
	return len(p.Runs) > 0
}

func wrapText(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var lines []string
	for len(text) > limit {
		cut := limit
		for cut > 0 && text[cut] != ' ' {
			cut--
		}
		if cut == 0 {
			cut = limit
		}
		lines = append(lines, text[:cut])
		text = trimLeadingSpace(text[cut:])
	}
	if text != "" {
		lines = append(lines, text)
	}
	return lines
}

func trimLeadingSpace(s string) string {
	for len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	return s
}
