// Package preview derives a terminal-renderable thumbnail from an uploaded
// image. Derivation runs as a background task; only image mime types are
// eligible.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	// Registered decoders for the formats the intake accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/lipgloss"
)

// MaxWidth caps the thumbnail width in terminal cells.
const MaxWidth = 40

// Render decodes the image and renders it as half-block cells, two pixels
// per cell. Returns an error for undecodable data; never panics.
func Render(data []byte, width int) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	if width <= 0 || width > MaxWidth {
		width = MaxWidth
	}

	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return "", fmt.Errorf("empty image")
	}
	if width > srcW {
		width = srcW
	}

	// Terminal cells are roughly twice as tall as wide; the half-block
	// glyph packs two rows per cell, so the cell grid uses 2*height rows.
	height := srcH * width / srcW / 2
	if height < 1 {
		height = 1
	}

	var b strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			top := sampleAt(img, bounds, col, row*2, width, height*2)
			bottom := sampleAt(img, bounds, col, row*2+1, width, height*2)
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀")
			b.WriteString(cell)
		}
		if row < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// sampleAt maps a cell-grid coordinate back to a source pixel and returns
// its color as a hex string.
func sampleAt(img image.Image, bounds image.Rectangle, x, y, gridW, gridH int) string {
	srcX := bounds.Min.X + x*bounds.Dx()/gridW
	srcY := bounds.Min.Y + y*bounds.Dy()/gridH
	if srcY >= bounds.Max.Y {
		srcY = bounds.Max.Y - 1
	}
	r, g, b, _ := img.At(srcX, srcY).RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
