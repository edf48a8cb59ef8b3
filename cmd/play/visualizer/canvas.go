package visualizer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Background is the colour the canvas fades toward.
var Background = colorful.Color{R: 1, G: 1, B: 1}

// Canvas is a grid of coloured pixels. Each terminal cell shows two pixel
// rows using a half block.
type Canvas struct {
	width, height int
	pixels        []colorful.Color
}

// NewCanvas creates a canvas filled with bg. height is in pixels, so a
// canvas rendered into r terminal rows has height 2*r.
func NewCanvas(width, height int, bg colorful.Color) *Canvas {
	c := &Canvas{}
	c.Resize(width, height, bg)
	return c
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Resize discards the picture and refills it with bg.
func (c *Canvas) Resize(width, height int, bg colorful.Color) {
	c.width, c.height = max(width, 0), max(height, 0)
	c.pixels = make([]colorful.Color, c.width*c.height)
	for i := range c.pixels {
		c.pixels[i] = bg
	}
}

// At returns the pixel at x,y; out of bounds returns black.
func (c *Canvas) At(x, y int) colorful.Color {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return colorful.Color{}
	}
	return c.pixels[y*c.width+x]
}

// Fade blends every pixel toward bg by alpha, leaving a trail of earlier
// frames.
func (c *Canvas) Fade(bg colorful.Color, alpha float64) {
	alpha = min(max(alpha, 0), 1)
	for i, p := range c.pixels {
		c.pixels[i] = p.BlendRgb(bg, alpha)
	}
}

// FillRect paints a rectangle, clipped to the canvas.
func (c *Canvas) FillRect(x, y, w, h int, col colorful.Color) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, c.width), min(y+h, c.height)
	for py := y0; py < y1; py++ {
		row := c.pixels[py*c.width : (py+1)*c.width]
		for px := x0; px < x1; px++ {
			row[px] = col
		}
	}
}

// Render draws the canvas as height/2 lines of half blocks.
func (c *Canvas) Render() string {
	var b strings.Builder
	for y := 0; y+1 < c.height; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < c.width; x++ {
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(c.At(x, y).Clamped().Hex())).
				Background(lipgloss.Color(c.At(x, y+1).Clamped().Hex()))
			b.WriteString(style.Render("▀"))
		}
	}
	return b.String()
}
