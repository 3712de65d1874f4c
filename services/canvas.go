package services

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"
)

// Stroke describes how a line is drawn.
type Stroke struct {
	Color color.Color
	Width float64
	Dash  []float64 // nil for a solid line
}

// Surface is the drawing target of the map renderer. Coordinates are canvas
// pixels with the origin at the top-left corner.
type Surface interface {
	Width() int
	Height() int
	Clear(bg color.Color)
	Line(x1, y1, x2, y2 float64, stroke Stroke)
	// Circle fills a circle and, when outline is non-nil, strokes its edge.
	Circle(x, y, r float64, fill, outline color.Color)
	Text(s string, x, y float64, c color.Color)
}

// GGCanvas - gg 기반 래스터 캔버스 (PNG 출력)
type GGCanvas struct {
	dc *gg.Context
}

var _ Surface = (*GGCanvas)(nil)

// NewGGCanvas - width x height 캔버스 생성
func NewGGCanvas(width, height int) *GGCanvas {
	dc := gg.NewContext(width, height)
	dc.SetFontFace(basicfont.Face7x13)
	return &GGCanvas{dc: dc}
}

func (c *GGCanvas) Width() int  { return c.dc.Width() }
func (c *GGCanvas) Height() int { return c.dc.Height() }

func (c *GGCanvas) Clear(bg color.Color) {
	c.dc.SetColor(bg)
	c.dc.Clear()
}

func (c *GGCanvas) Line(x1, y1, x2, y2 float64, stroke Stroke) {
	c.dc.SetColor(stroke.Color)
	c.dc.SetLineWidth(stroke.Width)
	c.dc.SetDash(stroke.Dash...)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
	c.dc.SetDash()
}

func (c *GGCanvas) Circle(x, y, r float64, fill, outline color.Color) {
	c.dc.DrawCircle(x, y, r)
	c.dc.SetColor(fill)
	if outline == nil {
		c.dc.Fill()
		return
	}
	c.dc.FillPreserve()
	c.dc.SetColor(outline)
	c.dc.SetLineWidth(1)
	c.dc.Stroke()
}

func (c *GGCanvas) Text(s string, x, y float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawString(s, x, y)
}

// Image - 현재 픽셀 상태
func (c *GGCanvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG - PNG로 인코딩
func (c *GGCanvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// PNG - PNG 바이트
func (c *GGCanvas) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
