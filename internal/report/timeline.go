package report

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/npillmayer/scorekit/notation"
	"github.com/npillmayer/scorekit/template"
	"golang.org/x/image/vector"
)

const margin = 8

var (
	white     = color.RGBA{255, 255, 255, 255}
	gray      = color.RGBA{160, 160, 160, 255}
	lightGray = color.RGBA{220, 220, 220, 255}
	black     = color.RGBA{0, 0, 0, 255}
)

var leafColors = map[string]color.RGBA{
	"red":        {220, 30, 30, 255},
	"blue":       {30, 60, 220, 255},
	"darkyellow": {180, 150, 0, 255},
}

type rect struct {
	x0, y0, x1, y1 float32
}

// Timeline renders a proportional picture of a score: one row per voice,
// notes as filled boxes, rests as outlines, and bar lines from the global
// skips. Colored leaves keep their color.
func Timeline(score *notation.Container, width, height int) (*image.RGBA, error) {
	if width <= 2*margin || height <= 2*margin {
		return nil, errors.New("image too small")
	}
	var voices []*notation.Container
	for _, v := range score.Contexts("Voice") {
		if v.Name != template.GlobalSkipsName && v.Name != template.GlobalRestsName {
			voices = append(voices, v)
		}
	}
	total := score.Duration()
	if len(voices) == 0 || total.IsZero() {
		return nil, errors.New("score is empty")
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)
	scale := float32(width-2*margin) / float32(total.Float())
	rowHeight := float32(height-2*margin) / float32(len(voices))
	xAt := func(d notation.Duration) float32 {
		return margin + float32(d.Float())*scale
	}
	if skips := score.FindContext(template.GlobalSkipsName); skips != nil {
		leaves := skips.Leaves()
		for _, off := range notation.Offsets(leaves)[1:] {
			x := int(xAt(off))
			drawRectOutline(img, x, margin, x+1, height-margin, lightGray)
		}
	}
	filled := map[color.RGBA][]rect{}
	for row, v := range voices {
		y0 := margin + float32(row)*rowHeight + 2
		y1 := y0 + rowHeight - 4
		leaves := v.Leaves()
		offsets := notation.Offsets(leaves)
		for i, l := range leaves {
			x0, x1 := xAt(offsets[i])+1, xAt(offsets[i].Add(l.Duration()))-1
			switch l.Kind {
			case notation.NoteLeaf, notation.ChordLeaf:
				c := black
				if col, ok := notation.IndicatorOf[notation.Color](l); ok {
					if rgba, ok := leafColors[col.Name]; ok {
						c = rgba
					}
				}
				filled[c] = append(filled[c], rect{x0, y0, x1, y1})
			case notation.RestLeaf, notation.MultiMeasureRestLeaf:
				drawRectOutline(img, int(x0), int(y0), int(x1), int(y1), gray)
			}
		}
	}
	for c, rects := range filled {
		fillRects(img, rects, c)
	}
	return img, nil
}

func fillRects(img *image.RGBA, rects []rect, c color.RGBA) {
	b := img.Bounds()
	rast := vector.NewRasterizer(b.Dx(), b.Dy())
	rast.DrawOp = draw.Over
	for _, r := range rects {
		if r.x1 <= r.x0 {
			r.x1 = r.x0 + 1
		}
		rast.MoveTo(r.x0, r.y0)
		rast.LineTo(r.x1, r.y0)
		rast.LineTo(r.x1, r.y1)
		rast.LineTo(r.x0, r.y1)
		rast.ClosePath()
	}
	rast.Draw(img, b, image.NewUniform(c), image.Point{})
}

func drawRectOutline(img *image.RGBA, minX int, minY int, maxX int, maxY int, c color.RGBA) {
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	b := img.Bounds()
	minX, minY = max(minX, b.Min.X), max(minY, b.Min.Y)
	maxX, maxY = min(maxX, b.Max.X), min(maxY, b.Max.Y)
	if minX >= maxX || minY >= maxY {
		return
	}
	for x := minX; x < maxX; x++ {
		img.SetRGBA(x, minY, c)
		img.SetRGBA(x, maxY-1, c)
	}
	for y := minY; y < maxY; y++ {
		img.SetRGBA(minX, y, c)
		img.SetRGBA(maxX-1, y, c)
	}
}
