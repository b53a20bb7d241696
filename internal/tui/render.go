// Half-block frame rendering for the terminal viewer
package tui

import (
	"image"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"
)

// cell is one terminal character of the rendered frame: '▀' drawn with
// the upper pixel as foreground and the lower pixel as background, so
// every cell carries two stacked pixels.
type cell struct {
	top    tcell.Color
	bottom tcell.Color
}

// fitFrame computes the largest pixel grid with the frame's aspect
// ratio that fits cols terminal columns and rows cell rows. A terminal
// cell is about twice as tall as it is wide and holds two pixels, so
// pixels come out square. The height is rounded down to a whole number
// of cells.
func fitFrame(frameW, frameH, cols, rows int) (pw, ph int) {
	if frameW <= 0 || frameH <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}

	maxH := rows * 2
	pw = cols
	ph = pw * frameH / frameW
	if ph > maxH {
		ph = maxH
		pw = ph * frameW / frameH
		if pw > cols {
			pw = cols
		}
	}

	if pw < 1 {
		pw = 1
	}
	ph &^= 1
	if ph < 2 {
		ph = 2
	}
	return pw, ph
}

// renderCells scales img to fit the given cell area and converts it to
// half-block cells. Returns the grid plus its dimensions in cells.
func renderCells(img image.Image, cols, rows int) ([]cell, int, int) {
	bounds := img.Bounds()
	pw, ph := fitFrame(bounds.Dx(), bounds.Dy(), cols, rows)
	if pw == 0 || ph == 0 {
		return nil, 0, 0
	}

	scaled := image.NewRGBA(image.Rect(0, 0, pw, ph))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)

	gw, gh := pw, ph/2
	cells := make([]cell, gw*gh)
	for cy := 0; cy < gh; cy++ {
		for x := 0; x < gw; x++ {
			cells[cy*gw+x] = cell{
				top:    pixelColor(scaled, x, cy*2),
				bottom: pixelColor(scaled, x, cy*2+1),
			}
		}
	}
	return cells, gw, gh
}

func pixelColor(img *image.RGBA, x, y int) tcell.Color {
	i := img.PixOffset(x, y)
	return tcell.NewRGBColor(int32(img.Pix[i]), int32(img.Pix[i+1]), int32(img.Pix[i+2]))
}
