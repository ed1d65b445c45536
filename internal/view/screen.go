package view

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lawnchairsociety/wavecrawler/internal/tile"
)

var glyphStyles = map[rune]tcell.Style{
	GlyphFloor:       tcell.StyleDefault.Foreground(tcell.ColorGray),
	GlyphWall:        tcell.StyleDefault.Foreground(tcell.ColorWhite),
	GlyphPlayer:      tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	GlyphHostile:     tcell.StyleDefault.Foreground(tcell.ColorRed),
	GlyphBoss:        tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true),
	GlyphCollectible: tcell.StyleDefault.Foreground(tcell.ColorGreen),
	GlyphPortal:      tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true),
}

var statusStyle = tcell.StyleDefault.Reverse(true)

// Draw paints f onto screen with the status line on the bottom row. The
// arena is anchored at its top-left corner when it fits and follows the
// focus tile when it does not.
func Draw(screen tcell.Screen, f Frame) {
	screen.Clear()
	width, height := screen.Size()
	if width <= 0 || height <= 0 {
		return
	}
	rows := height - 1

	origin := viewport(f, width, rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < width; x++ {
			r := f.Glyph(tile.Coord{X: origin.X + x, Y: origin.Y + y})
			if r == ' ' {
				continue
			}
			screen.SetContent(x, y, r, nil, glyphStyles[r])
		}
	}

	status := []rune(f.Status)
	for x := 0; x < width; x++ {
		r := ' '
		if x < len(status) {
			r = status[x]
		}
		screen.SetContent(x, rows, r, nil, statusStyle)
	}
	screen.Show()
}

func viewport(f Frame, width, rows int) tile.Coord {
	if f.Arena == nil {
		return tile.Coord{X: f.Focus.X - width/2, Y: f.Focus.Y - rows/2}
	}
	min, max, ok := f.Arena.Walls.Bounds()
	if !ok {
		if min, max, ok = f.Arena.Floor.Bounds(); !ok {
			return tile.Coord{X: f.Focus.X - width/2, Y: f.Focus.Y - rows/2}
		}
	}
	return tile.Coord{
		X: axisOrigin(min.X, max.X, f.Focus.X, width),
		Y: axisOrigin(min.Y, max.Y, f.Focus.Y, rows),
	}
}

func axisOrigin(lo, hi, focus, size int) int {
	if hi-lo+1 <= size {
		return lo
	}
	o := focus - size/2
	if o < lo {
		o = lo
	}
	if o+size > hi+1 {
		o = hi + 1 - size
	}
	return o
}
