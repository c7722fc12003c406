package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/plus3/yulebrawl/arena"
)

const (
	cellW = 8.0
	cellH = 16.0
)

type renderer struct {
	screen tcell.Screen
	arenaW float64
	arenaH float64
}

func (r *renderer) draw(world *arena.World, banner string) {
	r.screen.Clear()

	cols, rows := int(r.arenaW/cellW), int(r.arenaH/cellH)
	border := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for x := 0; x <= cols+1; x++ {
		r.screen.SetContent(x, 1, '─', nil, border)
		r.screen.SetContent(x, rows+2, '─', nil, border)
	}

	for _, d := range world.Drawables() {
		x := 1 + int(d.X/cellW)
		y := 2 + int(d.Y/cellH)
		if x < 1 || x > cols || y < 2 || y > rows+1 {
			continue
		}
		glyph, style := frameGlyph(d.Frame)
		r.putGlyph(x, y, glyph, style)
	}

	hud := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	x := 0
	for _, p := range world.Players() {
		x = r.drawText(x, 0, fmt.Sprintf("%s HP %d/%d ammo %d   ", p.Name, p.CurrHealth, p.MaxHealth, p.Ammo), hud)
	}
	if banner != "" {
		r.drawText(cols/2-len(banner)/2, rows/2+2, banner, hud.Bold(true))
	}

	r.screen.Show()
}

// frameGlyph draws short frame keys as themselves. Longer keys are taken as
// color names and drawn as a block in that color.
func frameGlyph(frame string) (string, tcell.Style) {
	style := tcell.StyleDefault
	if utf8.RuneCountInString(frame) <= 2 && runewidth.StringWidth(frame) > 0 {
		return frame, style
	}
	if c := tcell.GetColor(frame); c != tcell.ColorDefault {
		return "█", style.Foreground(c)
	}
	r, _ := utf8.DecodeRuneInString(frame)
	return string(r), style
}

// putGlyph draws a glyph and pads the second column of wide runes.
func (r *renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	r.screen.SetContent(x, y, runes[0], runes[1:], style)
	if runewidth.StringWidth(glyph) == 2 {
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}

// drawText returns the column after the last rune.
func (r *renderer) drawText(x, y int, s string, style tcell.Style) int {
	for _, c := range s {
		r.screen.SetContent(x, y, c, nil, style)
		x += runewidth.RuneWidth(c)
	}
	return x
}
