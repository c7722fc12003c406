package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/yulebrawl/arena"
)

// ebitenInput reports key state straight from ebiten. Unknown key names are
// never down.
type ebitenInput struct {
	keys map[arena.Key]ebiten.Key
	// muted is set while the debug overlay owns the keyboard.
	muted bool
}

func newEbitenInput() *ebitenInput {
	return &ebitenInput{keys: keyNames}
}

func (in *ebitenInput) IsKeyDown(key arena.Key) bool {
	if in.muted {
		return false
	}
	k, ok := in.keys[key]
	if !ok {
		return false
	}
	return ebiten.IsKeyPressed(k)
}

var keyNames = map[arena.Key]ebiten.Key{
	"ArrowUp":      ebiten.KeyArrowUp,
	"ArrowDown":    ebiten.KeyArrowDown,
	"ArrowLeft":    ebiten.KeyArrowLeft,
	"ArrowRight":   ebiten.KeyArrowRight,
	"Space":        ebiten.KeySpace,
	"Enter":        ebiten.KeyEnter,
	"Tab":          ebiten.KeyTab,
	"ShiftLeft":    ebiten.KeyShiftLeft,
	"ShiftRight":   ebiten.KeyShiftRight,
	"ControlLeft":  ebiten.KeyControlLeft,
	"ControlRight": ebiten.KeyControlRight,
	"AltLeft":      ebiten.KeyAltLeft,
	"AltRight":     ebiten.KeyAltRight,
	"Comma":        ebiten.KeyComma,
	"Period":       ebiten.KeyPeriod,
	"Slash":        ebiten.KeySlash,
	"Semicolon":    ebiten.KeySemicolon,
	"A":            ebiten.KeyA,
	"B":            ebiten.KeyB,
	"C":            ebiten.KeyC,
	"D":            ebiten.KeyD,
	"E":            ebiten.KeyE,
	"F":            ebiten.KeyF,
	"G":            ebiten.KeyG,
	"H":            ebiten.KeyH,
	"I":            ebiten.KeyI,
	"J":            ebiten.KeyJ,
	"K":            ebiten.KeyK,
	"L":            ebiten.KeyL,
	"M":            ebiten.KeyM,
	"N":            ebiten.KeyN,
	"O":            ebiten.KeyO,
	"P":            ebiten.KeyP,
	"Q":            ebiten.KeyQ,
	"R":            ebiten.KeyR,
	"S":            ebiten.KeyS,
	"T":            ebiten.KeyT,
	"U":            ebiten.KeyU,
	"V":            ebiten.KeyV,
	"W":            ebiten.KeyW,
	"X":            ebiten.KeyX,
	"Y":            ebiten.KeyY,
	"Z":            ebiten.KeyZ,
	"0":            ebiten.KeyDigit0,
	"1":            ebiten.KeyDigit1,
	"2":            ebiten.KeyDigit2,
	"3":            ebiten.KeyDigit3,
	"4":            ebiten.KeyDigit4,
	"5":            ebiten.KeyDigit5,
	"6":            ebiten.KeyDigit6,
	"7":            ebiten.KeyDigit7,
	"8":            ebiten.KeyDigit8,
	"9":            ebiten.KeyDigit9,
}
