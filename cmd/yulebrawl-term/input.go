package main

import (
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/yulebrawl/arena"
)

// latchInput treats a key as held for a short window after each press, since
// terminals only report presses. Key repeat keeps a held key latched.
type latchInput struct {
	mu    sync.Mutex
	latch time.Duration
	until map[arena.Key]time.Time
	now   func() time.Time
}

func newLatchInput(latch time.Duration) *latchInput {
	return &latchInput{
		latch: latch,
		until: make(map[arena.Key]time.Time),
		now:   time.Now,
	}
}

func (in *latchInput) Press(key arena.Key) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.until[key] = in.now().Add(in.latch)
}

func (in *latchInput) IsKeyDown(key arena.Key) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	until, ok := in.until[key]
	if !ok {
		return false
	}
	if !in.now().Before(until) {
		delete(in.until, key)
		return false
	}
	return true
}

// keyName maps a tcell key event to the key names used in control schemes.
func keyName(ev *tcell.EventKey) (arena.Key, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return "ArrowUp", true
	case tcell.KeyDown:
		return "ArrowDown", true
	case tcell.KeyLeft:
		return "ArrowLeft", true
	case tcell.KeyRight:
		return "ArrowRight", true
	case tcell.KeyEnter:
		return "Enter", true
	case tcell.KeyTab:
		return "Tab", true
	case tcell.KeyRune:
	default:
		return "", false
	}

	r := ev.Rune()
	switch {
	case r == ' ':
		return "Space", true
	case r == ',':
		return "Comma", true
	case r == '.':
		return "Period", true
	case r == '/':
		return "Slash", true
	case r == ';':
		return "Semicolon", true
	case unicode.IsLetter(r) || unicode.IsDigit(r):
		return arena.Key(strings.ToUpper(string(r))), true
	}
	return "", false
}
