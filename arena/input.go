package arena

import (
	"fmt"
	"strings"
)

// Intent is an abstract input action, bound to a physical key per entity.
type Intent uint8

const (
	IntentUp Intent = iota
	IntentDown
	IntentLeft
	IntentRight
	IntentFire
)

// Intents lists every intent in declaration order.
var Intents = []Intent{IntentUp, IntentDown, IntentLeft, IntentRight, IntentFire}

var intentNames = [...]string{
	IntentUp:    "up",
	IntentDown:  "down",
	IntentLeft:  "left",
	IntentRight: "right",
	IntentFire:  "fire",
}

func (i Intent) String() string {
	if int(i) < len(intentNames) {
		return intentNames[i]
	}
	return fmt.Sprintf("Intent(%d)", uint8(i))
}

// ParseIntent accepts the lower-case intent names used in configuration.
func ParseIntent(s string) (Intent, error) {
	for i, name := range intentNames {
		if strings.EqualFold(s, name) {
			return Intent(i), nil
		}
	}
	return 0, fmt.Errorf("arena: unknown intent %q", s)
}

// Key names a physical key. Frontends decide how names map to devices.
type Key string

// InputHandler reports which physical keys are held down.
type InputHandler interface {
	IsKeyDown(key Key) bool
}

// Input is the singleton through which systems read the input handler.
// A nil Handler reports every key as up.
type Input struct {
	Handler InputHandler
}

// Down reports whether the key bound to intent in cfg is held.
func (in *Input) Down(cfg *InputConfig, intent Intent) bool {
	if in == nil || in.Handler == nil || cfg == nil {
		return false
	}
	key, ok := cfg.KeyMap[intent]
	if !ok {
		return false
	}
	return in.Handler.IsKeyDown(key)
}

// InputConfig maps intents to physical keys so several control schemes can
// share the same systems.
type InputConfig struct {
	KeyMap map[Intent]Key
}

// NewInputConfig rejects empty key names and unknown intents.
func NewInputConfig(keys map[Intent]Key) (InputConfig, error) {
	keyMap := make(map[Intent]Key, len(keys))
	for intent, key := range keys {
		if int(intent) >= len(intentNames) {
			return InputConfig{}, invalid("unknown intent %d", intent)
		}
		if key == "" {
			return InputConfig{}, invalid("intent %s is bound to an empty key", intent)
		}
		keyMap[intent] = key
	}
	return InputConfig{KeyMap: keyMap}, nil
}

// DefaultTopControls is the arrow-key scheme.
func DefaultTopControls() InputConfig {
	return InputConfig{KeyMap: map[Intent]Key{
		IntentUp:    "ArrowUp",
		IntentDown:  "ArrowDown",
		IntentLeft:  "ArrowLeft",
		IntentRight: "ArrowRight",
		IntentFire:  "Space",
	}}
}

// DefaultBottomControls is the WASD scheme.
func DefaultBottomControls() InputConfig {
	return InputConfig{KeyMap: map[Intent]Key{
		IntentUp:    "W",
		IntentDown:  "S",
		IntentLeft:  "A",
		IntentRight: "D",
		IntentFire:  "F",
	}}
}

// KeyState is an InputHandler backed by an explicit set of held keys.
type KeyState struct {
	down map[Key]bool
}

// NewKeyState returns a KeyState with nothing held.
func NewKeyState() *KeyState {
	return &KeyState{down: make(map[Key]bool)}
}

// IsKeyDown reports whether key is held.
func (k *KeyState) IsKeyDown(key Key) bool {
	return k.down[key]
}

// Press holds keys until they are released.
func (k *KeyState) Press(keys ...Key) {
	for _, key := range keys {
		k.down[key] = true
	}
}

// Release lets go of keys.
func (k *KeyState) Release(keys ...Key) {
	for _, key := range keys {
		delete(k.down, key)
	}
}

// Set holds or releases a single key.
func (k *KeyState) Set(key Key, down bool) {
	if down {
		k.down[key] = true
		return
	}
	delete(k.down, key)
}

// Reset releases every key.
func (k *KeyState) Reset() {
	clear(k.down)
}
