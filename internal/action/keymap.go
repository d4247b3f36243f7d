package action

import "fmt"

// KeyMap binds key-chord strings (bubbletea's tea.KeyMsg.String() form,
// e.g. "ctrl+c", "down", "alt+backspace") to parsed action chains.
type KeyMap struct {
	bindings map[string][]Action
}

// DefaultBindings mirrors a conventional fuzzy-finder default keymap.
// Any entry may be overridden by config.
var DefaultBindings = map[string]string{
	"enter":     "accept",
	"esc":       "abort",
	"ctrl+c":    "abort",
	"up":        "up",
	"ctrl+p":    "up",
	"down":      "down",
	"ctrl+n":    "down",
	"pgup":      "page-up",
	"pgdown":    "page-down",
	"ctrl+u":    "half-page-up",
	"ctrl+d":    "half-page-down",
	"home":      "first",
	"end":       "last",
	"tab":       "toggle+down",
	"shift+tab": "toggle+up",
	"ctrl+t":    "toggle-all",
	"ctrl+k":    "kill-line",
	"ctrl+w":    "kill-word",
	"ctrl+a":    "beginning-of-line",
	"ctrl+e":    "end-of-line",
	"backspace": "delete-char",
	"delete":    "delete-char-forward",
	"ctrl+r":    "toggle-regex",
	"ctrl+y":    "yank",
	"alt+p":     "toggle-preview",
}

// NewKeyMap compiles raw into a KeyMap, parsing every binding's action
// chain up front so a bad binding is rejected at load time rather than
// at first keypress.
func NewKeyMap(raw map[string]string) (*KeyMap, error) {
	km := &KeyMap{bindings: make(map[string][]Action, len(raw))}
	for key, spec := range raw {
		chain, err := ParseChain(spec)
		if err != nil {
			return nil, fmt.Errorf("action: binding %q: %w", key, err)
		}
		km.bindings[key] = chain
	}
	return km, nil
}

// Resolve returns the action chain bound to key, and whether any
// binding exists for it.
func (km *KeyMap) Resolve(key string) ([]Action, bool) {
	chain, ok := km.bindings[key]
	return chain, ok
}

// Merge layers override on top of km, replacing any binding present in
// both, and returns the merged result. Used to apply user config on top
// of DefaultBindings without mutating either.
func (km *KeyMap) Merge(override *KeyMap) *KeyMap {
	merged := &KeyMap{bindings: make(map[string][]Action, len(km.bindings)+len(override.bindings))}
	for k, v := range km.bindings {
		merged.bindings[k] = v
	}
	for k, v := range override.bindings {
		merged.bindings[k] = v
	}
	return merged
}
