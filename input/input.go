// Package input maps device keys to named logical actions with
// edge-triggered callbacks.
package input

import (
	"fmt"
	"strings"
)

// Key is a backend-independent key code.
type Key int

const (
	KeyNone Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyTab
	KeyEscape
)

var keyNames = map[Key]string{
	KeyW:      "w",
	KeyA:      "a",
	KeyS:      "s",
	KeyD:      "d",
	KeyQ:      "q",
	KeyE:      "e",
	KeyUp:     "up",
	KeyDown:   "down",
	KeyLeft:   "left",
	KeyRight:  "right",
	KeySpace:  "space",
	KeyTab:    "tab",
	KeyEscape: "escape",
}

// Keys lists every bindable key.
func Keys() []Key {
	keys := make([]Key, 0, len(keyNames))
	for k := KeyW; k <= KeyEscape; k++ {
		keys = append(keys, k)
	}
	return keys
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "none"
}

// ParseKey resolves a key name as written in configuration.
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == name {
			return k, nil
		}
	}
	return KeyNone, fmt.Errorf("unknown key %q", name)
}

// Device reports keys that went down since the previous frame.
type Device interface {
	JustPressed(k Key) bool
}

// DeviceFunc adapts a function to Device.
type DeviceFunc func(k Key) bool

func (f DeviceFunc) JustPressed(k Key) bool {
	return f(k)
}
