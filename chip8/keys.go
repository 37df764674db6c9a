package chip8

import (
	"fmt"
	"strconv"
)

const KeyCount = 16

// Key is one of the 16 keypad symbols 0-F.
type Key uint8

func (k Key) String() string {
	return fmt.Sprintf("%X", uint8(k))
}

// ParseKey parses a single hex digit into a key symbol.
func ParseKey(s string) (Key, error) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil || v >= KeyCount {
		return 0, fmt.Errorf("invalid key '%s'", s)
	}
	return Key(v), nil
}

// KeyState is a bitmask of held keys. Key 0 is the most significant bit.
type KeyState uint16

func (k Key) selector() uint16 {
	return 0x8000 >> (k & 0x0f)
}

func (ks KeyState) IsSet(k Key) bool {
	return uint16(ks)&k.selector() != 0
}

func (ks *KeyState) Set(k Key) {
	*ks |= KeyState(k.selector())
}

func (ks *KeyState) Unset(k Key) {
	*ks &^= KeyState(k.selector())
}

// Pressed returns the lowest held key, if any.
func (ks KeyState) Pressed() (Key, bool) {
	for k := Key(0); k < KeyCount; k++ {
		if ks.IsSet(k) {
			return k, true
		}
	}
	return 0, false
}
