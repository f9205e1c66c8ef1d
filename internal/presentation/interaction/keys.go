package interaction

// KeyEvent represents a keyboard event
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyType represents the type of key pressed
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
)

// KeyCtrlC is the byte a raw terminal delivers for Ctrl+C.
const KeyCtrlC = 3

// parseInput parses raw keyboard input
func parseInput(buf []byte) *KeyEvent {
	if len(buf) == 0 {
		return nil
	}

	if buf[0] == KeyCtrlC {
		return &KeyEvent{Key: KeyCtrlC, Type: KeyChar}
	}

	if buf[0] == 27 { // ESC
		if len(buf) == 1 {
			return &KeyEvent{Key: 27, Type: KeyEscape}
		}
		if len(buf) >= 3 && (buf[1] == '[' || buf[1] == 'O') {
			switch buf[2] {
			case 'A':
				return &KeyEvent{Type: KeyUp}
			case 'B':
				return &KeyEvent{Type: KeyDown}
			case 'C':
				return &KeyEvent{Type: KeyRight}
			case 'D':
				return &KeyEvent{Type: KeyLeft}
			case 'H':
				return &KeyEvent{Type: KeyHome}
			case 'F':
				return &KeyEvent{Type: KeyEnd}
			}
		}
		return nil
	}

	return &KeyEvent{Key: rune(buf[0]), Type: KeyChar}
}
