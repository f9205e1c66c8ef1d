//go:build linux || darwin

package interaction

import (
	"os"

	"golang.org/x/sys/unix"
)

// KeyboardReader delivers key presses from stdin, which it keeps in raw mode
// until Close.
type KeyboardReader struct {
	fd       int
	oldState *unix.Termios
	input    chan KeyEvent
	stop     chan struct{}
}

// NewKeyboardReader switches stdin to raw mode and starts reading keys.
func NewKeyboardReader() (*KeyboardReader, error) {
	kr := &KeyboardReader{
		fd:    int(os.Stdin.Fd()),
		input: make(chan KeyEvent, 10),
		stop:  make(chan struct{}),
	}

	if err := kr.enableRawMode(); err != nil {
		return nil, err
	}

	go kr.readInput()

	return kr, nil
}

// enableRawMode turns off echo, line buffering and input translation. ISIG
// stays on so Ctrl+C still raises SIGINT.
func (kr *KeyboardReader) enableRawMode() error {
	oldState, err := unix.IoctlGetTermios(kr.fd, ioctlGetTermios)
	if err != nil {
		return err
	}
	kr.oldState = oldState

	raw := *oldState
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	return unix.IoctlSetTermios(kr.fd, ioctlSetTermios, &raw)
}

func (kr *KeyboardReader) disableRawMode() error {
	if kr.oldState == nil {
		return nil
	}
	return unix.IoctlSetTermios(kr.fd, ioctlSetTermios, kr.oldState)
}

// readInput decodes keys until stop is closed or stdin fails. The event
// channel is closed when it returns.
func (kr *KeyboardReader) readInput() {
	defer close(kr.input)
	buf := make([]byte, 8)

	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		event := parseInput(buf[:n])
		if event == nil {
			continue
		}
		select {
		case kr.input <- *event:
		case <-kr.stop:
			return
		}
	}
}

// Events returns the keyboard event channel.
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close stops delivering events and restores the terminal.
func (kr *KeyboardReader) Close() error {
	close(kr.stop)
	return kr.disableRawMode()
}
