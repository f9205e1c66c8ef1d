// Package screen emulates enough of a terminal to check what an interactive
// command leaves on screen.
package screen

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// Screen is a fixed-size virtual terminal. It implements io.Writer so that it
// can stand in for the terminal a program draws on. Writes may split escape
// sequences; the unfinished tail is kept for the next write.
type Screen struct {
	mu            sync.Mutex
	rows, cols    int
	buffer        [][]rune
	cursorX       int
	cursorY       int
	cursorVisible bool
	pending       []byte
	writes        int
}

// New creates a blank screen.
func New(rows, cols int) *Screen {
	s := &Screen{rows: rows, cols: cols, cursorVisible: true}
	s.buffer = make([][]rune, rows)
	for i := range s.buffer {
		s.buffer[i] = blankRow(cols)
	}
	return s
}

func blankRow(cols int) []rune {
	row := make([]rune, cols)
	for j := range row {
		row[j] = ' '
	}
	return row
}

// Write interprets p as terminal output.
func (s *Screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++

	data := append(s.pending, p...)
	s.pending = nil
	i := 0
	for i < len(data) {
		switch c := data[i]; c {
		case 0x1b:
			n, ok := s.escape(data[i:])
			if !ok {
				s.pending = append([]byte(nil), data[i:]...)
				return len(p), nil
			}
			i += n
			continue
		case '\r':
			s.cursorX = 0
		case '\n':
			s.lineFeed()
		case '\b':
			if s.cursorX > 0 {
				s.cursorX--
			}
		default:
			r, size := utf8.DecodeRune(data[i:])
			if r == utf8.RuneError && !utf8.FullRune(data[i:]) {
				s.pending = append([]byte(nil), data[i:]...)
				return len(p), nil
			}
			s.put(r)
			i += size
			continue
		}
		i++
	}
	return len(p), nil
}

// escape handles one escape sequence at the start of data and returns its
// length. ok is false when the sequence is not complete yet.
func (s *Screen) escape(data []byte) (n int, ok bool) {
	if len(data) < 2 {
		return 0, false
	}
	if data[1] != '[' {
		return 2, true
	}

	private := false
	var params []int
	current, hasCurrent := 0, false
	for i := 2; i < len(data); i++ {
		c := data[i]
		switch {
		case c == '?' && i == 2:
			private = true
		case c >= '0' && c <= '9':
			current = current*10 + int(c-'0')
			hasCurrent = true
		case c == ';':
			params = append(params, current)
			current, hasCurrent = 0, false
		default:
			if hasCurrent || len(params) > 0 {
				params = append(params, current)
			}
			s.command(c, params, private)
			return i + 1, true
		}
	}
	return 0, false
}

func param(params []int, i, def int) int {
	if i < len(params) && params[i] > 0 {
		return params[i]
	}
	return def
}

func (s *Screen) command(cmd byte, params []int, private bool) {
	if private {
		if param(params, 0, 0) == 25 {
			s.cursorVisible = cmd == 'h'
		}
		return
	}

	switch cmd {
	case 'H', 'f':
		s.cursorY = min(param(params, 0, 1), s.rows) - 1
		s.cursorX = min(param(params, 1, 1), s.cols) - 1
	case 'J':
		switch param(params, 0, 0) {
		case 0:
			s.clearRow(s.cursorY, s.cursorX, s.cols)
			for i := s.cursorY + 1; i < s.rows; i++ {
				s.clearRow(i, 0, s.cols)
			}
		case 2:
			for i := range s.buffer {
				s.clearRow(i, 0, s.cols)
			}
		}
	case 'K':
		switch param(params, 0, 0) {
		case 0:
			s.clearRow(s.cursorY, s.cursorX, s.cols)
		case 2:
			s.clearRow(s.cursorY, 0, s.cols)
		}
	case 'A':
		s.cursorY = max(0, s.cursorY-param(params, 0, 1))
	case 'B':
		s.cursorY = min(s.rows-1, s.cursorY+param(params, 0, 1))
	case 'C':
		s.cursorX = min(s.cols-1, s.cursorX+param(params, 0, 1))
	case 'D':
		s.cursorX = max(0, s.cursorX-param(params, 0, 1))
	}
	// Everything else, colors included, leaves the text unchanged.
}

func (s *Screen) clearRow(row, from, to int) {
	if row < 0 || row >= s.rows {
		return
	}
	for j := max(from, 0); j < to; j++ {
		s.buffer[row][j] = ' '
	}
}

func (s *Screen) put(r rune) {
	if s.cursorX >= s.cols {
		s.cursorX = 0
		s.lineFeed()
	}
	s.buffer[s.cursorY][s.cursorX] = r
	s.cursorX++
}

func (s *Screen) lineFeed() {
	s.cursorY++
	if s.cursorY < s.rows {
		return
	}
	copy(s.buffer, s.buffer[1:])
	s.buffer[s.rows-1] = blankRow(s.cols)
	s.cursorY = s.rows - 1
}

// Lines returns every row with trailing blanks removed.
func (s *Screen) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]string, s.rows)
	for i, row := range s.buffer {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return lines
}

// Line returns row i, or "" outside the screen.
func (s *Screen) Line(i int) string {
	lines := s.Lines()
	if i < 0 || i >= len(lines) {
		return ""
	}
	return lines[i]
}

// Text returns the screen content with trailing blank rows removed.
func (s *Screen) Text() string {
	return strings.TrimRight(strings.Join(s.Lines(), "\n"), "\n")
}

// Contains reports whether text appears on a single row.
func (s *Screen) Contains(text string) bool {
	for _, line := range s.Lines() {
		if strings.Contains(line, text) {
			return true
		}
	}
	return false
}

// CursorVisible reports whether the cursor was last shown or hidden.
func (s *Screen) CursorVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorVisible
}

// Writes counts the Write calls received.
func (s *Screen) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
