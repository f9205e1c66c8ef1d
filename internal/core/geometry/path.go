package geometry

import (
	"strconv"
	"strings"
)

// Point is a position in chart pixel space.
type Point struct {
	X, Y float64
}

// Op is a path drawing command.
type Op byte

const (
	MoveTo  Op = 'M'
	LineTo  Op = 'L'
	CurveTo Op = 'C'
	Close   Op = 'Z'
)

// Segment is one path command. CurveTo carries two control points followed by
// the end point; MoveTo and LineTo carry a single point; Close carries none.
type Segment struct {
	Op     Op
	Points []Point
}

// Path is a sequence of drawing commands.
type Path []Segment

// Empty reports whether the path draws nothing.
func (p Path) Empty() bool {
	return len(p) == 0
}

// String renders the path as SVG path data.
func (p Path) String() string {
	var sb strings.Builder
	for _, seg := range p {
		sb.WriteByte(byte(seg.Op))
		for i, pt := range seg.Points {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(FormatCoord(pt.X))
			sb.WriteByte(',')
			sb.WriteString(FormatCoord(pt.Y))
		}
	}
	return sb.String()
}

// FormatCoord renders a coordinate with at most two decimals.
func FormatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
