package geometry

// DefaultTension matches the usual cardinal interpolation of charting libraries.
const DefaultTension = 0.7

// cardinalTangents returns the tangent at every point of a cardinal spline.
// Interior tangents are (1-tension)/2 times the vector between the neighbours;
// the end points use the one-sided difference with the same weight.
func cardinalTangents(points []Point, tension float64) []Point {
	n := len(points)
	tangents := make([]Point, n)
	if n < 2 {
		return tangents
	}
	a := (1 - tension) / 2
	for i := range points {
		prev, next := i-1, i+1
		if prev < 0 {
			prev = 0
		}
		if next >= n {
			next = n - 1
		}
		tangents[i] = Point{
			X: a * (points[next].X - points[prev].X),
			Y: a * (points[next].Y - points[prev].Y),
		}
	}
	return tangents
}

// appendCardinal appends cubic segments that interpolate points, starting from
// points[0]. The caller is responsible for having moved to points[0]. Control
// points sit one tangent away from their segment's end points.
func appendCardinal(path Path, points []Point, tension float64) Path {
	if len(points) < 2 {
		return path
	}
	if len(points) == 2 {
		return append(path, Segment{Op: LineTo, Points: []Point{points[1]}})
	}
	tangents := cardinalTangents(points, tension)
	for i := 0; i < len(points)-1; i++ {
		p0, p1 := points[i], points[i+1]
		m0, m1 := tangents[i], tangents[i+1]
		c1 := Point{X: p0.X + m0.X, Y: p0.Y + m0.Y}
		c2 := Point{X: p1.X - m1.X, Y: p1.Y - m1.Y}
		path = append(path, Segment{Op: CurveTo, Points: []Point{c1, c2, p1}})
	}
	return path
}
