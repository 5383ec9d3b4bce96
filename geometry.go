package main

import "math"

// Point is a 2D coordinate in continuous workspace units
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Lerp returns the point a fraction t of the way from p to other
func (p Point) Lerp(other Point, t float64) Point {
	return Point{
		X: p.X + (other.X-p.X)*t,
		Y: p.Y + (other.Y-p.Y)*t,
	}
}

// Clamp limits the point to the rectangle [0, maxX] x [0, maxY]
func (p Point) Clamp(maxX, maxY float64) Point {
	return Point{
		X: math.Min(math.Max(p.X, 0), maxX),
		Y: math.Min(math.Max(p.Y, 0), maxY),
	}
}

// StepToward advances from p toward target by at most step units.
// The second return value is false when p and target coincide and
// there is no direction to steer in.
func (p Point) StepToward(target Point, step float64) (Point, bool) {
	dx := target.X - p.X
	dy := target.Y - p.Y
	norm := math.Sqrt(dx*dx + dy*dy)
	if norm == 0 {
		return p, false
	}
	if step > norm {
		step = norm
	}
	return Point{
		X: p.X + dx*step/norm,
		Y: p.Y + dy*step/norm,
	}, true
}

// PathLength sums the Euclidean lengths of consecutive path segments
func PathLength(path []Point) float64 {
	total := 0.0
	for i := 0; i < len(path)-1; i++ {
		total += path[i].Distance(path[i+1])
	}
	return total
}
