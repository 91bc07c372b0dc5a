package domain

import (
	"fmt"
	"math"
)

// Vector is a position or displacement in world units.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec is shorthand for Vector{X: x, Y: y}.
func Vec(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * k.
func (v Vector) Scale(k float64) Vector {
	return Vector{X: v.X * k, Y: v.Y * k}
}

// IsZero reports whether v is the null displacement.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// DistanceSquaredTo avoids the square root when only comparing distances.
func (v Vector) DistanceSquaredTo(o Vector) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return dx*dx + dy*dy
}

// DistanceTo returns the euclidean distance.
func (v Vector) DistanceTo(o Vector) float64 {
	return math.Sqrt(v.DistanceSquaredTo(o))
}

func (v Vector) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Box is an axis aligned rectangle, Min inclusive, Max exclusive.
type Box struct {
	Min Vector `json:"min"`
	Max Vector `json:"max"`
}

// BoxAt builds a box of the given size whose top-left corner is at (x, y).
func BoxAt(x, y, w, h float64) Box {
	return Box{Min: Vector{X: x, Y: y}, Max: Vector{X: x + w, Y: y + h}}
}

// CenteredBox builds a box of the given size centered on the origin.
func CenteredBox(w, h float64) Box {
	return Box{Min: Vector{X: -w / 2, Y: -h / 2}, Max: Vector{X: w / 2, Y: h / 2}}
}

// Translate moves the box by d.
func (b Box) Translate(d Vector) Box {
	return Box{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Width of the box.
func (b Box) Width() float64 { return b.Max.X - b.Min.X }

// Height of the box.
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

// IsEmpty reports a degenerate box; empty boxes overlap nothing.
func (b Box) IsEmpty() bool {
	return b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y
}

// Overlaps reports whether the interiors intersect. Boxes that only share an
// edge do not overlap.
func (b Box) Overlaps(o Box) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	return b.Min.X < o.Max.X && o.Min.X < b.Max.X &&
		b.Min.Y < o.Max.Y && o.Min.Y < b.Max.Y
}

// Contains reports whether p lies inside the box.
func (b Box) Contains(p Vector) bool {
	return p.X >= b.Min.X && p.X < b.Max.X && p.Y >= b.Min.Y && p.Y < b.Max.Y
}

func (b Box) String() string {
	return fmt.Sprintf("[%v-%v]", b.Min, b.Max)
}
