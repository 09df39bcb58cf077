// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import "math"

// Vec2 represents a point or direction in 2D world space.
type Vec2 struct {
	// X is the horizontal component.
	X float64
	// Y is the vertical component. World space is Y-up; pixel space is Y-down.
	Y float64
}

// BBox is an axis-aligned bounding box in world space.
// The zero value is not a valid box; use EmptyBBox for an identity element.
type BBox struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// EmptyBBox returns the empty bounding box, which acts as the identity for
// Union and never intersects anything.
//
// Returns:
//   - BBox: a box with inverted infinite extents
func EmptyBBox() BBox {
	return BBox{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether the box contains no area and no points.
//
// Returns:
//   - bool: true if the box is empty
func (b BBox) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Min returns the minimum corner of the box.
//
// Returns:
//   - Vec2: the (MinX, MinY) corner
func (b BBox) Min() Vec2 {
	return Vec2{X: b.MinX, Y: b.MinY}
}

// Max returns the maximum corner of the box.
//
// Returns:
//   - Vec2: the (MaxX, MaxY) corner
func (b BBox) Max() Vec2 {
	return Vec2{X: b.MaxX, Y: b.MaxY}
}

// Include returns the smallest box containing both b and the point p.
//
// Parameters:
//   - p: the point to include
//
// Returns:
//   - BBox: the expanded box
func (b BBox) Include(p Vec2) BBox {
	return BBox{
		MinX: math.Min(b.MinX, p.X),
		MinY: math.Min(b.MinY, p.Y),
		MaxX: math.Max(b.MaxX, p.X),
		MaxY: math.Max(b.MaxY, p.Y),
	}
}

// Union returns the smallest box containing both boxes. The empty box is the
// identity element.
//
// Parameters:
//   - other: the box to union with
//
// Returns:
//   - BBox: the combined box
func (b BBox) Union(other BBox) BBox {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}
	return BBox{
		MinX: math.Min(b.MinX, other.MinX),
		MinY: math.Min(b.MinY, other.MinY),
		MaxX: math.Max(b.MaxX, other.MaxX),
		MaxY: math.Max(b.MaxY, other.MaxY),
	}
}

// Intersects reports whether the two boxes overlap. Empty boxes never
// intersect.
//
// Parameters:
//   - other: the box to test against
//
// Returns:
//   - bool: true if the boxes share any area or edge
func (b BBox) Intersects(other BBox) bool {
	if b.IsEmpty() || other.IsEmpty() {
		return false
	}
	return b.MinX <= other.MaxX && other.MinX <= b.MaxX &&
		b.MinY <= other.MaxY && other.MinY <= b.MaxY
}

// Center returns the midpoint of the box. The center of an empty box is the
// origin.
//
// Returns:
//   - Vec2: the center point
func (b BBox) Center() Vec2 {
	if b.IsEmpty() {
		return Vec2{}
	}
	return Vec2{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Width returns the horizontal extent of the box, or 0 for an empty box.
//
// Returns:
//   - float64: the width
func (b BBox) Width() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxX - b.MinX
}

// Height returns the vertical extent of the box, or 0 for an empty box.
//
// Returns:
//   - float64: the height
func (b BBox) Height() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxY - b.MinY
}

// Pad returns the box grown by the given margin on every side. Padding an
// empty box returns the empty box unchanged.
//
// Parameters:
//   - margin: the distance to grow each side by
//
// Returns:
//   - BBox: the padded box
func (b BBox) Pad(margin float64) BBox {
	if b.IsEmpty() {
		return b
	}
	return BBox{
		MinX: b.MinX - margin,
		MinY: b.MinY - margin,
		MaxX: b.MaxX + margin,
		MaxY: b.MaxY + margin,
	}
}
