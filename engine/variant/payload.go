package variant

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/ralvey/morph-go/common"
)

// Payload is the swappable representation held behind a mobject handle.
// Implementations are pure data: no payload renders itself or owns GPU-like
// resources. Clone must be deep so a handle's payload can never be mutated
// through a reference the caller kept.
type Payload interface {
	// Kind returns the variant tag identifying this payload's shape.
	//
	// Returns:
	//   - Kind: the variant tag
	Kind() Kind

	// Clone returns a deep copy of the payload.
	//
	// Returns:
	//   - Payload: the copy
	Clone() Payload

	// BBox returns the payload's axis-aligned bounding box in world space.
	// Payloads with no geometry return the empty box.
	//
	// Returns:
	//   - common.BBox: the bounding box
	BBox() common.BBox

	// Validate reports whether the payload's fields describe a legal shape.
	//
	// Returns:
	//   - error: nil if the payload is valid
	Validate() error
}

// Empty is the payload of a handle with no geometry.
type Empty struct{}

func (e *Empty) Kind() Kind        { return KindEmpty }
func (e *Empty) Clone() Payload    { return &Empty{} }
func (e *Empty) BBox() common.BBox { return common.EmptyBBox() }
func (e *Empty) Validate() error   { return nil }

// Line is a straight segment between two points.
type Line struct {
	Start common.Vec2 `yaml:"start"`
	End   common.Vec2 `yaml:"end"`
}

func (l *Line) Kind() Kind { return KindLine }

func (l *Line) Clone() Payload {
	out := *l
	return &out
}

func (l *Line) BBox() common.BBox {
	return common.EmptyBBox().Include(l.Start).Include(l.End)
}

func (l *Line) Validate() error { return nil }

// Circle is a circle described by center and radius. A zero radius is legal
// and describes a degenerate point.
type Circle struct {
	Center common.Vec2 `yaml:"center"`
	Radius float64     `yaml:"radius"`
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) Clone() Payload {
	out := *c
	return &out
}

func (c *Circle) BBox() common.BBox {
	return common.BBox{
		MinX: c.Center.X - c.Radius,
		MinY: c.Center.Y - c.Radius,
		MaxX: c.Center.X + c.Radius,
		MaxY: c.Center.Y + c.Radius,
	}
}

func (c *Circle) Validate() error {
	if c.Radius < 0 {
		return fmt.Errorf("circle: negative radius %v", c.Radius)
	}
	return nil
}

// Rect is an axis-aligned rectangle centered on Center. CornerRadius rounds
// the corners and is clamped to half the short side during pathization.
type Rect struct {
	Center       common.Vec2 `yaml:"center"`
	Width        float64     `yaml:"width"`
	Height       float64     `yaml:"height"`
	CornerRadius float64     `yaml:"corner_radius"`
}

func (r *Rect) Kind() Kind { return KindRect }

func (r *Rect) Clone() Payload {
	out := *r
	return &out
}

func (r *Rect) BBox() common.BBox {
	return common.BBox{
		MinX: r.Center.X - r.Width/2,
		MinY: r.Center.Y - r.Height/2,
		MaxX: r.Center.X + r.Width/2,
		MaxY: r.Center.Y + r.Height/2,
	}
}

func (r *Rect) Validate() error {
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("rect: negative extents %vx%v", r.Width, r.Height)
	}
	if r.CornerRadius < 0 {
		return fmt.Errorf("rect: negative corner radius %v", r.CornerRadius)
	}
	return nil
}

// clampedCornerRadius returns the corner radius limited to half the short
// side so opposite corners cannot overlap.
func (r *Rect) clampedCornerRadius() float64 {
	limit := min(r.Width, r.Height) / 2
	return common.Clamp(r.CornerRadius, 0, limit)
}

// Polygon is a chain of straight edges through Points. When Closed, the last
// point connects back to the first.
type Polygon struct {
	Points []common.Vec2 `yaml:"points"`
	Closed bool          `yaml:"closed"`
}

func (p *Polygon) Kind() Kind { return KindPolygon }

func (p *Polygon) Clone() Payload {
	out := &Polygon{Closed: p.Closed}
	if p.Points != nil {
		out.Points = make([]common.Vec2, len(p.Points))
		copy(out.Points, p.Points)
	}
	return out
}

func (p *Polygon) BBox() common.BBox {
	box := common.EmptyBBox()
	for _, pt := range p.Points {
		box = box.Include(pt)
	}
	return box
}

func (p *Polygon) Validate() error {
	if len(p.Points) < 2 {
		return fmt.Errorf("polygon: need at least 2 points, have %d", len(p.Points))
	}
	return nil
}

// Arc is a circular arc. Angles are in radians; a positive SweepAngle runs
// counter-clockwise from StartAngle.
type Arc struct {
	Center     common.Vec2 `yaml:"center"`
	Radius     float64     `yaml:"radius"`
	StartAngle float64     `yaml:"start_angle"`
	SweepAngle float64     `yaml:"sweep_angle"`
}

func (a *Arc) Kind() Kind { return KindArc }

func (a *Arc) Clone() Payload {
	out := *a
	return &out
}

func (a *Arc) BBox() common.BBox {
	// Conservative: the full circle's box. Tight arc boxes are not worth the
	// quadrant bookkeeping for culling purposes.
	return common.BBox{
		MinX: a.Center.X - a.Radius,
		MinY: a.Center.Y - a.Radius,
		MaxX: a.Center.X + a.Radius,
		MaxY: a.Center.Y + a.Radius,
	}
}

func (a *Arc) Validate() error {
	if a.Radius < 0 {
		return fmt.Errorf("arc: negative radius %v", a.Radius)
	}
	return nil
}

// CubicSegment is one cubic bezier curve. The segment's start point is the
// previous segment's End (or the subpath's Start for the first segment).
type CubicSegment struct {
	C1  common.Vec2 `yaml:"c1"`
	C2  common.Vec2 `yaml:"c2"`
	End common.Vec2 `yaml:"end"`
}

// Subpath is a connected run of cubic segments. A closed subpath's final
// segment ends exactly on Start.
type Subpath struct {
	Start    common.Vec2    `yaml:"start"`
	Segments []CubicSegment `yaml:"segments"`
	Closed   bool           `yaml:"closed"`
}

// Path is the general cubic bezier form. It is the common currency of
// morphing and vector derivation: every drawable leaf kind converts to it
// via AsPath.
type Path struct {
	Subpaths []Subpath `yaml:"subpaths"`
}

func (p *Path) Kind() Kind { return KindPath }

func (p *Path) Clone() Payload {
	out := &Path{}
	if p.Subpaths != nil {
		out.Subpaths = make([]Subpath, len(p.Subpaths))
		for i, sp := range p.Subpaths {
			cloned := Subpath{Start: sp.Start, Closed: sp.Closed}
			if sp.Segments != nil {
				cloned.Segments = make([]CubicSegment, len(sp.Segments))
				copy(cloned.Segments, sp.Segments)
			}
			out.Subpaths[i] = cloned
		}
	}
	return out
}

func (p *Path) BBox() common.BBox {
	// Control points bound the curve, so including them yields a valid
	// (slightly loose) box without flattening.
	box := common.EmptyBBox()
	for _, sp := range p.Subpaths {
		box = box.Include(sp.Start)
		for _, seg := range sp.Segments {
			box = box.Include(seg.C1).Include(seg.C2).Include(seg.End)
		}
	}
	return box
}

func (p *Path) Validate() error {
	for i, sp := range p.Subpaths {
		if len(sp.Segments) == 0 {
			return fmt.Errorf("path: subpath %d has no segments", i)
		}
	}
	return nil
}

// PointCloud is a set of points with optional per-point colors. Colors must
// be either empty or the same length as Points.
type PointCloud struct {
	Points []common.Vec2
	Colors []colorful.Color
}

func (pc *PointCloud) Kind() Kind { return KindPointCloud }

func (pc *PointCloud) Clone() Payload {
	out := &PointCloud{}
	if pc.Points != nil {
		out.Points = make([]common.Vec2, len(pc.Points))
		copy(out.Points, pc.Points)
	}
	if pc.Colors != nil {
		out.Colors = make([]colorful.Color, len(pc.Colors))
		copy(out.Colors, pc.Colors)
	}
	return out
}

func (pc *PointCloud) BBox() common.BBox {
	box := common.EmptyBBox()
	for _, pt := range pc.Points {
		box = box.Include(pt)
	}
	return box
}

func (pc *PointCloud) Validate() error {
	if len(pc.Colors) != 0 && len(pc.Colors) != len(pc.Points) {
		return fmt.Errorf("point_cloud: %d colors for %d points", len(pc.Colors), len(pc.Points))
	}
	return nil
}

var (
	_ Payload = &Empty{}
	_ Payload = &Line{}
	_ Payload = &Circle{}
	_ Payload = &Rect{}
	_ Payload = &Polygon{}
	_ Payload = &Arc{}
	_ Payload = &Path{}
	_ Payload = &PointCloud{}
)
