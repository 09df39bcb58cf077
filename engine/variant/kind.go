// package variant defines the tagged payload model: the swappable "what am I
// right now" data that lives behind a mobject handle. Payloads are pure data;
// behavior that depends on the current kind dispatches over the Kind tag.
package variant

// Kind identifies the logical shape a payload describes.
type Kind int

const (
	// KindEmpty is a payload with no geometry. It is the kind a handle takes
	// on when Become is called with a nil payload.
	KindEmpty Kind = iota
	// KindLine is a straight segment between two points.
	KindLine
	// KindCircle is a circle described by center and radius.
	KindCircle
	// KindRect is an axis-aligned rectangle with an optional corner radius.
	KindRect
	// KindPolygon is an open or closed chain of straight edges.
	KindPolygon
	// KindArc is a circular arc described by center, radius, and sweep.
	KindArc
	// KindPath is the general cubic bezier form every other drawable kind
	// can be converted to.
	KindPath
	// KindPointCloud is a set of points with optional per-point colors.
	KindPointCloud
	// KindGroup is a collection of child handles. Group payloads live in the
	// mobject package because they hold handles rather than plain data.
	KindGroup
)

// String returns the lowercase wire name of the kind. Unknown kinds
// stringify as "unknown".
//
// Returns:
//   - string: the kind name
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindLine:
		return "line"
	case KindCircle:
		return "circle"
	case KindRect:
		return "rect"
	case KindPolygon:
		return "polygon"
	case KindArc:
		return "arc"
	case KindPath:
		return "path"
	case KindPointCloud:
		return "point_cloud"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}
