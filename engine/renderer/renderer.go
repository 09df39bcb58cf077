package renderer

import (
	"fmt"
	"sync/atomic"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/ralvey/morph-go/common"
	"github.com/ralvey/morph-go/engine/camera"
	"github.com/ralvey/morph-go/engine/mobject"
)

// Stats is a snapshot of the renderer's cache and culling counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	CullSkips uint64
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     rendererBackend

	cam     camera.Camera
	culling bool

	cache *deriveCache

	hits      atomic.Uint64
	misses    atomic.Uint64
	cullSkips atomic.Uint64
}

// Renderer defines the interface for the derivation system.
//
// This is a high-level API that turns object handles into renderable data.
// The Renderer manages a bounded cache of derivation results keyed on
// object identity, generation, material pipeline, and camera revision, so
// unchanged objects skip flattening entirely. The Renderer also implements
// a backend which allows for multiple derivation strategies to exist.
type Renderer interface {
	// BackendType returns the derivation backend selected at construction.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	BackendType() RendererBackendType

	// Camera returns the attached camera, or nil when derivation stays in
	// world space.
	//
	// Returns:
	//   - camera.Camera: the attached camera or nil
	Camera() camera.Camera

	// Derive turns one object handle into renderable data. Disabled
	// objects derive to an empty set. Group payloads recurse depth-first
	// into their children, skipping disabled ones. With a camera attached,
	// output coordinates are in pixel space and objects outside the
	// visible frame are culled.
	//
	// Parameters:
	//   - obj: the object to derive
	//
	// Returns:
	//   - RenderSet: the derived render data, read-only for the caller
	//   - error: an error when the payload kind or material class cannot
	//     be served
	Derive(obj mobject.Mobject) (RenderSet, error)

	// Stats returns a snapshot of the cache hit, miss, and cull counters.
	//
	// Returns:
	//   - Stats: the current counter values
	Stats() Stats
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified options. Without
// options it derives stroke geometry in world space with a 1024-entry
// cache and culling armed for when a camera is attached.
//
// Parameters:
//   - options: variadic list of RendererBuilderOption functions to
//     configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the options
func NewRenderer(options ...RendererBuilderOption) Renderer {
	r := &renderer{
		backendType: BackendTypeVector,
		culling:     true,
		cache:       newDeriveCache(defaultCacheSize),
	}
	for _, opt := range options {
		opt(r)
	}

	switch r.backendType {
	case BackendTypeMesh:
		r.backend = newMeshRendererBackend()
	case BackendTypeVector:
		fallthrough
	default:
		r.backend = newVectorRendererBackend()
	}
	return r
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) Camera() camera.Camera {
	return r.cam
}

func (r *renderer) Stats() Stats {
	return Stats{
		Hits:      r.hits.Load(),
		Misses:    r.misses.Load(),
		CullSkips: r.cullSkips.Load(),
	}
}

func (r *renderer) Derive(obj mobject.Mobject) (RenderSet, error) {
	if obj == nil {
		return RenderSet{}, fmt.Errorf("renderer: cannot derive nil object")
	}
	return r.deriveObject(obj)
}

func (r *renderer) deriveObject(obj mobject.Mobject) (RenderSet, error) {
	if !obj.Enabled() {
		return RenderSet{}, nil
	}

	mat := obj.Material()
	if r.cam != nil && r.culling {
		pad := mat.StrokeWidth() * worldStrokeScale
		if r.cam.Cull(obj.BBox().Pad(pad)) {
			r.cullSkips.Add(1)
			return RenderSet{}, nil
		}
	}

	payload := obj.Payload()
	if group, ok := payload.(*mobject.Group); ok {
		var set RenderSet
		for _, child := range group.Children() {
			childSet, err := r.deriveObject(child)
			if err != nil {
				return RenderSet{}, err
			}
			set.Append(childSet)
		}
		return set, nil
	}

	key := cacheKey{
		objectID:    obj.ID(),
		generation:  obj.Generation(),
		pipelineKey: mat.PipelineKey(),
	}
	if r.cam != nil {
		key.cameraRevision = r.cam.Revision()
	}
	if set, ok := r.cache.get(key); ok {
		r.hits.Add(1)
		return set, nil
	}

	set, err := r.backend.derivePayload(obj.Name(), payload, mat)
	if err != nil {
		return RenderSet{}, err
	}
	if r.cam != nil {
		set = mapToPixels(set, r.cam)
	}
	r.misses.Add(1)
	r.cache.put(key, set)
	return set, nil
}

// mapToPixels transforms a world-space set into pixel space using the
// camera's current frame. Widths and radii scale by the pixels-per-world
// ratio. Input slices are never mutated because cached sets are shared.
func mapToPixels(set RenderSet, cam camera.Camera) RenderSet {
	matrix := cam.Matrix()
	scale := float64(cam.PixelWidth()) / cam.FrameWidth()

	out := RenderSet{}
	for _, o := range set.Outlines {
		mapped := o
		mapped.Points = mapPoints(o.Points, matrix)
		mapped.StrokeWidth = o.StrokeWidth * scale
		out.Outlines = append(out.Outlines, mapped)
	}
	for _, m := range set.Meshes {
		mapped := m
		mapped.Vertices = mapPoints(m.Vertices, matrix)
		mapped.Indices = append([]uint32(nil), m.Indices...)
		out.Meshes = append(out.Meshes, mapped)
	}
	for _, d := range set.Dots {
		mapped := d
		mapped.Points = mapPoints(d.Points, matrix)
		mapped.Colors = append([]colorful.Color(nil), d.Colors...)
		mapped.Radius = d.Radius * scale
		out.Dots = append(out.Dots, mapped)
	}
	return out
}

func mapPoints(points []common.Vec2, matrix common.Mat3) []common.Vec2 {
	out := make([]common.Vec2, len(points))
	for i, p := range points {
		out[i] = matrix.Apply(p)
	}
	return out
}
