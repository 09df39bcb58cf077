package renderer

import (
	"github.com/ralvey/morph-go/engine/camera"
)

type RendererBuilderOption func(*renderer)

// WithBackendType selects the derivation backend.
//
// Parameters:
//   - backendType: the backend to use
//
// Returns:
//   - RendererBuilderOption: a function that sets the backend type
func WithBackendType(backendType RendererBackendType) RendererBuilderOption {
	return func(r *renderer) {
		r.backendType = backendType
	}
}

// WithCamera attaches a camera. Derivation output is mapped into the
// camera's pixel space and the camera revision becomes part of the cache
// key.
//
// Parameters:
//   - cam: the camera to attach
//
// Returns:
//   - RendererBuilderOption: a function that sets the camera
func WithCamera(cam camera.Camera) RendererBuilderOption {
	return func(r *renderer) {
		r.cam = cam
	}
}

// WithCache sets the derivation cache capacity. Values below one fall back
// to the default capacity.
//
// Parameters:
//   - size: the maximum number of cached derivation results
//
// Returns:
//   - RendererBuilderOption: a function that sets the cache size
func WithCache(size int) RendererBuilderOption {
	return func(r *renderer) {
		r.cache = newDeriveCache(size)
	}
}

// WithCulling controls whether objects outside the camera's visible frame
// are skipped. Culling only takes effect when a camera is attached.
//
// Parameters:
//   - enabled: true to skip off-frame objects
//
// Returns:
//   - RendererBuilderOption: a function that sets the culling flag
func WithCulling(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.culling = enabled
	}
}
