package renderer

import (
	"github.com/ralvey/morph-go/engine/material"
	"github.com/ralvey/morph-go/engine/variant"
)

// RendererBackendType identifies the derivation backend implementation used
// by the Renderer.
type RendererBackendType int

const (
	// BackendTypeVector derives stroke geometry only: outlines for drawable
	// variants and dots for point clouds. Mesh-class materials are rejected.
	BackendTypeVector RendererBackendType = iota

	// BackendTypeMesh derives triangulated fills for closed shapes with
	// mesh-class materials, and falls back to stroke geometry for
	// everything else. This backend handles both material classes.
	BackendTypeMesh
)

// rendererBackend is the internal derivation interface. A backend turns one
// non-group payload into renderable data in world space; the Renderer facade
// handles groups, caching, culling, and camera mapping.
type rendererBackend interface {
	// derivePayload derives render data from a single payload.
	//
	// Parameters:
	//   - name: the owning object's name, carried onto the output records
	//   - p: the payload to derive, never a group
	//   - mat: the material governing colors, widths, and quality
	//
	// Returns:
	//   - RenderSet: the derived render data in world space
	//   - error: an error when the backend cannot serve the material class
	derivePayload(name string, p variant.Payload, mat material.Material) (RenderSet, error)
}
