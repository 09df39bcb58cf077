package renderer

import (
	"fmt"

	"github.com/ralvey/morph-go/engine/material"
	"github.com/ralvey/morph-go/engine/variant"
)

type meshRendererBackend struct{}

var _ rendererBackend = &meshRendererBackend{}

// newMeshRendererBackend creates the triangulating derivation backend.
// It serves both material classes, so it is the capability ceiling.
//
// Returns:
//   - rendererBackend: the mesh backend
func newMeshRendererBackend() rendererBackend {
	return &meshRendererBackend{}
}

func (b *meshRendererBackend) derivePayload(name string, p variant.Payload, mat material.Material) (RenderSet, error) {
	if mat.Class() != material.ClassMesh {
		return deriveStrokes(name, p, mat)
	}

	switch payload := p.(type) {
	case *variant.Empty:
		return RenderSet{}, nil
	case *variant.PointCloud:
		return RenderSet{Dots: []Dots{deriveDots(name, payload, mat)}}, nil
	default:
		path, err := variant.AsPath(p)
		if err != nil {
			return RenderSet{}, fmt.Errorf("renderer: derive %q: %w", name, err)
		}
		set := RenderSet{Outlines: deriveOutlines(name, path, mat)}
		if mat.FillEnabled() {
			set.Meshes = deriveMeshes(name, path, mat)
		}
		return set, nil
	}
}

// deriveMeshes triangulates every closed subpath into one Mesh. Open
// subpaths contribute stroke geometry only.
func deriveMeshes(name string, path *variant.Path, mat material.Material) []Mesh {
	flat := flattenPath(path, mat.Quality())
	var out []Mesh
	for _, sp := range flat {
		if !sp.closed || len(sp.points) < 3 {
			continue
		}
		indices := triangulate(sp.points)
		if len(indices) == 0 {
			continue
		}
		out = append(out, Mesh{
			Name:     name,
			Vertices: sp.points,
			Indices:  indices,
			Color:    mat.Fill(),
			Opacity:  mat.Opacity(),
		})
	}
	return out
}
