package renderer

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/ralvey/morph-go/common"
	"github.com/ralvey/morph-go/engine/material"
	"github.com/ralvey/morph-go/engine/variant"
)

// worldStrokeScale converts material stroke width to world units.
const worldStrokeScale = 1.0 / 100.0

type vectorRendererBackend struct{}

var _ rendererBackend = &vectorRendererBackend{}

// newVectorRendererBackend creates the stroke-only derivation backend.
//
// Returns:
//   - rendererBackend: the vector backend
func newVectorRendererBackend() rendererBackend {
	return &vectorRendererBackend{}
}

func (b *vectorRendererBackend) derivePayload(name string, p variant.Payload, mat material.Material) (RenderSet, error) {
	if mat.Class() == material.ClassMesh {
		return RenderSet{}, fmt.Errorf("renderer: vector backend cannot derive mesh-class material %q", mat.Name())
	}
	return deriveStrokes(name, p, mat)
}

// deriveStrokes derives outline and dot geometry for a payload. Both
// backends use this path for vector-class materials.
func deriveStrokes(name string, p variant.Payload, mat material.Material) (RenderSet, error) {
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
		return RenderSet{Outlines: deriveOutlines(name, path, mat)}, nil
	}
}

// deriveOutlines flattens every subpath of a path into one Outline.
func deriveOutlines(name string, path *variant.Path, mat material.Material) []Outline {
	flat := flattenPath(path, mat.Quality())
	out := make([]Outline, 0, len(flat))
	for _, sp := range flat {
		if len(sp.points) == 0 {
			continue
		}
		out = append(out, Outline{
			Name:        name,
			Points:      sp.points,
			Closed:      sp.closed,
			Stroke:      mat.Stroke(),
			StrokeWidth: mat.StrokeWidth() * worldStrokeScale,
			Fill:        mat.Fill(),
			FillEnabled: mat.FillEnabled(),
			Opacity:     mat.Opacity(),
		})
	}
	return out
}

// deriveDots copies point-cloud data onto a Dots record. Clouds without
// explicit colors render in the material stroke color.
func deriveDots(name string, cloud *variant.PointCloud, mat material.Material) Dots {
	d := Dots{
		Name:    name,
		Points:  append([]common.Vec2(nil), cloud.Points...),
		Radius:  mat.StrokeWidth() * worldStrokeScale / 2,
		Opacity: mat.Opacity(),
	}
	if len(cloud.Colors) > 0 {
		d.Colors = append([]colorful.Color(nil), cloud.Colors...)
	} else {
		d.Colors = []colorful.Color{mat.Stroke()}
	}
	return d
}
