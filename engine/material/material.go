package material

import (
	"fmt"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/ralvey/morph-go/common"
)

// MaterialClass identifies how a payload's data is turned into renderable
// data.
type MaterialClass int

const (
	// ClassVector derives stroked (and optionally filled) vector outlines.
	ClassVector MaterialClass = iota
	// ClassMesh derives a triangulated primitive mesh.
	ClassMesh
)

// String returns the lowercase name of the class.
//
// Returns:
//   - string: "vector", "mesh", or "unknown"
func (c MaterialClass) String() string {
	switch c {
	case ClassVector:
		return "vector"
	case ClassMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

const (
	// MinQuality is the lowest tessellation level.
	MinQuality = 1
	// MaxQuality is the highest tessellation level.
	MaxQuality = 64
	// DefaultQuality is the tessellation level applied when none is set.
	DefaultQuality = 16
	// DefaultStrokeWidth is the default stroke width in world units x 1/100.
	DefaultStrokeWidth = 4.0
)

// material is the implementation of the Material interface.
type material struct {
	mu *sync.RWMutex

	name        string
	class       MaterialClass
	stroke      colorful.Color
	fill        colorful.Color
	strokeWidth float64
	opacity     float64
	fillEnabled bool
	quality     int
}

// Material defines the interface for a render material. A material carries
// no geometry of its own: it describes how the renderer should turn a
// payload's data into renderable output (vector outlines or a mesh), with
// what colors, stroke width, and tessellation quality.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Class retrieves the material class that selects the derivation output.
	//
	// Returns:
	//   - MaterialClass: the class
	Class() MaterialClass

	// Stroke retrieves the stroke color.
	//
	// Returns:
	//   - colorful.Color: the stroke color
	Stroke() colorful.Color

	// Fill retrieves the fill color.
	//
	// Returns:
	//   - colorful.Color: the fill color
	Fill() colorful.Color

	// StrokeWidth retrieves the stroke width in world units x 1/100.
	//
	// Returns:
	//   - float64: the stroke width
	StrokeWidth() float64

	// Opacity retrieves the overall opacity in [0, 1].
	//
	// Returns:
	//   - float64: the opacity
	Opacity() float64

	// FillEnabled reports whether closed shapes are filled.
	//
	// Returns:
	//   - bool: true if filling is enabled
	FillEnabled() bool

	// Quality retrieves the tessellation level in [MinQuality, MaxQuality].
	// Higher levels flatten curves more densely.
	//
	// Returns:
	//   - int: the tessellation level
	Quality() int

	// PipelineKey retrieves the derivation cache key component identifying
	// the class and quality this material derives with.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// SetStroke sets the stroke color.
	//
	// Parameters:
	//   - c: the stroke color
	SetStroke(c colorful.Color)

	// SetFill sets the fill color and enables filling.
	//
	// Parameters:
	//   - c: the fill color
	SetFill(c colorful.Color)

	// SetStrokeWidth sets the stroke width. Negative widths clamp to zero.
	//
	// Parameters:
	//   - width: the stroke width in world units x 1/100
	SetStrokeWidth(width float64)

	// SetOpacity sets the overall opacity, clamped to [0, 1].
	//
	// Parameters:
	//   - opacity: the opacity
	SetOpacity(opacity float64)
}

var _ Material = &material{}

// NewMaterial creates a new Material configured with the given options.
// The default material is vector class with a white stroke of width
// DefaultStrokeWidth, no fill, full opacity, and DefaultQuality tessellation.
//
// Parameters:
//   - options: functional options to configure the material
//
// Returns:
//   - Material: the newly created material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:          &sync.RWMutex{},
		class:       ClassVector,
		stroke:      colorful.Color{R: 1, G: 1, B: 1},
		strokeWidth: DefaultStrokeWidth,
		opacity:     1,
		quality:     DefaultQuality,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *material) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.name
}

func (m *material) Class() MaterialClass {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.class
}

func (m *material) Stroke() colorful.Color {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stroke
}

func (m *material) Fill() colorful.Color {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fill
}

func (m *material) StrokeWidth() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.strokeWidth
}

func (m *material) Opacity() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opacity
}

func (m *material) FillEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fillEnabled
}

func (m *material) Quality() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.quality
}

func (m *material) PipelineKey() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("%s:q%d", m.class, m.quality)
}

func (m *material) SetStroke(c colorful.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stroke = c
}

func (m *material) SetFill(c colorful.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fill = c
	m.fillEnabled = true
}

func (m *material) SetStrokeWidth(width float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strokeWidth = max(width, 0)
}

func (m *material) SetOpacity(opacity float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opacity = common.Clamp(opacity, 0, 1)
}

// LerpMaterial blends two materials at parameter t. Colors blend in HCL
// space; scalar properties interpolate linearly. The result takes a's name,
// class, quality, and fill flag at t < 0.5 and b's at t >= 0.5.
//
// Parameters:
//   - a: the source material
//   - b: the destination material
//   - t: the interpolation parameter, clamped to [0, 1]
//
// Returns:
//   - Material: the blended material
func LerpMaterial(a, b Material, t float64) Material {
	t = common.Clamp(t, 0, 1)
	lead := a
	if t >= 0.5 {
		lead = b
	}
	return NewMaterial(
		WithName(lead.Name()),
		WithClass(lead.Class()),
		WithQuality(lead.Quality()),
		WithStroke(a.Stroke().BlendHcl(b.Stroke(), t)),
		WithFill(a.Fill().BlendHcl(b.Fill(), t)),
		WithFillEnabled(lead.FillEnabled()),
		WithStrokeWidth(common.Lerp(a.StrokeWidth(), b.StrokeWidth(), t)),
		WithOpacity(common.Lerp(a.Opacity(), b.Opacity(), t)),
	)
}
