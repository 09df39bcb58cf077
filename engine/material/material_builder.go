package material

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/ralvey/morph-go/common"
)

// MaterialBuilderOption is a functional option for configuring a Material during construction.
type MaterialBuilderOption func(*material)

// WithName sets the material identifier.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - MaterialBuilderOption: functional option to set the name
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithClass sets the material class selecting the derivation output.
//
// Parameters:
//   - class: the MaterialClass to use
//
// Returns:
//   - MaterialBuilderOption: functional option to set the class
func WithClass(class MaterialClass) MaterialBuilderOption {
	return func(m *material) {
		m.class = class
	}
}

// WithStroke sets the stroke color.
//
// Parameters:
//   - c: the stroke color
//
// Returns:
//   - MaterialBuilderOption: functional option to set the stroke color
func WithStroke(c colorful.Color) MaterialBuilderOption {
	return func(m *material) {
		m.stroke = c
	}
}

// WithStrokeHex sets the stroke color from a hex string such as "#ffd866".
// Invalid hex strings leave the stroke unchanged.
//
// Parameters:
//   - hex: the hex color string
//
// Returns:
//   - MaterialBuilderOption: functional option to set the stroke color
func WithStrokeHex(hex string) MaterialBuilderOption {
	return func(m *material) {
		if c, err := colorful.Hex(hex); err == nil {
			m.stroke = c
		}
	}
}

// WithFill sets the fill color without toggling the fill flag; combine with
// WithFillEnabled to fill closed shapes.
//
// Parameters:
//   - c: the fill color
//
// Returns:
//   - MaterialBuilderOption: functional option to set the fill color
func WithFill(c colorful.Color) MaterialBuilderOption {
	return func(m *material) {
		m.fill = c
	}
}

// WithFillHex sets the fill color from a hex string and enables filling.
// Invalid hex strings leave the fill unchanged.
//
// Parameters:
//   - hex: the hex color string
//
// Returns:
//   - MaterialBuilderOption: functional option to set the fill color
func WithFillHex(hex string) MaterialBuilderOption {
	return func(m *material) {
		if c, err := colorful.Hex(hex); err == nil {
			m.fill = c
			m.fillEnabled = true
		}
	}
}

// WithFillEnabled sets whether closed shapes are filled.
//
// Parameters:
//   - enabled: true to fill closed shapes
//
// Returns:
//   - MaterialBuilderOption: functional option to set the fill flag
func WithFillEnabled(enabled bool) MaterialBuilderOption {
	return func(m *material) {
		m.fillEnabled = enabled
	}
}

// WithStrokeWidth sets the stroke width in world units x 1/100. Negative
// widths clamp to zero.
//
// Parameters:
//   - width: the stroke width
//
// Returns:
//   - MaterialBuilderOption: functional option to set the stroke width
func WithStrokeWidth(width float64) MaterialBuilderOption {
	return func(m *material) {
		m.strokeWidth = max(width, 0)
	}
}

// WithOpacity sets the overall opacity, clamped to [0, 1].
//
// Parameters:
//   - opacity: the opacity
//
// Returns:
//   - MaterialBuilderOption: functional option to set the opacity
func WithOpacity(opacity float64) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = common.Clamp(opacity, 0, 1)
	}
}

// WithQuality sets the tessellation level, clamped to [MinQuality, MaxQuality].
//
// Parameters:
//   - quality: the tessellation level
//
// Returns:
//   - MaterialBuilderOption: functional option to set the quality
func WithQuality(quality int) MaterialBuilderOption {
	return func(m *material) {
		if quality < MinQuality {
			quality = MinQuality
		}
		if quality > MaxQuality {
			quality = MaxQuality
		}
		m.quality = quality
	}
}
