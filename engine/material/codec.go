package material

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v2"
)

// yamlMaterial is the serialized shape of a material. Every field is
// optional; absent fields keep the NewMaterial defaults, so partial blocks
// in documents and snapshots decode field-by-field.
type yamlMaterial struct {
	Name        *string  `yaml:"name,omitempty"`
	Class       *string  `yaml:"class,omitempty"`
	Stroke      *string  `yaml:"stroke,omitempty"`
	Fill        *string  `yaml:"fill,omitempty"`
	StrokeWidth *float64 `yaml:"stroke_width,omitempty"`
	Opacity     *float64 `yaml:"opacity,omitempty"`
	FillEnabled *bool    `yaml:"fill_enabled,omitempty"`
	Quality     *int     `yaml:"quality,omitempty"`
}

// Encode serializes a material to its YAML form with all fields explicit.
//
// Parameters:
//   - m: the material to encode
//
// Returns:
//   - []byte: the YAML body
//   - error: an error if marshaling fails
func Encode(m Material) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("material: cannot encode nil material")
	}
	name := m.Name()
	class := m.Class().String()
	stroke := m.Stroke().Clamped().Hex()
	fill := m.Fill().Clamped().Hex()
	strokeWidth := m.StrokeWidth()
	opacity := m.Opacity()
	fillEnabled := m.FillEnabled()
	quality := m.Quality()
	return yaml.Marshal(yamlMaterial{
		Name:        &name,
		Class:       &class,
		Stroke:      &stroke,
		Fill:        &fill,
		StrokeWidth: &strokeWidth,
		Opacity:     &opacity,
		FillEnabled: &fillEnabled,
		Quality:     &quality,
	})
}

// Decode parses a YAML material body. Fields not present in the body keep
// the NewMaterial defaults.
//
// Parameters:
//   - data: the YAML body
//
// Returns:
//   - Material: the decoded material
//   - error: an error if the body does not parse or names an unknown class or color
func Decode(data []byte) (Material, error) {
	var raw yamlMaterial
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("material: decode: %w", err)
	}

	var options []MaterialBuilderOption
	if raw.Name != nil {
		options = append(options, WithName(*raw.Name))
	}
	if raw.Class != nil {
		switch *raw.Class {
		case "vector":
			options = append(options, WithClass(ClassVector))
		case "mesh":
			options = append(options, WithClass(ClassMesh))
		default:
			return nil, fmt.Errorf("material: unknown class %q", *raw.Class)
		}
	}
	if raw.Stroke != nil {
		c, err := colorful.Hex(*raw.Stroke)
		if err != nil {
			return nil, fmt.Errorf("material: stroke color: %w", err)
		}
		options = append(options, WithStroke(c))
	}
	if raw.Fill != nil {
		c, err := colorful.Hex(*raw.Fill)
		if err != nil {
			return nil, fmt.Errorf("material: fill color: %w", err)
		}
		options = append(options, WithFill(c), WithFillEnabled(true))
	}
	if raw.StrokeWidth != nil {
		options = append(options, WithStrokeWidth(*raw.StrokeWidth))
	}
	if raw.Opacity != nil {
		options = append(options, WithOpacity(*raw.Opacity))
	}
	if raw.FillEnabled != nil {
		options = append(options, WithFillEnabled(*raw.FillEnabled))
	}
	if raw.Quality != nil {
		options = append(options, WithQuality(*raw.Quality))
	}
	return NewMaterial(options...), nil
}
