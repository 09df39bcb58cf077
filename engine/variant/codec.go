package variant

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/ralvey/morph-go/common"
	"gopkg.in/yaml.v2"
)

// yamlPointCloud is the serialized shape of a PointCloud. Colors travel as
// hex strings so the wire form stays readable and sRGB-exact.
type yamlPointCloud struct {
	Points []common.Vec2 `yaml:"points"`
	Colors []string      `yaml:"colors,omitempty"`
}

// Encode serializes a payload body to YAML. The kind tag is not part of the
// body; callers persist it alongside (the snapshot store's kind column, the
// document loader's kind field). Group payloads do not round-trip through
// this codec; group membership persists as child name lists.
//
// Parameters:
//   - p: the payload to encode
//
// Returns:
//   - []byte: the YAML body
//   - error: an error if the payload kind cannot be encoded
func Encode(p Payload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("variant: cannot encode nil payload")
	}
	switch v := p.(type) {
	case *Empty:
		return []byte("{}\n"), nil
	case *PointCloud:
		out := yamlPointCloud{Points: v.Points}
		for _, c := range v.Colors {
			out.Colors = append(out.Colors, c.Clamped().Hex())
		}
		return yaml.Marshal(out)
	case *Line, *Circle, *Rect, *Polygon, *Arc, *Path:
		return yaml.Marshal(v)
	default:
		return nil, fmt.Errorf("variant: kind %q does not round-trip through the payload codec", p.Kind())
	}
}

// Decode parses a YAML payload body for the named kind. Unknown kind strings
// return an error, never a panic.
//
// Parameters:
//   - kind: the wire name of the kind (as produced by Kind.String)
//   - data: the YAML body
//
// Returns:
//   - Payload: the decoded payload
//   - error: an error if the kind is unknown or the body does not parse or validate
func Decode(kind string, data []byte) (Payload, error) {
	var p Payload
	switch kind {
	case "empty":
		p = &Empty{}
	case "line":
		p = &Line{}
	case "circle":
		p = &Circle{}
	case "rect":
		p = &Rect{}
	case "polygon":
		p = &Polygon{}
	case "arc":
		p = &Arc{}
	case "path":
		p = &Path{}
	case "point_cloud":
		var raw yamlPointCloud
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("variant: decode %s: %w", kind, err)
		}
		pc := &PointCloud{Points: raw.Points}
		for i, hex := range raw.Colors {
			c, err := colorful.Hex(hex)
			if err != nil {
				return nil, fmt.Errorf("variant: decode %s: color %d: %w", kind, i, err)
			}
			pc.Colors = append(pc.Colors, c)
		}
		if err := pc.Validate(); err != nil {
			return nil, err
		}
		return pc, nil
	default:
		return nil, fmt.Errorf("variant: unknown kind %q", kind)
	}

	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("variant: decode %s: %w", kind, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
