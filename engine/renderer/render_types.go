package renderer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/ralvey/morph-go/common"
)

// frameMagic identifies the start of an encoded frame on the wire.
const frameMagic = "MFRM"

// frameVersion is the current frame wire-format version.
const frameVersion byte = 1

// Outline is a flattened polyline ready to stroke. Coordinates are in pixel
// space when the deriving renderer has a camera attached, otherwise world
// space.
type Outline struct {
	Name        string
	Points      []common.Vec2
	Closed      bool
	Stroke      colorful.Color
	StrokeWidth float64
	Fill        colorful.Color
	FillEnabled bool
	Opacity     float64
}

// Mesh is a triangulated fill. Indices reference Vertices in groups of
// three.
type Mesh struct {
	Name     string
	Vertices []common.Vec2
	Indices  []uint32
	Color    colorful.Color
	Opacity  float64
}

// Dots is point-cloud output. Colors cycles over Points when shorter.
type Dots struct {
	Name    string
	Points  []common.Vec2
	Colors  []colorful.Color
	Radius  float64
	Opacity float64
}

// RenderSet is the derivation output for a single object. Group objects
// contribute the union of their children's sets.
type RenderSet struct {
	Outlines []Outline
	Meshes   []Mesh
	Dots     []Dots
}

// Append merges another set into this one in order.
//
// Parameters:
//   - other: the set to merge in
func (s *RenderSet) Append(other RenderSet) {
	s.Outlines = append(s.Outlines, other.Outlines...)
	s.Meshes = append(s.Meshes, other.Meshes...)
	s.Dots = append(s.Dots, other.Dots...)
}

// Empty reports whether the set holds no renderable data.
//
// Returns:
//   - bool: true when there is nothing to draw
func (s *RenderSet) Empty() bool {
	return len(s.Outlines) == 0 && len(s.Meshes) == 0 && len(s.Dots) == 0
}

// Frame is one complete derived frame, the unit published to consumers.
type Frame struct {
	Seq         uint64
	PixelWidth  int
	PixelHeight int
	Outlines    []Outline
	Meshes      []Mesh
	Dots        []Dots
}

// MarshalBinary encodes the frame as versioned little-endian bytes. The
// layout is a 4-byte magic, a version byte, the header fields, then
// length-prefixed outline, mesh, and dot records. Coordinates are float32
// and color channels are 8-bit sRGB.
//
// Returns:
//   - []byte: the encoded frame
//   - error: always nil, kept for the encoding.BinaryMarshaler contract
func (f *Frame) MarshalBinary() ([]byte, error) {
	data := make([]byte, 0, 64)
	data = append(data, frameMagic...)
	data = append(data, frameVersion)
	data = binary.LittleEndian.AppendUint64(data, f.Seq)
	data = binary.LittleEndian.AppendUint32(data, uint32(f.PixelWidth))
	data = binary.LittleEndian.AppendUint32(data, uint32(f.PixelHeight))

	data = binary.LittleEndian.AppendUint32(data, uint32(len(f.Outlines)))
	for i := range f.Outlines {
		data = appendOutline(data, &f.Outlines[i])
	}
	data = binary.LittleEndian.AppendUint32(data, uint32(len(f.Meshes)))
	for i := range f.Meshes {
		data = appendMesh(data, &f.Meshes[i])
	}
	data = binary.LittleEndian.AppendUint32(data, uint32(len(f.Dots)))
	for i := range f.Dots {
		data = appendDots(data, &f.Dots[i])
	}
	return data, nil
}

// UnmarshalBinary decodes a frame produced by MarshalBinary. It rejects
// buffers with the wrong magic, an unsupported version, or truncated
// records.
//
// Parameters:
//   - data: the encoded frame bytes
//
// Returns:
//   - error: an error describing the first malformed field, or nil
func (f *Frame) UnmarshalBinary(data []byte) error {
	r := &frameReader{data: data}
	magic := r.bytes(4)
	if r.err == nil && string(magic) != frameMagic {
		return fmt.Errorf("frame: bad magic %q", magic)
	}
	version := r.byte()
	if r.err == nil && version != frameVersion {
		return fmt.Errorf("frame: unsupported version %d", version)
	}
	f.Seq = r.uint64()
	f.PixelWidth = int(r.uint32())
	f.PixelHeight = int(r.uint32())

	outlineCount := r.uint32()
	f.Outlines = nil
	for i := uint32(0); i < outlineCount && r.err == nil; i++ {
		f.Outlines = append(f.Outlines, readOutline(r))
	}
	meshCount := r.uint32()
	f.Meshes = nil
	for i := uint32(0); i < meshCount && r.err == nil; i++ {
		f.Meshes = append(f.Meshes, readMesh(r))
	}
	dotsCount := r.uint32()
	f.Dots = nil
	for i := uint32(0); i < dotsCount && r.err == nil; i++ {
		f.Dots = append(f.Dots, readDots(r))
	}
	return r.err
}

func appendOutline(data []byte, o *Outline) []byte {
	data = appendString(data, o.Name)
	if o.Closed {
		data = append(data, 1)
	} else {
		data = append(data, 0)
	}
	data = appendColor(data, o.Stroke)
	data = appendColor(data, o.Fill)
	if o.FillEnabled {
		data = append(data, 1)
	} else {
		data = append(data, 0)
	}
	data = common.AppendFloat32(data, float32(o.StrokeWidth))
	data = common.AppendFloat32(data, float32(o.Opacity))
	data = appendPoints(data, o.Points)
	return data
}

func readOutline(r *frameReader) Outline {
	var o Outline
	o.Name = r.string()
	o.Closed = r.byte() == 1
	o.Stroke = r.color()
	o.Fill = r.color()
	o.FillEnabled = r.byte() == 1
	o.StrokeWidth = float64(r.float32())
	o.Opacity = float64(r.float32())
	o.Points = r.points()
	return o
}

func appendMesh(data []byte, m *Mesh) []byte {
	data = appendString(data, m.Name)
	data = appendColor(data, m.Color)
	data = common.AppendFloat32(data, float32(m.Opacity))
	data = appendPoints(data, m.Vertices)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(m.Indices)))
	for _, idx := range m.Indices {
		data = binary.LittleEndian.AppendUint32(data, idx)
	}
	return data
}

func readMesh(r *frameReader) Mesh {
	var m Mesh
	m.Name = r.string()
	m.Color = r.color()
	m.Opacity = float64(r.float32())
	m.Vertices = r.points()
	count := r.uint32()
	for i := uint32(0); i < count && r.err == nil; i++ {
		m.Indices = append(m.Indices, r.uint32())
	}
	return m
}

func appendDots(data []byte, d *Dots) []byte {
	data = appendString(data, d.Name)
	data = common.AppendFloat32(data, float32(d.Radius))
	data = common.AppendFloat32(data, float32(d.Opacity))
	data = appendPoints(data, d.Points)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(d.Colors)))
	for _, c := range d.Colors {
		data = appendColor(data, c)
	}
	return data
}

func readDots(r *frameReader) Dots {
	var d Dots
	d.Name = r.string()
	d.Radius = float64(r.float32())
	d.Opacity = float64(r.float32())
	d.Points = r.points()
	count := r.uint32()
	for i := uint32(0); i < count && r.err == nil; i++ {
		d.Colors = append(d.Colors, r.color())
	}
	return d
}

func appendString(data []byte, s string) []byte {
	if len(s) > math.MaxUint16 {
		s = s[:math.MaxUint16]
	}
	data = binary.LittleEndian.AppendUint16(data, uint16(len(s)))
	return append(data, s...)
}

func appendColor(data []byte, c colorful.Color) []byte {
	r, g, b := c.Clamped().RGB255()
	return append(data, r, g, b)
}

func appendPoints(data []byte, points []common.Vec2) []byte {
	data = binary.LittleEndian.AppendUint32(data, uint32(len(points)))
	for _, p := range points {
		data = common.AppendFloat32(data, float32(p.X))
		data = common.AppendFloat32(data, float32(p.Y))
	}
	return data
}

// frameReader is a cursor over an encoded frame. The first short read
// latches an error and every later read returns zero values, so decode
// paths stay linear.
type frameReader struct {
	data []byte
	err  error
}

func (r *frameReader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.data) < n {
		r.err = fmt.Errorf("frame: truncated buffer, want %d more bytes, have %d", n, len(r.data))
		return nil
	}
	out := r.data[:n]
	r.data = r.data[n:]
	return out
}

func (r *frameReader) byte() byte {
	b := r.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *frameReader) uint32() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *frameReader) uint64() uint64 {
	b := r.bytes(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *frameReader) float32() float32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	v, _ := common.ReadFloat32(b)
	return v
}

func (r *frameReader) string() string {
	b := r.bytes(2)
	if b == nil {
		return ""
	}
	return string(r.bytes(int(binary.LittleEndian.Uint16(b))))
}

func (r *frameReader) color() colorful.Color {
	b := r.bytes(3)
	if b == nil {
		return colorful.Color{}
	}
	return colorful.Color{
		R: float64(b[0]) / 255.0,
		G: float64(b[1]) / 255.0,
		B: float64(b[2]) / 255.0,
	}
}

func (r *frameReader) points() []common.Vec2 {
	count := r.uint32()
	var out []common.Vec2
	for i := uint32(0); i < count && r.err == nil; i++ {
		x := r.float32()
		y := r.float32()
		if r.err == nil {
			out = append(out, common.Vec2{X: float64(x), Y: float64(y)})
		}
	}
	return out
}
