package loader

import (
	"fmt"
	"strconv"

	"github.com/ralvey/morph-go/common"
	"github.com/ralvey/morph-go/engine/variant"
)

// ParsePathData parses SVG-style path data into a cubic path. Supported
// commands are M/m (move), L/l (line), C/c (cubic), Q/q (quadratic,
// elevated to cubic), and Z/z (close). Coordinates are separated by
// whitespace or commas. Errors report the byte offset of the offending
// token.
//
// Parameters:
//   - d: the path data string
//
// Returns:
//   - *variant.Path: the parsed path
//   - error: a parse error with byte offset, or nil
func ParsePathData(d string) (*variant.Path, error) {
	p := &pathDataParser{input: d}
	return p.parse()
}

type pathDataParser struct {
	input string
	pos   int

	path    variant.Path
	current *variant.Subpath
	cursor  common.Vec2
	started bool
}

func (p *pathDataParser) parse() (*variant.Path, error) {
	for {
		p.skipSeparators()
		if p.pos >= len(p.input) {
			break
		}

		cmdPos := p.pos
		cmd := p.input[p.pos]
		p.pos++

		relative := cmd >= 'a' && cmd <= 'z'
		switch cmd {
		case 'M', 'm':
			if err := p.moveTo(relative); err != nil {
				return nil, err
			}
		case 'L', 'l':
			if err := p.lineTo(relative); err != nil {
				return nil, err
			}
		case 'C', 'c':
			if err := p.cubicTo(relative); err != nil {
				return nil, err
			}
		case 'Q', 'q':
			if err := p.quadTo(relative); err != nil {
				return nil, err
			}
		case 'Z', 'z':
			if err := p.closeSubpath(cmdPos); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("path data: unsupported command %q at byte %d", cmd, cmdPos)
		}
	}

	p.flush()
	if len(p.path.Subpaths) == 0 {
		return nil, fmt.Errorf("path data: no drawable subpaths")
	}
	return &p.path, nil
}

// moveTo starts a new subpath. Extra coordinate pairs after the first are
// treated as line-tos, per the SVG grammar.
func (p *pathDataParser) moveTo(relative bool) error {
	target, err := p.readPoint()
	if err != nil {
		return err
	}
	if relative {
		target = p.cursor.Add(target)
	}

	p.flush()
	p.current = &variant.Subpath{Start: target}
	p.cursor = target
	p.started = true

	for p.hasNumber() {
		if err := p.lineTo(relative); err != nil {
			return err
		}
	}
	return nil
}

func (p *pathDataParser) lineTo(relative bool) error {
	if err := p.requireSubpath(); err != nil {
		return err
	}
	for {
		target, err := p.readPoint()
		if err != nil {
			return err
		}
		if relative {
			target = p.cursor.Add(target)
		}
		p.appendSegment(straightSegment(p.cursor, target))
		p.cursor = target
		if !p.hasNumber() {
			return nil
		}
	}
}

func (p *pathDataParser) cubicTo(relative bool) error {
	if err := p.requireSubpath(); err != nil {
		return err
	}
	for {
		c1, err := p.readPoint()
		if err != nil {
			return err
		}
		c2, err := p.readPoint()
		if err != nil {
			return err
		}
		target, err := p.readPoint()
		if err != nil {
			return err
		}
		if relative {
			c1 = p.cursor.Add(c1)
			c2 = p.cursor.Add(c2)
			target = p.cursor.Add(target)
		}
		p.appendSegment(variant.CubicSegment{C1: c1, C2: c2, End: target})
		p.cursor = target
		if !p.hasNumber() {
			return nil
		}
	}
}

// quadTo elevates each quadratic segment to an exact cubic.
func (p *pathDataParser) quadTo(relative bool) error {
	if err := p.requireSubpath(); err != nil {
		return err
	}
	for {
		q, err := p.readPoint()
		if err != nil {
			return err
		}
		target, err := p.readPoint()
		if err != nil {
			return err
		}
		if relative {
			q = p.cursor.Add(q)
			target = p.cursor.Add(target)
		}
		c1 := p.cursor.Lerp(q, 2.0/3.0)
		c2 := target.Lerp(q, 2.0/3.0)
		p.appendSegment(variant.CubicSegment{C1: c1, C2: c2, End: target})
		p.cursor = target
		if !p.hasNumber() {
			return nil
		}
	}
}

func (p *pathDataParser) closeSubpath(cmdPos int) error {
	if p.current == nil {
		return fmt.Errorf("path data: close without open subpath at byte %d", cmdPos)
	}
	if p.cursor != p.current.Start {
		p.appendSegment(straightSegment(p.cursor, p.current.Start))
	}
	p.current.Closed = true
	p.cursor = p.current.Start
	p.flush()
	return nil
}

func (p *pathDataParser) requireSubpath() error {
	if p.current == nil {
		if !p.started {
			return fmt.Errorf("path data: command before initial move at byte %d", p.pos-1)
		}
		// A draw command after Z continues from the close point.
		p.current = &variant.Subpath{Start: p.cursor}
	}
	return nil
}

func (p *pathDataParser) appendSegment(seg variant.CubicSegment) {
	p.current.Segments = append(p.current.Segments, seg)
}

// flush appends the open subpath to the path when it has segments.
func (p *pathDataParser) flush() {
	if p.current != nil && len(p.current.Segments) > 0 {
		p.path.Subpaths = append(p.path.Subpaths, *p.current)
	}
	p.current = nil
}

func (p *pathDataParser) readPoint() (common.Vec2, error) {
	x, err := p.readNumber()
	if err != nil {
		return common.Vec2{}, err
	}
	y, err := p.readNumber()
	if err != nil {
		return common.Vec2{}, err
	}
	return common.Vec2{X: x, Y: y}, nil
}

func (p *pathDataParser) readNumber() (float64, error) {
	p.skipSeparators()
	start := p.pos
	for p.pos < len(p.input) {
		b := p.input[p.pos]
		if b >= '0' && b <= '9' || b == '.' || b == 'e' || b == 'E' {
			p.pos++
			continue
		}
		// Signs open a token or follow an exponent, so "1-2" splits into
		// two numbers like SVG allows while "1e-5" stays whole.
		if (b == '-' || b == '+') && (p.pos == start ||
			p.input[p.pos-1] == 'e' || p.input[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		if p.pos >= len(p.input) {
			return 0, fmt.Errorf("path data: unexpected end of input at byte %d", p.pos)
		}
		return 0, fmt.Errorf("path data: expected number at byte %d, found %q", p.pos, p.input[p.pos])
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("path data: invalid number %q at byte %d", p.input[start:p.pos], start)
	}
	return v, nil
}

// hasNumber reports whether the next token is a number rather than a
// command letter or end of input.
func (p *pathDataParser) hasNumber() bool {
	save := p.pos
	p.skipSeparators()
	ok := false
	if p.pos < len(p.input) {
		b := p.input[p.pos]
		ok = b >= '0' && b <= '9' || b == '.' || b == '-' || b == '+'
	}
	p.pos = save
	return ok
}

func (p *pathDataParser) skipSeparators() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == ',' ||
		p.input[p.pos] == '\t' || p.input[p.pos] == '\n' || p.input[p.pos] == '\r') {
		p.pos++
	}
}

// straightSegment builds the cubic representation of a straight line with
// control points at the one-third marks.
func straightSegment(a, b common.Vec2) variant.CubicSegment {
	return variant.CubicSegment{
		C1:  a.Lerp(b, 1.0/3.0),
		C2:  a.Lerp(b, 2.0/3.0),
		End: b,
	}
}
