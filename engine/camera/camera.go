package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/ralvey/morph-go/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	center     common.Vec2
	frameWidth float64

	pixelWidth  int
	pixelHeight int

	revision atomic.Uint64
}

// Camera defines the interface for the 2D viewing frame.
// The camera maps a rectangular region of world space onto the pixel grid,
// with world +Y pointing up and pixel +Y pointing down. Frame height is
// always derived from the frame width and the pixel aspect ratio, so the
// mapping never stretches.
type Camera interface {
	// Center returns the world-space point at the middle of the frame.
	//
	// Returns:
	//   - common.Vec2: the frame center in world units
	Center() common.Vec2

	// FrameWidth returns the width of the visible frame in world units.
	//
	// Returns:
	//   - float64: the frame width
	FrameWidth() float64

	// FrameHeight returns the height of the visible frame in world units,
	// derived from the frame width and the pixel aspect ratio.
	//
	// Returns:
	//   - float64: the frame height
	FrameHeight() float64

	// PixelWidth returns the output width in pixels.
	//
	// Returns:
	//   - int: the pixel width
	PixelWidth() int

	// PixelHeight returns the output height in pixels.
	//
	// Returns:
	//   - int: the pixel height
	PixelHeight() int

	// Revision returns a counter that increments on every camera mutation.
	// Cached render output keyed on the revision is invalidated by any
	// change to the viewing frame.
	//
	// Returns:
	//   - uint64: the current revision
	Revision() uint64

	// Matrix returns the world-to-pixel transform.
	//
	// Returns:
	//   - common.Mat3: the combined transform
	Matrix() common.Mat3

	// WorldToPixel maps a world-space point to pixel coordinates. Pixel
	// (0, 0) is the top-left corner of the frame.
	//
	// Parameters:
	//   - p: the world-space point
	//
	// Returns:
	//   - common.Vec2: the pixel-space point
	WorldToPixel(p common.Vec2) common.Vec2

	// PixelToWorld maps a pixel coordinate back to world space.
	//
	// Parameters:
	//   - p: the pixel-space point
	//
	// Returns:
	//   - common.Vec2: the world-space point
	PixelToWorld(p common.Vec2) common.Vec2

	// VisibleBounds returns the world-space rectangle covered by the frame.
	//
	// Returns:
	//   - common.BBox: the visible region
	VisibleBounds() common.BBox

	// Cull reports whether a world-space bounding box lies entirely outside
	// the visible frame. Empty boxes are always culled.
	//
	// Parameters:
	//   - box: the bounding box to test
	//
	// Returns:
	//   - bool: true if the box can be skipped
	Cull(box common.BBox) bool

	// SetCenter moves the frame center to the given world-space point.
	//
	// Parameters:
	//   - p: the new center
	SetCenter(p common.Vec2)

	// SetFrameWidth sets the visible frame width in world units. Values
	// that are not positive are ignored.
	//
	// Parameters:
	//   - width: the new frame width
	SetFrameWidth(width float64)

	// Zoom scales the frame width by 1/factor, so factors greater than one
	// show a smaller region in more detail. Factors that are not positive
	// are ignored.
	//
	// Parameters:
	//   - factor: the zoom factor
	Zoom(factor float64)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera covering a 16 world-unit wide frame
// rendered at 1920x1080 pixels. Options override the defaults.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		frameWidth:  16.0,
		pixelWidth:  1920,
		pixelHeight: 1080,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Center() common.Vec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.center
}

func (c *cameraImpl) FrameWidth() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameWidth
}

func (c *cameraImpl) FrameHeight() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameHeight()
}

func (c *cameraImpl) PixelWidth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pixelWidth
}

func (c *cameraImpl) PixelHeight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pixelHeight
}

func (c *cameraImpl) Revision() uint64 {
	return c.revision.Load()
}

func (c *cameraImpl) Matrix() common.Mat3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matrix()
}

func (c *cameraImpl) WorldToPixel(p common.Vec2) common.Vec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matrix().Apply(p)
}

func (c *cameraImpl) PixelToWorld(p common.Vec2) common.Vec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	inv, ok := c.matrix().Inverse()
	if !ok {
		return p
	}
	return inv.Apply(p)
}

func (c *cameraImpl) VisibleBounds() common.BBox {
	c.mu.Lock()
	defer c.mu.Unlock()
	halfW := c.frameWidth / 2
	halfH := c.frameHeight() / 2
	return common.BBox{
		MinX: c.center.X - halfW,
		MinY: c.center.Y - halfH,
		MaxX: c.center.X + halfW,
		MaxY: c.center.Y + halfH,
	}
}

func (c *cameraImpl) Cull(box common.BBox) bool {
	if box.IsEmpty() {
		return true
	}
	return !c.VisibleBounds().Intersects(box)
}

func (c *cameraImpl) SetCenter(p common.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.center = p
	c.revision.Add(1)
}

func (c *cameraImpl) SetFrameWidth(width float64) {
	if width <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frameWidth = width
	c.revision.Add(1)
}

func (c *cameraImpl) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frameWidth /= factor
	c.revision.Add(1)
}

// frameHeight derives the frame height from the pixel aspect ratio.
// Caller must hold the mutex.
func (c *cameraImpl) frameHeight() float64 {
	return c.frameWidth * float64(c.pixelHeight) / float64(c.pixelWidth)
}

// matrix builds the world-to-pixel transform. World space is centered on
// the frame center with +Y up; pixel space has (0, 0) at the top-left with
// +Y down. Caller must hold the mutex.
func (c *cameraImpl) matrix() common.Mat3 {
	toPixels := common.ScaleMat3(
		float64(c.pixelWidth)/c.frameWidth,
		-float64(c.pixelHeight)/c.frameHeight(),
	)
	recenter := common.TranslateMat3(float64(c.pixelWidth)/2, float64(c.pixelHeight)/2)
	toOrigin := common.TranslateMat3(-c.center.X, -c.center.Y)
	return recenter.Mul(toPixels).Mul(toOrigin)
}

// validatePixelSize panics when a pixel dimension is not positive. The
// camera cannot represent a degenerate pixel grid.
func validatePixelSize(width, height int) {
	if width <= 0 || height <= 0 {
		panic("camera: pixel dimensions must be positive, got " +
			strconv.Itoa(width) + "x" + strconv.Itoa(height))
	}
}
