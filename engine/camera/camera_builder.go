package camera

import (
	"github.com/ralvey/morph-go/common"
)

type CameraBuilderOption func(*cameraImpl)

// WithCenter sets the world-space point at the middle of the frame.
//
// Parameters:
//   - p: the frame center in world units
//
// Returns:
//   - CameraBuilderOption: a function that sets the frame center
func WithCenter(p common.Vec2) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.center = p
	}
}

// WithFrameWidth sets the visible frame width in world units. Values that
// are not positive are ignored.
//
// Parameters:
//   - width: the frame width
//
// Returns:
//   - CameraBuilderOption: a function that sets the frame width
func WithFrameWidth(width float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		if width <= 0 {
			return
		}
		c.frameWidth = width
	}
}

// WithPixelSize sets the output dimensions in pixels. Panics when either
// dimension is not positive.
//
// Parameters:
//   - width: the pixel width
//   - height: the pixel height
//
// Returns:
//   - CameraBuilderOption: a function that sets the pixel dimensions
func WithPixelSize(width, height int) CameraBuilderOption {
	return func(c *cameraImpl) {
		validatePixelSize(width, height)
		c.pixelWidth = width
		c.pixelHeight = height
	}
}
