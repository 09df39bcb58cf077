package morph

import (
	"fmt"

	"github.com/ralvey/morph-go/common"
	"github.com/ralvey/morph-go/engine/material"
	"github.com/ralvey/morph-go/engine/mobject"
	"github.com/ralvey/morph-go/engine/variant"
)

// Tween binds a target handle to a destination payload and samples the
// in-between states on demand. The caller chooses t each time; the tween
// never advances time itself. The source payload (and material) are
// captured when the tween is created, so re-sampling is stable even as the
// target changes underneath.
type Tween struct {
	target  mobject.Mobject
	from    variant.Payload
	to      variant.Payload
	fromMat material.Material
	toMat   material.Material
	rate    RateFunc
}

// TweenOption is a functional option for configuring a Tween during construction.
type TweenOption func(*Tween)

// WithRate sets the rate function shaping the tween's motion. The default
// is Smooth.
//
// Parameters:
//   - rate: the rate function
//
// Returns:
//   - TweenOption: functional option to set the rate
func WithRate(rate RateFunc) TweenOption {
	return func(tw *Tween) {
		if rate != nil {
			tw.rate = rate
		}
	}
}

// WithMaterial sets a destination material, blended alongside the payload
// via material.LerpMaterial.
//
// Parameters:
//   - m: the destination material
//
// Returns:
//   - TweenOption: functional option to set the destination material
func WithMaterial(m material.Material) TweenOption {
	return func(tw *Tween) {
		tw.toMat = m
	}
}

// NewTween creates a tween from the target's current payload to the given
// destination. The current payload and material are captured (cloned) at
// construction.
//
// Parameters:
//   - target: the handle to transform
//   - to: the destination payload
//   - options: functional options to configure the tween
//
// Returns:
//   - *Tween: the tween
//   - error: an error if the target or destination is nil or does not blend
func NewTween(target mobject.Mobject, to variant.Payload, options ...TweenOption) (*Tween, error) {
	if target == nil {
		return nil, fmt.Errorf("morph: tween requires a target handle")
	}
	if to == nil {
		return nil, fmt.Errorf("morph: tween requires a destination payload")
	}
	if err := to.Validate(); err != nil {
		return nil, fmt.Errorf("morph: tween destination: %w", err)
	}

	tw := &Tween{
		target:  target,
		from:    target.Payload().Clone(),
		to:      to.Clone(),
		fromMat: target.Material(),
		rate:    Smooth,
	}
	for _, option := range options {
		option(tw)
	}

	// Surface unblendable pairs at construction instead of at the first
	// mid-flight sample.
	if _, err := Blend(tw.from, tw.to, 0.5); err != nil {
		return nil, err
	}
	return tw, nil
}

// Sample transforms the target to the blended state at rate(clamp(t)).
// Sample(1) lands exactly on the destination payload, not on a blend
// approximation.
//
// Parameters:
//   - t: the raw parameter; values outside [0, 1] clamp
//
// Returns:
//   - error: an error if blending or the target's Become fails
func (tw *Tween) Sample(t float64) error {
	rt := tw.rate(common.Clamp(t, 0, 1))

	payload, err := Blend(tw.from, tw.to, rt)
	if err != nil {
		return err
	}

	var mat material.Material
	if tw.toMat != nil {
		mat = material.LerpMaterial(tw.fromMat, tw.toMat, rt)
	}
	return tw.target.BecomeWith(payload, mat)
}

// Apply jumps the target to the destination state. Equivalent to Sample(1).
//
// Returns:
//   - error: an error if the target's Become fails
func (tw *Tween) Apply() error {
	return tw.Sample(1)
}
