package mobject

import (
	"github.com/ralvey/morph-go/engine/material"
	"github.com/ralvey/morph-go/engine/variant"
)

// MobjectBuilderOption is a functional option for configuring a Mobject during construction.
type MobjectBuilderOption func(*mobject)

// WithName sets the handle's name.
//
// Parameters:
//   - name: the name to assign
//
// Returns:
//   - MobjectBuilderOption: functional option to set the name
func WithName(name string) MobjectBuilderOption {
	return func(obj *mobject) {
		obj.name = name
	}
}

// WithPayload sets the initial payload. The payload is cloned; construction
// does not validate it (Become does).
//
// Parameters:
//   - p: the initial payload
//
// Returns:
//   - MobjectBuilderOption: functional option to set the payload
func WithPayload(p variant.Payload) MobjectBuilderOption {
	return func(obj *mobject) {
		if p != nil {
			obj.payload = p.Clone()
		}
	}
}

// WithMaterial sets the handle's material.
//
// Parameters:
//   - m: the material to assign
//
// Returns:
//   - MobjectBuilderOption: functional option to set the material
func WithMaterial(m material.Material) MobjectBuilderOption {
	return func(obj *mobject) {
		if m != nil {
			obj.mat = m
		}
	}
}

// WithEnabled sets whether the handle is enabled for derivation.
//
// Parameters:
//   - enabled: true to enable
//
// Returns:
//   - MobjectBuilderOption: functional option to set the enabled state
func WithEnabled(enabled bool) MobjectBuilderOption {
	return func(obj *mobject) {
		obj.enabled.Store(enabled)
	}
}

// WithEphemeral marks the handle as ephemeral. Ephemeral handles are not
// persisted in a stage's registry when added and are skipped by snapshot
// capture, but still derive while referenced.
//
// Parameters:
//   - ephemeral: true to mark as ephemeral
//
// Returns:
//   - MobjectBuilderOption: functional option to set the ephemeral flag
func WithEphemeral(ephemeral bool) MobjectBuilderOption {
	return func(obj *mobject) {
		obj.ephemeral = ephemeral
	}
}
