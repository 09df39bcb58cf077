package mobject

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ralvey/morph-go/common"
	"github.com/ralvey/morph-go/engine/material"
	"github.com/ralvey/morph-go/engine/variant"
)

type mobject struct {
	mu *sync.RWMutex

	id         uint64
	name       string
	enabled    atomic.Bool
	ephemeral  bool
	payload    variant.Payload
	mat        material.Material
	generation atomic.Uint64
}

// Mobject is the stable handle of the object model. External holders keep
// Mobject references (or IDs); both stay valid across transformations. The
// handle's logical kind can change after construction via Become, which
// swaps the payload behind the handle without invalidating it; every holder
// of the same Mobject observes the new kind immediately. Specialized
// behavior dispatches over the payload's variant tag, never over the
// handle's static type.
type Mobject interface {
	// ID returns the handle's unique identifier. Zero until assigned by a
	// stage registry.
	//
	// Returns:
	//   - uint64: the handle ID
	ID() uint64

	// Name returns the handle's name. Names are the durable key in snapshot
	// persistence; IDs are runtime-scoped.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Enabled returns whether this handle is enabled for derivation.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Ephemeral returns whether this handle is ephemeral. Ephemeral handles
	// are not persisted in a stage's registry (and never captured in
	// snapshots) but still derive while referenced.
	//
	// Returns:
	//   - bool: true if ephemeral
	Ephemeral() bool

	// Kind returns the variant tag of the current payload.
	//
	// Returns:
	//   - variant.Kind: the current kind
	Kind() variant.Kind

	// Payload returns the live payload for read-only use. Mutating callers
	// must Become a modified clone; the returned value must not be written.
	//
	// Returns:
	//   - variant.Payload: the current payload
	Payload() variant.Payload

	// Material returns the handle's material.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// BBox returns the current payload's bounding box.
	//
	// Returns:
	//   - common.BBox: the bounding box
	BBox() common.BBox

	// Generation returns the handle's change counter. It increments on every
	// successful Become and SetMaterial; renderers use it for cache
	// invalidation.
	//
	// Returns:
	//   - uint64: the generation
	Generation() uint64

	// Become swaps the handle's payload for p, changing the handle's logical
	// kind in place. The incoming payload is validated first (on failure the
	// old payload stays) and cloned, so callers cannot mutate the handle's
	// payload from outside after the swap. Group payloads are the exception:
	// their Clone preserves identity, so the handle holds the caller's
	// group. Become(nil) is the transition to KindEmpty.
	//
	// Parameters:
	//   - p: the new payload, or nil for KindEmpty
	//
	// Returns:
	//   - error: an error if the new payload fails validation
	Become(p variant.Payload) error

	// BecomeWith swaps payload and material in one generation step.
	//
	// Parameters:
	//   - p: the new payload, or nil for KindEmpty
	//   - m: the new material (nil keeps the current material)
	//
	// Returns:
	//   - error: an error if the new payload fails validation
	BecomeWith(p variant.Payload, m material.Material) error

	// SetID sets the handle's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetName sets the handle's name.
	//
	// Parameters:
	//   - name: the name to assign
	SetName(name string)

	// SetEnabled sets whether the handle is enabled for derivation.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetMaterial replaces the handle's material and bumps the generation.
	// A nil material is ignored.
	//
	// Parameters:
	//   - m: the material to assign
	SetMaterial(m material.Material)
}

var _ Mobject = &mobject{}

// NewMobject creates a new Mobject configured with the given options. The
// default handle is enabled, holds the Empty payload, and carries the
// default material.
//
// Parameters:
//   - options: functional options to configure the handle
//
// Returns:
//   - Mobject: the newly created handle
func NewMobject(options ...MobjectBuilderOption) Mobject {
	obj := &mobject{
		mu:      &sync.RWMutex{},
		payload: &variant.Empty{},
		mat:     material.NewMaterial(),
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (m *mobject) ID() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.id
}

func (m *mobject) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.name
}

func (m *mobject) Enabled() bool {
	return m.enabled.Load()
}

func (m *mobject) Ephemeral() bool {
	return m.ephemeral
}

func (m *mobject) Kind() variant.Kind {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payload.Kind()
}

func (m *mobject) Payload() variant.Payload {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payload
}

func (m *mobject) Material() material.Material {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mat
}

func (m *mobject) BBox() common.BBox {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payload.BBox()
}

func (m *mobject) Generation() uint64 {
	return m.generation.Load()
}

func (m *mobject) Become(p variant.Payload) error {
	return m.BecomeWith(p, nil)
}

func (m *mobject) BecomeWith(p variant.Payload, mat material.Material) error {
	if p == nil {
		p = &variant.Empty{}
	}
	if err := p.Validate(); err != nil {
		m.mu.RLock()
		oldKind := m.payload.Kind()
		m.mu.RUnlock()
		return fmt.Errorf("mobject: become %s -> %s: %w", oldKind, p.Kind(), err)
	}

	clone := p.Clone()
	m.mu.Lock()
	m.payload = clone
	if mat != nil {
		m.mat = mat
	}
	m.mu.Unlock()
	m.generation.Add(1)
	return nil
}

func (m *mobject) SetID(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = id
}

func (m *mobject) SetName(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.name = name
}

func (m *mobject) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

func (m *mobject) SetMaterial(mat material.Material) {
	if mat == nil {
		return
	}
	m.mu.Lock()
	m.mat = mat
	m.mu.Unlock()
	m.generation.Add(1)
}
