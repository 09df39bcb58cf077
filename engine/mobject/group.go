package mobject

import (
	"fmt"
	"sync"

	"github.com/ralvey/morph-go/common"
	"github.com/ralvey/morph-go/engine/variant"
)

// Group is the payload of a handle whose kind is KindGroup. It lives in
// this package rather than variant because its data is child handles, not
// plain geometry. A group member removed from a stage registry remains
// referenced by the group: registry membership and reference liveness are
// independent.
type Group struct {
	mu       sync.RWMutex
	children []Mobject
}

var _ variant.Payload = &Group{}

// NewGroup creates a group payload over the given children. Nil children
// are skipped.
//
// Parameters:
//   - children: the member handles
//
// Returns:
//   - *Group: the group payload
func NewGroup(children ...Mobject) *Group {
	g := &Group{}
	for _, child := range children {
		if child != nil {
			g.children = append(g.children, child)
		}
	}
	return g
}

// Kind returns KindGroup.
//
// Returns:
//   - variant.Kind: KindGroup
func (g *Group) Kind() variant.Kind {
	return variant.KindGroup
}

// Clone returns the group itself. A group payload is identity-bearing:
// handle construction and Become install the same group rather than a
// copy, so Add and Remove through any holder stay visible to all holders
// and cycle detection can compare group pointers.
//
// Returns:
//   - variant.Payload: the same group
func (g *Group) Clone() variant.Payload {
	return g
}

// BBox unions the bounding boxes of all children.
//
// Returns:
//   - common.BBox: the combined box
func (g *Group) BBox() common.BBox {
	g.mu.RLock()
	defer g.mu.RUnlock()
	box := common.EmptyBBox()
	for _, child := range g.children {
		box = box.Union(child.BBox())
	}
	return box
}

// Validate always succeeds: membership constraints are enforced by Add.
//
// Returns:
//   - error: nil
func (g *Group) Validate() error {
	return nil
}

// Children returns a copy of the member list.
//
// Returns:
//   - []Mobject: the member handles
func (g *Group) Children() []Mobject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Mobject, len(g.children))
	copy(out, g.children)
	return out
}

// Add appends a child handle. Nil handles and membership cycles (the child
// already contains this group, however deeply nested) are rejected.
//
// Parameters:
//   - child: the handle to add
//
// Returns:
//   - error: an error if the child is nil or would form a cycle
func (g *Group) Add(child Mobject) error {
	if child == nil {
		return fmt.Errorf("group: cannot add nil handle")
	}
	if g.containsGroup(child) {
		return fmt.Errorf("group: adding %q would form a cycle", child.Name())
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.children = append(g.children, child)
	return nil
}

// Remove drops the first occurrence of the child handle.
//
// Parameters:
//   - child: the handle to remove
//
// Returns:
//   - bool: true if the child was present
func (g *Group) Remove(child Mobject) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, existing := range g.children {
		if existing == child {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return true
		}
	}
	return false
}

// containsGroup walks the handle's payload tree looking for g itself.
func (g *Group) containsGroup(obj Mobject) bool {
	nested, ok := obj.Payload().(*Group)
	if !ok {
		return false
	}
	if nested == g {
		return true
	}
	for _, child := range nested.Children() {
		if g.containsGroup(child) {
			return true
		}
	}
	return false
}
