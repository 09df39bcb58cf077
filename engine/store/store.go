package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ralvey/morph-go/engine"
	"github.com/ralvey/morph-go/engine/material"
	"github.com/ralvey/morph-go/engine/mobject"
	"github.com/ralvey/morph-go/engine/variant"
)

// ErrNotFound is returned when a snapshot name or revision does not exist.
var ErrNotFound = errors.New("store: snapshot not found")

// ObjectRow is one persisted object. IDs are not persisted; names are the
// durable key, and group membership travels as an ordered child-name list.
type ObjectRow struct {
	Name          string
	Kind          string
	PayloadYAML   []byte
	MaterialYAML  []byte
	Enabled       bool
	GroupChildren []string
}

// Snapshot is one saved revision of a stage's registry.
type Snapshot struct {
	Name     string
	Revision int64
	SavedAt  time.Time
	Objects  []ObjectRow
}

// Store persists stage snapshots.
type Store interface {
	// SaveSnapshot persists a snapshot under its name, assigning the next
	// revision for that name.
	//
	// Parameters:
	//   - ctx: the request context
	//   - snap: the snapshot to persist
	//
	// Returns:
	//   - int64: the assigned revision, starting at 1 per name
	//   - error: an error if the write fails
	SaveSnapshot(ctx context.Context, snap Snapshot) (int64, error)

	// LoadSnapshot retrieves a snapshot by name and revision.
	//
	// Parameters:
	//   - ctx: the request context
	//   - name: the snapshot name
	//   - revision: the revision to load, 0 for the latest
	//
	// Returns:
	//   - Snapshot: the stored snapshot with its object rows
	//   - error: ErrNotFound if the name or revision does not exist
	LoadSnapshot(ctx context.Context, name string, revision int64) (Snapshot, error)

	// ListSnapshots returns the metadata of every stored revision,
	// without object rows.
	//
	// Parameters:
	//   - ctx: the request context
	//
	// Returns:
	//   - []Snapshot: revisions ordered by name then revision
	//   - error: an error if the read fails
	ListSnapshots(ctx context.Context) ([]Snapshot, error)

	// DeleteSnapshot removes every revision stored under a name.
	//
	// Parameters:
	//   - ctx: the request context
	//   - name: the snapshot name to remove
	//
	// Returns:
	//   - error: ErrNotFound if no revisions exist under the name
	DeleteSnapshot(ctx context.Context, name string) error

	// Close releases the underlying storage.
	//
	// Returns:
	//   - error: an error if closing fails
	Close() error
}

// Capture builds a snapshot from a stage's registry. Ephemeral handles are
// skipped. Group membership is captured as ordered child-name lists, so
// every non-ephemeral name must be unique.
//
// Parameters:
//   - name: the snapshot name
//   - stage: the stage to capture
//
// Returns:
//   - Snapshot: the captured rows in ID order
//   - error: an error on duplicate names or unencodable payloads
func Capture(name string, stage engine.Stage) (Snapshot, error) {
	if stage == nil {
		return Snapshot{}, fmt.Errorf("store: cannot capture nil stage")
	}

	snap := Snapshot{Name: name}
	seen := make(map[string]bool)
	var captureErr error

	stage.Each(func(obj mobject.Mobject) bool {
		if obj.Ephemeral() {
			return true
		}
		if seen[obj.Name()] {
			captureErr = fmt.Errorf("store: duplicate object name %q", obj.Name())
			return false
		}
		seen[obj.Name()] = true

		row := ObjectRow{
			Name:    obj.Name(),
			Kind:    obj.Kind().String(),
			Enabled: obj.Enabled(),
		}

		if group, ok := obj.Payload().(*mobject.Group); ok {
			for _, child := range group.Children() {
				row.GroupChildren = append(row.GroupChildren, child.Name())
			}
		} else {
			body, err := variant.Encode(obj.Payload())
			if err != nil {
				captureErr = fmt.Errorf("store: object %q: %w", obj.Name(), err)
				return false
			}
			row.PayloadYAML = body
		}

		if mat := obj.Material(); mat != nil {
			body, err := material.Encode(mat)
			if err != nil {
				captureErr = fmt.Errorf("store: object %q: %w", obj.Name(), err)
				return false
			}
			row.MaterialYAML = body
		}

		snap.Objects = append(snap.Objects, row)
		return true
	})
	if captureErr != nil {
		return Snapshot{}, captureErr
	}
	return snap, nil
}

// Restore instantiates a snapshot's rows as fresh handles on a stage.
// Leaves are created first, then groups are wired by child name, so child
// rows may appear after the groups that reference them.
//
// Parameters:
//   - stage: the stage to populate
//   - snap: the snapshot to restore
//
// Returns:
//   - []uint64: the assigned IDs in row order
//   - error: an error on undecodable rows or dangling child names
func Restore(stage engine.Stage, snap Snapshot) ([]uint64, error) {
	if stage == nil {
		return nil, fmt.Errorf("store: cannot restore onto nil stage")
	}

	handles := make(map[string]mobject.Mobject, len(snap.Objects))
	ids := make([]uint64, 0, len(snap.Objects))

	for _, row := range snap.Objects {
		if _, ok := handles[row.Name]; ok {
			return nil, fmt.Errorf("store: duplicate object name %q", row.Name)
		}

		options := []mobject.MobjectBuilderOption{
			mobject.WithName(row.Name),
			mobject.WithEnabled(row.Enabled),
		}

		if row.Kind == variant.KindGroup.String() {
			options = append(options, mobject.WithPayload(mobject.NewGroup()))
		} else {
			payload, err := variant.Decode(row.Kind, row.PayloadYAML)
			if err != nil {
				return nil, fmt.Errorf("store: object %q: %w", row.Name, err)
			}
			options = append(options, mobject.WithPayload(payload))
		}

		if len(row.MaterialYAML) > 0 {
			mat, err := material.Decode(row.MaterialYAML)
			if err != nil {
				return nil, fmt.Errorf("store: object %q: %w", row.Name, err)
			}
			options = append(options, mobject.WithMaterial(mat))
		}

		obj := mobject.NewMobject(options...)
		handles[row.Name] = obj
		ids = append(ids, stage.Add(obj))
	}

	for _, row := range snap.Objects {
		if len(row.GroupChildren) == 0 {
			continue
		}
		group, ok := handles[row.Name].Payload().(*mobject.Group)
		if !ok {
			return nil, fmt.Errorf("store: object %q has children but is not a group", row.Name)
		}
		for _, childName := range row.GroupChildren {
			child, ok := handles[childName]
			if !ok {
				return nil, fmt.Errorf("store: group %q references unknown object %q", row.Name, childName)
			}
			if err := group.Add(child); err != nil {
				return nil, fmt.Errorf("store: group %q: %w", row.Name, err)
			}
		}
	}

	return ids, nil
}
