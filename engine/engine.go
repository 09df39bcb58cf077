package engine

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/ralvey/morph-go/engine/loader"
	"github.com/ralvey/morph-go/engine/material"
	"github.com/ralvey/morph-go/engine/mobject"
	"github.com/ralvey/morph-go/engine/profiler"
	"github.com/ralvey/morph-go/engine/renderer"
	"github.com/ralvey/morph-go/engine/variant"
)

// stage implements the Stage interface.
// Owns the object registry and drives batch derivation through the renderer.
type stage struct {
	mu *sync.RWMutex

	name string
	r    renderer.Renderer

	registry   map[uint64]mobject.Mobject
	ephemerals []mobject.Mobject
	nextID     uint64
	seq        uint64

	workers    int
	derivePool worker.DynamicWorkerPool
	onChange   func()

	profiler         *profiler.Profiler
	profilingEnabled bool
}

// Stage is the main entry point for building and rendering a set of objects.
// It hands out stable IDs, tracks object handles, and turns the whole
// registry into frames.
type Stage interface {
	// Name returns the stage name.
	//
	// Returns:
	//   - string: the stage name
	Name() string

	// Renderer returns the renderer driving this stage.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// Add registers an object handle and assigns it the next stage ID.
	// Ephemeral handles are kept on a side list instead of the registry;
	// they still render but are skipped by Lookup, Count, and snapshots.
	//
	// Parameters:
	//   - obj: the object handle to register
	//
	// Returns:
	//   - uint64: the assigned ID
	Add(obj mobject.Mobject) uint64

	// AddDocument instantiates every object spec in a loaded document,
	// in document order.
	//
	// Parameters:
	//   - doc: the document to instantiate
	//
	// Returns:
	//   - []uint64: the assigned IDs, one per spec in spec order
	//   - error: an error if the document is nil
	AddDocument(doc *loader.Document) ([]uint64, error)

	// Get retrieves an object by ID.
	//
	// Parameters:
	//   - id: the stage ID to look up
	//
	// Returns:
	//   - mobject.Mobject: the handle, or nil if not found
	Get(id uint64) mobject.Mobject

	// Lookup finds the first registered object with the given name.
	// Ephemeral handles are not searched.
	//
	// Parameters:
	//   - name: the object name to search for
	//
	// Returns:
	//   - mobject.Mobject: the first match in ID order, or nil
	Lookup(name string) mobject.Mobject

	// Remove drops the object with the given ID from the stage.
	//
	// Parameters:
	//   - id: the stage ID to remove
	//
	// Returns:
	//   - bool: true if an object was removed
	Remove(id uint64) bool

	// Clear drops every object, registered and ephemeral.
	Clear()

	// Count returns the number of registered objects, excluding ephemerals.
	//
	// Returns:
	//   - int: the registry size
	Count() int

	// CountEphemeral returns the number of ephemeral handles currently held.
	//
	// Returns:
	//   - int: the ephemeral list size
	CountEphemeral() int

	// Each calls fn for every object in ID order, ephemerals last.
	// Iteration stops when fn returns false.
	//
	// Parameters:
	//   - fn: the visitor, returning false to stop early
	Each(fn func(obj mobject.Mobject) bool)

	// Become swaps the payload of the object with the given ID and fires
	// the change callback.
	//
	// Parameters:
	//   - id: the stage ID to mutate
	//   - p: the replacement payload
	//
	// Returns:
	//   - error: an error if the ID is unknown or the payload is rejected
	Become(id uint64, p variant.Payload) error

	// SetMaterial replaces the material of the object with the given ID and
	// fires the change callback.
	//
	// Parameters:
	//   - id: the stage ID to mutate
	//   - m: the replacement material
	//
	// Returns:
	//   - error: an error if the ID is unknown
	SetMaterial(id uint64, m material.Material) error

	// SetEnabled toggles visibility of the object with the given ID and
	// fires the change callback.
	//
	// Parameters:
	//   - id: the stage ID to mutate
	//   - enabled: the new visibility
	//
	// Returns:
	//   - error: an error if the ID is unknown
	SetEnabled(id uint64, enabled bool) error

	// Touch fires the change callback for an object mutated directly
	// through its handle.
	//
	// Parameters:
	//   - id: the stage ID that changed
	//
	// Returns:
	//   - error: an error if the ID is unknown
	Touch(id uint64) error

	// RenderFrame derives every object into one frame. Derivation fans out
	// over the worker pool; results are assembled in ID order so repeated
	// calls with no intervening mutation produce identical frames apart
	// from the sequence number.
	//
	// Returns:
	//   - renderer.Frame: the assembled frame
	//   - error: the first derivation error encountered
	RenderFrame() (renderer.Frame, error)

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()
}

var _ Stage = &stage{}

// NewStage creates a stage backed by the given renderer.
//
// Parameters:
//   - name: the stage name
//   - r: the renderer used for derivation, must be non-nil
//   - options: functional options for stage configuration
//
// Returns:
//   - Stage: the new Stage instance
func NewStage(name string, r renderer.Renderer, options ...StageBuilderOption) Stage {
	if r == nil {
		panic("stage: renderer is required")
	}

	s := &stage{
		mu:       &sync.RWMutex{},
		name:     name,
		r:        r,
		registry: make(map[uint64]mobject.Mobject),
		workers:  max(runtime.NumCPU()-1, 1),
		profiler: profiler.NewProfiler(),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the derive pool after options so WithWorkers can override the default.
	// Queue size of 256 accommodates typical registry sizes with headroom.
	s.derivePool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)

	return s
}

func (s *stage) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *stage) Renderer() renderer.Renderer {
	return s.r
}

func (s *stage) Add(obj mobject.Mobject) uint64 {
	if obj == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	obj.SetID(s.nextID)
	if obj.Ephemeral() {
		s.ephemerals = append(s.ephemerals, obj)
	} else {
		s.registry[s.nextID] = obj
	}
	return s.nextID
}

func (s *stage) AddDocument(doc *loader.Document) ([]uint64, error) {
	if doc == nil {
		return nil, fmt.Errorf("stage: cannot add nil document")
	}
	ids := make([]uint64, 0, len(doc.Objects))
	for _, spec := range doc.Objects {
		options := []mobject.MobjectBuilderOption{
			mobject.WithName(spec.Name),
			mobject.WithPayload(spec.Payload),
			mobject.WithEnabled(spec.Enabled),
			mobject.WithEphemeral(spec.Ephemeral),
		}
		if spec.Material != nil {
			options = append(options, mobject.WithMaterial(spec.Material))
		}
		ids = append(ids, s.Add(mobject.NewMobject(options...)))
	}
	return ids, nil
}

func (s *stage) Get(id uint64) mobject.Mobject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if obj, ok := s.registry[id]; ok {
		return obj
	}
	for _, obj := range s.ephemerals {
		if obj.ID() == id {
			return obj
		}
	}
	return nil
}

func (s *stage) Lookup(name string) mobject.Mobject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found mobject.Mobject
	for _, obj := range s.registry {
		if obj.Name() != name {
			continue
		}
		if found == nil || obj.ID() < found.ID() {
			found = obj
		}
	}
	return found
}

func (s *stage) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registry[id]; ok {
		delete(s.registry, id)
		return true
	}
	for i, obj := range s.ephemerals {
		if obj.ID() == id {
			s.ephemerals = append(s.ephemerals[:i], s.ephemerals[i+1:]...)
			return true
		}
	}
	return false
}

func (s *stage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = make(map[uint64]mobject.Mobject)
	s.ephemerals = nil
}

func (s *stage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *stage) CountEphemeral() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ephemerals)
}

func (s *stage) Each(fn func(obj mobject.Mobject) bool) {
	for _, obj := range s.snapshot() {
		if !fn(obj) {
			return
		}
	}
}

func (s *stage) Become(id uint64, p variant.Payload) error {
	obj := s.Get(id)
	if obj == nil {
		return fmt.Errorf("stage: no object with id %d", id)
	}
	if err := obj.Become(p); err != nil {
		return err
	}
	s.fireChange()
	return nil
}

func (s *stage) SetMaterial(id uint64, m material.Material) error {
	obj := s.Get(id)
	if obj == nil {
		return fmt.Errorf("stage: no object with id %d", id)
	}
	obj.SetMaterial(m)
	s.fireChange()
	return nil
}

func (s *stage) SetEnabled(id uint64, enabled bool) error {
	obj := s.Get(id)
	if obj == nil {
		return fmt.Errorf("stage: no object with id %d", id)
	}
	obj.SetEnabled(enabled)
	s.fireChange()
	return nil
}

func (s *stage) Touch(id uint64) error {
	if s.Get(id) == nil {
		return fmt.Errorf("stage: no object with id %d", id)
	}
	s.fireChange()
	return nil
}

func (s *stage) RenderFrame() (renderer.Frame, error) {
	objects := s.snapshot()

	sets := make([]renderer.RenderSet, len(objects))
	errs := make([]error, len(objects))

	var wg sync.WaitGroup
	for i, obj := range objects {
		wg.Add(1)
		slot := i
		target := obj
		s.derivePool.SubmitTask(worker.Task{
			ID: slot,
			Do: func() (any, error) {
				defer wg.Done()
				sets[slot], errs[slot] = s.r.Derive(target)
				return nil, nil
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return renderer.Frame{}, err
		}
	}

	var combined renderer.RenderSet
	for i := range sets {
		combined.Append(sets[i])
	}

	s.mu.Lock()
	s.seq++
	frame := renderer.Frame{
		Seq:      s.seq,
		Outlines: combined.Outlines,
		Meshes:   combined.Meshes,
		Dots:     combined.Dots,
	}
	profile := s.profilingEnabled
	s.mu.Unlock()

	if cam := s.r.Camera(); cam != nil {
		frame.PixelWidth = cam.PixelWidth()
		frame.PixelHeight = cam.PixelHeight()
	}

	if profile {
		stats := s.r.Stats()
		s.profiler.Tick(profiler.FrameStats{
			Objects:   len(objects),
			CacheHits: stats.Hits,
			CacheMiss: stats.Misses,
			CullSkips: stats.CullSkips,
		})
	}

	return frame, nil
}

func (s *stage) EnableProfiler() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profilingEnabled = true
}

func (s *stage) DisableProfiler() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profilingEnabled = false
}

// snapshot copies the current handle list in ID order, ephemerals last.
func (s *stage) snapshot() []mobject.Mobject {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uint64, 0, len(s.registry))
	for id := range s.registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	objects := make([]mobject.Mobject, 0, len(ids)+len(s.ephemerals))
	for _, id := range ids {
		objects = append(objects, s.registry[id])
	}
	objects = append(objects, s.ephemerals...)
	return objects
}

func (s *stage) fireChange() {
	s.mu.RLock()
	cb := s.onChange
	s.mu.RUnlock()
	if cb != nil {
		cb()
	}
}
