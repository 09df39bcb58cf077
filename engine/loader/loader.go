package loader

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ralvey/morph-go/engine/material"
	"github.com/ralvey/morph-go/engine/variant"
	yaml "gopkg.in/yaml.v2"
)

// ObjectSpec describes one object to instantiate from a document.
type ObjectSpec struct {
	Name      string
	Kind      string
	Payload   variant.Payload
	Material  material.Material
	Enabled   bool
	Ephemeral bool
}

// Document is a parsed object document ready to add to a stage.
type Document struct {
	Name    string
	Objects []ObjectSpec
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	documentCache map[string]*Document

	backendType LoaderBackendType
}

// Loader defines the public-facing interface for loading and caching object
// documents. It abstracts the file format (YAML, Lua) behind a generic
// backend and manages a cache of previously loaded documents.
type Loader interface {
	// LoadDocument imports a document file and caches the result by path.
	// With BackendTypeAuto the backend is selected by file extension
	// (.yaml/.yml, .lua).
	//
	// Parameters:
	//   - path: the file path to the document
	//
	// Returns:
	//   - *Document: the loaded and cached document
	//   - error: error if loading fails
	LoadDocument(path string) (*Document, error)

	// LoadBytes parses document data already in memory and caches it under
	// the given name. The loader's backend type must not be
	// BackendTypeAuto, since there is no extension to select by.
	//
	// Parameters:
	//   - name: the cache key and document fallback name
	//   - data: the raw document bytes
	//
	// Returns:
	//   - *Document: the loaded document
	//   - error: error if parsing fails
	LoadBytes(name string, data []byte) (*Document, error)

	// Get retrieves a cached document by key. Returns nil if not found.
	//
	// Parameters:
	//   - key: the cache key to look up
	//
	// Returns:
	//   - *Document: the cached document or nil
	Get(key string) *Document

	// Documents returns a copy of the document cache.
	//
	// Returns:
	//   - map[string]*Document: all cached documents keyed by path or name
	Documents() map[string]*Document
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type
// and options applied.
//
// Parameters:
//   - backendType: the backend to use, or BackendTypeAuto to select by
//     file extension
//   - options: a variadic list of LoaderBuilderOption functions to
//     configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		documentCache: make(map[string]*Document),
		backendType:   backendType,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) LoadDocument(path string) (*Document, error) {
	l.mu.RLock()
	if cached, ok := l.documentCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	doc, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := validateDocument(doc); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.documentCache[path] = doc
	l.mu.Unlock()
	return doc, nil
}

func (l *loader) LoadBytes(name string, data []byte) (*Document, error) {
	backend, err := l.backendFor(l.backendType)
	if err != nil {
		return nil, err
	}

	doc, err := backend.LoadBytes(name, data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	if doc.Name == "" {
		doc.Name = name
	}
	if err := validateDocument(doc); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}

	l.mu.Lock()
	l.documentCache[name] = doc
	l.mu.Unlock()
	return doc, nil
}

func (l *loader) Get(key string) *Document {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.documentCache[key]
}

func (l *loader) Documents() map[string]*Document {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cp := make(map[string]*Document, len(l.documentCache))
	for k, v := range l.documentCache {
		cp[k] = v
	}
	return cp
}

// resolveBackend picks the backend for a file path, honoring the loader's
// configured backend type and falling back to the extension for
// BackendTypeAuto.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	backendType := l.backendType
	if backendType == BackendTypeAuto {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			backendType = BackendTypeYAML
		case ".lua":
			backendType = BackendTypeLua
		default:
			return nil, fmt.Errorf("loader: unsupported document extension %q", filepath.Ext(path))
		}
	}
	return l.backendFor(backendType)
}

func (l *loader) backendFor(backendType LoaderBackendType) (loaderBackend, error) {
	switch backendType {
	case BackendTypeYAML:
		return newYAMLLoaderBackend(), nil
	case BackendTypeLua:
		return newLuaLoaderBackend(), nil
	default:
		return nil, fmt.Errorf("loader: no backend for type %d", backendType)
	}
}

// validateDocument rejects documents with duplicate object names. Payload
// validity is checked by the backends at decode time.
func validateDocument(doc *Document) error {
	seen := make(map[string]struct{}, len(doc.Objects))
	for _, spec := range doc.Objects {
		if spec.Name == "" {
			continue
		}
		if _, dup := seen[spec.Name]; dup {
			return fmt.Errorf("loader: duplicate object name %q", spec.Name)
		}
		seen[spec.Name] = struct{}{}
	}
	return nil
}

// decodePayloadBody turns a parsed payload body into a variant payload.
// Path payloads accept a {data: "M ..."} body holding SVG-style path data;
// everything else re-marshals the body and runs it through the variant
// codec so both document backends share one decode path.
func decodePayloadBody(kind string, body interface{}) (variant.Payload, error) {
	if kind == variant.KindPath.String() {
		if d, ok := pathDataField(body); ok {
			return ParsePathData(d)
		}
	}
	if body == nil {
		body = map[string]interface{}{}
	}
	raw, err := yaml.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("loader: encode payload body: %w", err)
	}
	return variant.Decode(kind, raw)
}

func pathDataField(body interface{}) (string, bool) {
	switch m := body.(type) {
	case map[interface{}]interface{}:
		d, ok := m["data"].(string)
		return d, ok
	case map[string]interface{}:
		d, ok := m["data"].(string)
		return d, ok
	default:
		return "", false
	}
}

// decodeMaterialBody turns a parsed material body into a material, with
// absent bodies mapping to nil so object defaults apply.
func decodeMaterialBody(body interface{}) (material.Material, error) {
	if body == nil {
		return nil, nil
	}
	raw, err := yaml.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("loader: encode material body: %w", err)
	}
	return material.Decode(raw)
}
