package loader

// LoaderBackendType identifies the document file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeAuto selects the backend by file extension at load time.
	BackendTypeAuto LoaderBackendType = iota

	// BackendTypeYAML selects the YAML document backend.
	BackendTypeYAML

	// BackendTypeLua selects the Lua script backend.
	BackendTypeLua
)

// loaderBackend defines the generic interface for parsing documents from
// files or in-memory data. Concrete implementations handle format-specific
// details.
type loaderBackend interface {
	// Load parses a document from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *Document: the parsed document
	//   - error: error if parsing fails
	Load(path string) (*Document, error)

	// LoadBytes parses a document from raw data.
	//
	// Parameters:
	//   - name: the document fallback name
	//   - data: the raw document bytes
	//
	// Returns:
	//   - *Document: the parsed document
	//   - error: error if parsing fails
	LoadBytes(name string, data []byte) (*Document, error)
}
