package loader

// LoaderBuilderOption is a functional option for configuring a Loader via
// NewLoader.
type LoaderBuilderOption func(*loader)

// WithDocument pre-populates the document cache.
//
// Parameters:
//   - key: the cache key for the document
//   - doc: the document to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the document option to
//     a loader
func WithDocument(key string, doc *Document) LoaderBuilderOption {
	return func(l *loader) {
		l.documentCache[key] = doc
	}
}
