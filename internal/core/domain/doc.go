// Package domain defines the core entities of the corpus browser.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TextSegment: One paragraph-sized unit of the processed book text
//   - SearchQuery: An immutable (text, window size) pair sent to the search endpoint
//   - ResultPage: The items returned for a query plus the size of the full match set
//   - ViewState: What the browser currently shows
//   - Settings: Endpoint and timing configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
