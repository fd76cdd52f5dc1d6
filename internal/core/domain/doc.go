// Package domain defines the core business entities for cvemirror.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: a mirrored CVE with its derived filter columns and raw payload
//   - RawRecord: the verbatim JSON of one feed item, before normalisation
//   - Query: a validated filter, sort and page request over the mirror
//   - SyncRun: the persisted outcome of one full sync pass
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
