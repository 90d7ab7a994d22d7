// Package filesystem provides the small filesystem abstraction used by the
// file storage backend.
//
// NewOS wraps the real filesystem; NewMemory returns an in-memory
// implementation with error injection for tests.
package filesystem
