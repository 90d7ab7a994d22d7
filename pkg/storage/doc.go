// Package storage provides the key-value storage capability the rule store
// persists to, and its backends.
//
// Values are generic data: string-keyed maps, []any lists and scalars. Every
// backend hands back freshly decoded values, so callers may mutate what Get
// returns.
//
// Backends:
//   - Memory: in-process map, used by tests and the "memory" backend
//   - File: one file per key, encoded with a Codec (json, yaml, toml, cbor)
//   - Redis: one Redis string per key, JSON encoded
package storage
