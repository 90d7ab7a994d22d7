// Package ext canonicalizes file extension tokens into comparable keys.
//
// A key is lowercase, has no leading dot and only contains characters from
// [a-z0-9+_-]. Normalize never fails: input that reduces to nothing yields the
// empty string, which callers treat as "invalid, discard".
package ext
