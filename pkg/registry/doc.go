// Package registry defines the host registry capability that rules are
// applied to, and Memory, an in-process host registry that resolves file
// names to rules with last-registered-wins semantics.
//
// Table is the generic, thread-safe name table Memory is built on.
package registry
