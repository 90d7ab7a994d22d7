// Package core wires the rule collaborators to a host.
//
// A Host bundles the capabilities the surrounding application offers: a
// key-value Storage, a suffix Registry, an optional view refresh hook and a
// notification Sink. Only the registry is required.
//
// # Activation
//
// Activate performs the start-up sequence:
//
//  1. Check that the host exposes a registry. If not, send one error notice
//     and stop with ErrCapabilityMissing. Nothing is read or written.
//  2. Load the stored rules (falling back to the built-in default).
//  3. Save them back, so storage always holds the sanitized form.
//  4. Apply them: clear prior registrations, register in order, refresh.
//
// Steps 2-4 never fail; problems are logged and the sequence continues.
//
// # Settings
//
// OpenSettings runs the same capability check and returns an editor.Session
// pre-filled with the loaded rules. Saving the session persists and applies
// the new rule set.
//
// # Deactivation
//
// Deactivate does nothing. Hosts drop a plugin's registrations themselves.
package core
