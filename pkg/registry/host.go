package registry

import "github.com/arthur-debert/asprules/pkg/rules"

// Registry is the host capability rules are registered with. Register may
// fail for an individual rule.
type Registry interface {
	Register(rule rules.Rule) error
}

// Clearer is implemented by hosts that can drop every registration at once.
type Clearer interface {
	UnregisterAll() error
}

// RegistryFunc adapts a function to Registry.
type RegistryFunc func(rule rules.Rule) error

// Register calls f(rule).
func (f RegistryFunc) Register(rule rules.Rule) error {
	return f(rule)
}
