package registry

import (
	"strings"
	"sync"

	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/arthur-debert/asprules/pkg/ext"
	"github.com/arthur-debert/asprules/pkg/rules"
)

// Memory is an in-process host registry. Each extension resolves to the rule
// registered last that claims it.
type Memory struct {
	mu         sync.Mutex
	byExt      *Table[rules.Rule]
	registered rules.RuleSet
	clears     int
	reject     func(rules.Rule) error
}

// MemoryOption configures a Memory registry.
type MemoryOption func(*Memory)

// WithRejector installs a hook that can refuse individual registrations.
func WithRejector(fn func(rules.Rule) error) MemoryOption {
	return func(m *Memory) { m.reject = fn }
}

// AllowPlugins refuses plugin rules whose plugin id is not listed. An empty
// list allows every plugin.
func AllowPlugins(ids ...string) MemoryOption {
	return pluginFilter(false, ids)
}

// RequirePlugins is AllowPlugins where an empty list refuses every plugin
// rule.
func RequirePlugins(ids ...string) MemoryOption {
	return pluginFilter(true, ids)
}

func pluginFilter(strict bool, ids []string) MemoryOption {
	allowed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			allowed[id] = struct{}{}
		}
	}
	return WithRejector(func(r rules.Rule) error {
		if len(allowed) == 0 && !strict {
			return nil
		}
		ow := r.EffectiveOpenWith()
		if ow.Mode != rules.ModePlugin {
			return nil
		}
		if _, ok := allowed[ow.PluginID]; !ok {
			return errors.Newf(errors.ErrRegistration, "plugin %q is not installed", ow.PluginID).
				WithDetail("extensions", r.Extensions)
		}
		return nil
	})
}

// NewMemory creates an empty host registry.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{byExt: NewTable[rules.Rule]()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register implements Registry.
func (m *Memory) Register(rule rules.Rule) error {
	if len(rule.Extensions) == 0 {
		return errors.New(errors.ErrInvalidInput, "rule has no extensions")
	}
	if m.reject != nil {
		if err := m.reject(rule); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	clone := rule.Clone()
	for _, key := range clone.Extensions {
		if err := m.byExt.Put(key, clone); err != nil {
			return errors.Wrapf(err, errors.ErrRegistration, "register extension %q", key)
		}
	}
	m.registered = append(m.registered, clone)
	return nil
}

// UnregisterAll implements Clearer.
func (m *Memory) UnregisterAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byExt.Clear()
	m.registered = nil
	m.clears++
	return nil
}

// Lookup returns the rule for a normalized extension key.
func (m *Memory) Lookup(key string) (rules.Rule, bool) {
	r, ok := m.byExt.Get(key)
	if !ok {
		return rules.Rule{}, false
	}
	return r.Clone(), true
}

// Resolve returns the rule for a file name based on its extension.
func (m *Memory) Resolve(name string) (rules.Rule, bool) {
	key := ext.FromPath(name)
	if key == "" {
		return rules.Rule{}, false
	}
	return m.Lookup(key)
}

// Rules returns the registered rules in registration order.
func (m *Memory) Rules() rules.RuleSet {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.registered.Clone()
}

// Extensions returns every claimed extension key, sorted.
func (m *Memory) Extensions() []string {
	return m.byExt.Keys()
}

// Clears returns how many times UnregisterAll was called.
func (m *Memory) Clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.clears
}
