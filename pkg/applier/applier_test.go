package applier_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/asprules/pkg/applier"
	"github.com/arthur-debert/asprules/pkg/registry"
	"github.com/arthur-debert/asprules/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHost records calls in order. It implements Registry and Clearer.
type fakeHost struct {
	calls    []string
	clearErr error
	clearPan bool
	failOn   map[string]error
	panicOn  map[string]bool
}

func (h *fakeHost) Register(r rules.Rule) error {
	key := r.Extensions[0]
	h.calls = append(h.calls, "register:"+key)
	if h.panicOn[key] {
		panic("host blew up on " + key)
	}
	return h.failOn[key]
}

func (h *fakeHost) UnregisterAll() error {
	h.calls = append(h.calls, "clear")
	if h.clearPan {
		panic("clear failed")
	}
	return h.clearErr
}

func sampleRules() rules.RuleSet {
	return rules.RuleSet{
		{Extensions: []string{"md"}},
		{Extensions: []string{"png"}, OpenWith: rules.Plugin("viewer", "")},
		{Extensions: []string{"pdf"}},
	}
}

func TestApply_ClearsThenRegistersInOrderThenRefreshes(t *testing.T) {
	host := &fakeHost{}
	refreshed := 0
	a := applier.New(host, applier.WithRefresh(func(context.Context) error {
		host.calls = append(host.calls, "refresh")
		refreshed++
		return nil
	}))

	report := a.Reconcile(context.Background(), sampleRules())

	assert.Equal(t, []string{"clear", "register:md", "register:png", "register:pdf", "refresh"}, host.calls)
	assert.Equal(t, 1, refreshed)
	assert.True(t, report.Cleared)
	assert.Equal(t, 3, report.Registered)
	assert.Empty(t, report.Failed)
	assert.True(t, report.Refreshed)
}

func TestApply_FailureDoesNotStopLaterRules(t *testing.T) {
	tests := []struct {
		name string
		host *fakeHost
	}{
		{
			name: "error",
			host: &fakeHost{failOn: map[string]error{"png": stderrors.New("plugin missing")}},
		},
		{
			name: "panic",
			host: &fakeHost{panicOn: map[string]bool{"png": true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := applier.New(tt.host).Reconcile(context.Background(), sampleRules())

			assert.Equal(t, []string{"clear", "register:md", "register:png", "register:pdf"}, tt.host.calls)
			assert.Equal(t, 2, report.Registered)
			require.Len(t, report.Failed, 1)
			assert.Equal(t, 1, report.Failed[0].Index)
			assert.Equal(t, []string{"png"}, report.Failed[0].Rule.Extensions)
		})
	}
}

func TestApply_ClearFailureIsSwallowed(t *testing.T) {
	for _, host := range []*fakeHost{
		{clearErr: stderrors.New("nope")},
		{clearPan: true},
	} {
		report := applier.New(host).Reconcile(context.Background(), sampleRules())
		assert.False(t, report.Cleared)
		assert.Error(t, report.ClearErr)
		assert.Equal(t, 3, report.Registered)
	}
}

func TestApply_RegistryWithoutClearer(t *testing.T) {
	var got []string
	reg := registry.RegistryFunc(func(r rules.Rule) error {
		got = append(got, r.Extensions[0])
		return nil
	})

	report := applier.New(reg).Reconcile(context.Background(), sampleRules())
	assert.False(t, report.Cleared)
	assert.NoError(t, report.ClearErr)
	assert.Equal(t, []string{"md", "png", "pdf"}, got)
}

func TestApply_NilRegistry(t *testing.T) {
	refreshed := false
	a := applier.New(nil, applier.WithRefresh(func(context.Context) error {
		refreshed = true
		return nil
	}))

	assert.NotPanics(t, func() {
		a.Apply(context.Background(), sampleRules())
	})
	assert.False(t, refreshed)
}

func TestApply_RefreshFailureIsSwallowed(t *testing.T) {
	tests := []struct {
		name    string
		refresh applier.RefreshFunc
	}{
		{name: "error", refresh: func(context.Context) error { return stderrors.New("view gone") }},
		{name: "panic", refresh: func(context.Context) error { panic("view gone") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := applier.New(&fakeHost{}, applier.WithRefresh(tt.refresh)).
				Reconcile(context.Background(), sampleRules())
			assert.False(t, report.Refreshed)
			assert.Error(t, report.RefreshErr)
			assert.Equal(t, 3, report.Registered)
		})
	}
}

func TestApply_IdempotentWithMemoryRegistry(t *testing.T) {
	reg := registry.NewMemory()
	a := applier.New(reg)

	a.Apply(context.Background(), sampleRules())
	first := reg.Rules()
	a.Apply(context.Background(), sampleRules())

	assert.Equal(t, first, reg.Rules())
	assert.Equal(t, []string{"md", "pdf", "png"}, reg.Extensions())
	assert.Equal(t, 2, reg.Clears())
}

func TestApply_EmptyRuleSet(t *testing.T) {
	host := &fakeHost{}
	report := applier.New(host).Reconcile(context.Background(), nil)
	assert.Equal(t, []string{"clear"}, host.calls)
	assert.Zero(t, report.Registered)
}
