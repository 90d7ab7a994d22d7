package storage

import (
	"context"
	"sync"

	"github.com/arthur-debert/asprules/pkg/errors"
)

// Memory is an in-process Storage. Values are stored encoded so that callers
// never share state with the store.
type Memory struct {
	mu    sync.Mutex
	codec Codec
	data  map[string][]byte

	getErr error
	setErr error

	gets int
	sets int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{codec: JSONCodec{}, data: make(map[string][]byte)}
}

// Get implements Storage.
func (m *Memory) Get(_ context.Context, key string) (any, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets++
	if m.getErr != nil {
		return nil, false, errors.Wrapf(m.getErr, errors.ErrStorageRead, "read %s", key)
	}

	data, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	v, err := m.codec.Decode(data)
	if err != nil {
		return nil, false, errors.Wrapf(err, errors.ErrStorageCodec, "decode %s", key)
	}
	return v, true, nil
}

// Set implements Storage.
func (m *Memory) Set(_ context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sets++
	if m.setErr != nil {
		return errors.Wrapf(m.setErr, errors.ErrStorageWrite, "write %s", key)
	}

	data, err := m.codec.Encode(value)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStorageCodec, "encode %s", key)
	}
	m.data[key] = data
	return nil
}

// SetRaw stores bytes verbatim, bypassing the codec. Used to simulate
// corrupt payloads.
func (m *Memory) SetRaw(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), data...)
}

// FailGet makes subsequent Get calls fail with err. nil clears it.
func (m *Memory) FailGet(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

// FailSet makes subsequent Set calls fail with err. nil clears it.
func (m *Memory) FailSet(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

// Calls returns how many Get and Set calls were made.
func (m *Memory) Calls() (gets, sets int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets, m.sets
}
