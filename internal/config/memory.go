package config

import "context"

// Memory is an in-process Store used by tests and by components that need
// a Store without a filesystem, such as the portal's unit tests.
type Memory struct {
	r Record
}

// NewMemory creates a Memory store holding the zero Record.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Load(_ context.Context) (Record, error) { return m.r, nil }

func (m *Memory) Save(_ context.Context, r Record) error {
	m.r = r
	return nil
}

func (m *Memory) Wipe(_ context.Context) error {
	m.r = Record{}
	return nil
}

func (m *Memory) Close() error { return nil }
