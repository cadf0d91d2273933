package store

import "sync"

// Snapshot is the persisted form of the store: both slices, serialized as a
// unit.
type Snapshot struct {
	Chat      ChatState      `json:"chat"`
	Dashboard DashboardState `json:"dashboard"`
}

// Persistence loads and saves snapshots. Load returns (nil, nil) when
// nothing has been persisted yet.
type Persistence interface {
	Load() (*Snapshot, error)
	Save(Snapshot) error
	Close() error
}

// Memory is an in-process Persistence, used in tests.
type Memory struct {
	mu   sync.Mutex
	snap *Snapshot
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Load() (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return nil, nil
	}
	out := *m.snap
	return &out, nil
}

func (m *Memory) Save(snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = &snap
	return nil
}

func (m *Memory) Close() error { return nil }
