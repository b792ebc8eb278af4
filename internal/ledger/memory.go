package ledger

import (
	"context"
	"sync"
)

// MemoryLog is an in-process log used by tests and the "memory" backend.
type MemoryLog struct {
	name  string
	mu    sync.RWMutex
	lines [][]byte
}

func NewMemoryLog(name string) *MemoryLog {
	return &MemoryLog{name: name}
}

func (m *MemoryLog) Name() string { return m.name }

func (m *MemoryLog) Append(ctx context.Context, line []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := append([]byte(nil), line...)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, cp)
	return nil
}

func (m *MemoryLog) ReadAll(ctx context.Context) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][]byte, len(m.lines))
	for i, l := range m.lines {
		out[i] = append([]byte(nil), l...)
	}
	return out, nil
}

// Len returns the number of stored lines.
func (m *MemoryLog) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lines)
}
