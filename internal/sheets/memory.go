package sheets

import (
	"context"
	"sync"
)

// MemoryClient implementación en memoria de Client para desarrollo y tests.
// Reproduce la semántica de la hoja remota: filas posicionales, índices
// 1-based con encabezado en la fila 1.
type MemoryClient struct {
	mu     sync.RWMutex
	tables map[string]*memoryTable
}

type memoryTable struct {
	header []string
	rows   [][]string
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{tables: map[string]*memoryTable{}}
}

func (m *MemoryClient) EnsureTable(ctx context.Context, table string, header []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table]; !ok {
		m.tables[table] = &memoryTable{header: append([]string(nil), header...)}
	}
	return nil
}

func (m *MemoryClient) ReadAllRows(ctx context.Context, table string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[table]
	if !ok {
		return [][]string{}, nil
	}
	out := make([][]string, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, append([]string(nil), row...))
	}
	return out, nil
}

func (m *MemoryClient) AppendRow(ctx context.Context, table string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[table]
	if !ok {
		t = &memoryTable{}
		m.tables[table] = t
	}
	t.rows = append(t.rows, append([]string(nil), row...))
	return nil
}

func (m *MemoryClient) UpdateRowRange(ctx context.Context, table string, rowIndex int, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[table]
	if !ok {
		return ErrRowNotFound
	}
	// rowIndex 1 is the header; data rows start at 2.
	i := rowIndex - 2
	if i < 0 || i >= len(t.rows) {
		return ErrRowNotFound
	}
	t.rows[i] = append([]string(nil), row...)
	return nil
}
