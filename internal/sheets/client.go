package sheets

import (
	"context"
	"errors"
)

// Nombres de hoja dentro del libro remoto.
const (
	CaseTable = "DATOS"
	UserTable = "USUARIOS"
)

// ErrRowNotFound la fila buscada no existe en la hoja.
var ErrRowNotFound = errors.New("row not found")

// Client acceso al libro de cálculo remoto. Cada operación es un viaje de red
// bloqueante: o termina o falla, sin reintentos más allá de los del transporte
// y sin efectos parciales reportados.
//
// Los índices de fila son 1-based e incluyen la fila de encabezado, igual que
// en la API remota (la primera fila de datos es la 2).
type Client interface {
	// EnsureTable creates the table with the given header when it does not
	// exist yet. It never touches an existing table.
	EnsureTable(ctx context.Context, table string, header []string) error

	// ReadAllRows returns every data row (header excluded), in sheet order.
	// An empty table yields an empty slice, not an error.
	ReadAllRows(ctx context.Context, table string) ([][]string, error)

	// AppendRow appends one row after the last occupied row.
	AppendRow(ctx context.Context, table string, row []string) error

	// UpdateRowRange overwrites the full row at rowIndex.
	UpdateRowRange(ctx context.Context, table string, rowIndex int, row []string) error
}
