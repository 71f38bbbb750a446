package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"sivigila-data/internal/domain"
	"sivigila-data/internal/repository"
	"sivigila-data/internal/sheets"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newExportFixture(t *testing.T) (ExportService, CaseService) {
	t.Helper()
	store := repository.NewCaseStore(sheets.NewMemoryClient(), zap.NewNop())
	cases := NewCaseService(store, zap.NewNop())
	return NewExportService(cases, zap.NewNop()), cases
}

func TestCSVCarriesBOMAndHeader(t *testing.T) {
	exp, cases := newExportFixture(t)
	ctx := context.Background()

	_, err := cases.Create(ctx, suraSession, validDraft())
	require.NoError(t, err)

	out, err := exp.CSV(ctx, secretariatSession, DashboardFilters{})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("\xEF\xBB\xBF")), "spreadsheet tools need the BOM to decode accents")

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(out, []byte("\xEF\xBB\xBF"))))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, domain.CaseColumns, rows[0])
	require.Equal(t, "900111222", rows[1][10])
	require.Equal(t, "ANA MARÍA", rows[1][7])
}

func TestCSVRespectsScope(t *testing.T) {
	exp, cases := newExportFixture(t)
	ctx := context.Background()

	_, err := cases.Create(ctx, suraSession, validDraft())
	require.NoError(t, err)

	out, err := exp.CSV(ctx, nuevaEPSSession, DashboardFilters{})
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(out, []byte("\xEF\xBB\xBF"))))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only: the scoped session sees nothing")
}

func TestSheetNameForLifeCycle(t *testing.T) {
	require.Equal(t, "Infancia", sheetNameForLifeCycle("Infancia (0-11 años)"))
	require.Equal(t, "Adolescencia y Juventud", sheetNameForLifeCycle("Adolescencia y Juventud (12-28 años)"))
	require.Equal(t, "Sin paréntesis", sheetNameForLifeCycle("Sin paréntesis"))

	long := strings.Repeat("á", 40)
	require.Equal(t, 31, len([]rune(sheetNameForLifeCycle(long))), "rune-safe truncation")
}

func TestWorkbookSheets(t *testing.T) {
	exp, cases := newExportFixture(t)
	ctx := context.Background()

	// One adolescent, one adult; no infancy rows.
	_, err := cases.Create(ctx, suraSession, validDraft())
	require.NoError(t, err)
	adult := validDraft()
	adult.DocumentNumber = "222"
	adult.Age = 40
	adult.LifeCycle = domain.LifeCycles[2]
	_, err = cases.Create(ctx, suraSession, adult)
	require.NoError(t, err)

	out, err := exp.Workbook(ctx, secretariatSession, DashboardFilters{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	names := f.GetSheetList()
	require.Contains(t, names, "TODOS_LOS_DATOS")
	require.Contains(t, names, "Adolescencia y Juventud")
	require.Contains(t, names, "Adultez y Vejez")
	require.NotContains(t, names, "Infancia", "empty bands get no sheet")
	require.NotContains(t, names, "Sheet1")

	header, err := f.GetCellValue("TODOS_LOS_DATOS", "A1")
	require.NoError(t, err)
	require.Equal(t, "id", header)

	rows, err := f.GetRows("TODOS_LOS_DATOS")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus both cases")

	bandRows, err := f.GetRows("Adultez y Vejez")
	require.NoError(t, err)
	require.Len(t, bandRows, 2, "header plus the single adult case")
}

func TestWorkbookAppliesFilters(t *testing.T) {
	exp, cases := newExportFixture(t)
	ctx := context.Background()

	_, err := cases.Create(ctx, suraSession, validDraft())
	require.NoError(t, err)
	other := validDraft()
	other.DocumentNumber = "222"
	other.Municipality = "PALMIRA"
	_, err = cases.Create(ctx, suraSession, other)
	require.NoError(t, err)

	out, err := exp.Workbook(ctx, secretariatSession, DashboardFilters{
		Municipalities: []string{"PALMIRA"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("TODOS_LOS_DATOS")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "PALMIRA", rows[1][13])
}
