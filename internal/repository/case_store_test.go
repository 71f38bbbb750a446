package repository

import (
	"context"
	"testing"
	"time"

	"sivigila-data/internal/domain"
	"sivigila-data/internal/sheets"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*CaseStore, *sheets.MemoryClient) {
	t.Helper()
	client := sheets.NewMemoryClient()
	return NewCaseStore(client, zap.NewNop()), client
}

func draftCase(doc string) domain.CaseRecord {
	return domain.CaseRecord{
		ReportedBy:     "María García",
		ReportingEPS:   "SURA",
		EpiWeek:        10,
		LifeCycle:      domain.LifeCycles[1],
		PriorAttempt:   "NO",
		FirstNames:     "ANA",
		Surnames:       "PEREZ",
		DocumentType:   "CC",
		DocumentNumber: doc,
		Age:            17,
		Sex:            "Femenino",
		Municipality:   "CALI",
		Status:         "ACTIVO",
	}
}

func TestAppendThenLoadAll(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	before, err := store.LoadAll(ctx, true)
	require.NoError(t, err)
	require.Empty(t, before, "empty table yields empty slice, not error")

	id, err := store.Append(ctx, draftCase("900111222"))
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Contains(t, id, "CS-")

	after, err := store.LoadAll(ctx, true)
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.Equal(t, id, after[0].ID)
	require.Equal(t, "900111222", after[0].DocumentNumber)
	require.Equal(t, 17, after[0].Age)
	require.Equal(t, "SURA", after[0].ReportingEPS)
	require.Equal(t, "María García", after[0].ModifiedBy, "creation stamps modifier from reporting clerk")
	require.NotEmpty(t, after[0].CapturedAt)
}

func TestAppendAssignsUniqueIdentifiers(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// Force distinct sub-second suffixes so the rate guarantee holds in-test.
	suffix := 0
	store.idSuffix = func() int { suffix++; return suffix }

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		id, err := store.Append(ctx, draftCase("1"))
		require.NoError(t, err)
		require.False(t, seen[id], "identifier %s repeated", id)
		seen[id] = true
	}
}

func TestUpdateOverwritesFullRow(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.Append(ctx, draftCase("900111222"))
	require.NoError(t, err)

	patch := draftCase("900111222")
	patch.Status = "EN SEGUIMIENTO"
	patch.FollowUpCount = 3
	patch.Notes = "contacto telefónico efectivo"
	require.NoError(t, store.Update(ctx, id, patch, "Pedro Ruiz"))

	after, err := store.LoadAll(ctx, true)
	require.NoError(t, err)
	require.Len(t, after, 1, "row count unchanged by update")
	require.Equal(t, id, after[0].ID, "identifier immutable")
	require.Equal(t, "EN SEGUIMIENTO", after[0].Status)
	require.Equal(t, 3, after[0].FollowUpCount)
	require.Equal(t, "Pedro Ruiz", after[0].ModifiedBy)
	require.NotEmpty(t, after[0].ModifiedAt)
}

func TestUpdateMissingIDLeavesTableUntouched(t *testing.T) {
	store, client := newTestStore(t)
	ctx := context.Background()

	_, err := store.Append(ctx, draftCase("111"))
	require.NoError(t, err)
	before, err := client.ReadAllRows(ctx, sheets.CaseTable)
	require.NoError(t, err)

	err = store.Update(ctx, "CS-NO-EXISTE", draftCase("111"), "x")
	require.ErrorIs(t, err, ErrCaseNotFound)

	after, err := client.ReadAllRows(ctx, sheets.CaseTable)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestUpdateMatchesIdentifierColumnOnly(t *testing.T) {
	store, client := newTestStore(t)
	ctx := context.Background()

	id, err := store.Append(ctx, draftCase("900111222"))
	require.NoError(t, err)

	// A second row carries the first row's id in its document column. A scan
	// over the whole row would hit it first.
	decoy := draftCase(id)
	decoyID, err := store.Append(ctx, decoy)
	require.NoError(t, err)

	patch := draftCase("900111222")
	patch.Status = "CERRADO"
	require.NoError(t, store.Update(ctx, id, patch, "x"))

	rows, err := client.ReadAllRows(ctx, sheets.CaseTable)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := domain.CaseFromRow(rows[0])
	second := domain.CaseFromRow(rows[1])
	require.Equal(t, "CERRADO", first.Status)
	require.Equal(t, decoyID, second.ID)
	require.NotEqual(t, "CERRADO", second.Status, "decoy row must be untouched")
}

func TestLoadAllCachesWithinFreshnessWindow(t *testing.T) {
	store, client := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_, err := store.Append(ctx, draftCase("111"))
	require.NoError(t, err)
	first, err := store.LoadAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A write landing on the sheet from outside this process; the cached
	// read must not see it yet.
	extra := draftCase("222")
	extra.ID = "CS-EXTERNO-1"
	require.NoError(t, client.AppendRow(ctx, sheets.CaseTable, extra.Row()))

	cached, err := store.LoadAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, cached, 1, "stale read within freshness window")

	forced, err := store.LoadAll(ctx, true)
	require.NoError(t, err)
	require.Len(t, forced, 2, "force bypasses the cache")

	// After the window expires the next plain read refetches too.
	_, err = store.LoadAll(ctx, false)
	require.NoError(t, err)
	now = now.Add(DefaultFreshness + time.Second)
	refreshed, err := store.LoadAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, refreshed, 2)
}

func TestWriteInvalidatesCache(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.LoadAll(ctx, false)
	require.NoError(t, err)

	id, err := store.Append(ctx, draftCase("333"))
	require.NoError(t, err)

	// Plain (non-forced) read right after the write already sees it.
	records, err := store.LoadAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, id, records[0].ID)
}

func TestFindByDocument(t *testing.T) {
	records := []domain.CaseRecord{
		{ID: "CS-1", DocumentNumber: "12345678"},
		{ID: "CS-2", DocumentNumber: " 12345678 "},
		{ID: "CS-3", DocumentNumber: "87654321"},
	}

	found := FindByDocument(records, "12345678")
	require.Len(t, found, 2, "trimmed exact match")

	require.Empty(t, FindByDocument(records, ""))
	require.Empty(t, FindByDocument(nil, "12345678"))
	require.Empty(t, FindByDocument(records, "123"))
}

func TestSearchByName(t *testing.T) {
	records := []domain.CaseRecord{
		{ID: "CS-1", FirstNames: "ANA MARIA", Surnames: "PEREZ"},
		{ID: "CS-2", FirstNames: "JUAN", Surnames: "MARIN"},
		{ID: "CS-3", FirstNames: "LUIS", Surnames: "GOMEZ"},
	}

	require.Len(t, SearchByName(records, "mari"), 2, "substring, case-insensitive")
	require.Len(t, SearchByName(records, "PEREZ"), 1)
	require.Empty(t, SearchByName(records, ""))
	require.Empty(t, SearchByName(records, "zzz"))
}
