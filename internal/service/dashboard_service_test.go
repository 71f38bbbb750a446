package service

import (
	"context"
	"testing"

	"sivigila-data/internal/domain"
	"sivigila-data/internal/repository"
	"sivigila-data/internal/sheets"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDashboardFixture(t *testing.T) (DashboardService, CaseService) {
	t.Helper()
	store := repository.NewCaseStore(sheets.NewMemoryClient(), zap.NewNop())
	cases := NewCaseService(store, zap.NewNop())
	return NewDashboardService(cases, zap.NewNop()), cases
}

func seedCase(t *testing.T, cases CaseService, mutate func(*domain.CaseRecord)) {
	t.Helper()
	draft := validDraft()
	mutate(&draft)
	_, err := cases.Create(context.Background(), secretariatSession, draft)
	require.NoError(t, err)
}

func TestSummaryKPIs(t *testing.T) {
	dash, cases := newDashboardFixture(t)
	ctx := context.Background()

	// Minor, repeat attempt, active without any follow-up.
	seedCase(t, cases, func(r *domain.CaseRecord) {
		r.PriorAttempt = "SI"
		r.Age = 15
		r.Status = "ACTIVO"
		r.FollowUpCount = 0
		r.EpiWeek = 10
	})
	// Adult in follow-up, attending services.
	seedCase(t, cases, func(r *domain.CaseRecord) {
		r.DocumentNumber = "222"
		r.Age = 34
		r.LifeCycle = domain.LifeCycles[2]
		r.Status = "EN SEGUIMIENTO"
		r.FollowUpCount = 2
		r.AttendsServices = "SI"
		r.EpiWeek = 10
	})
	// Adult who abandoned treatment and does not attend.
	seedCase(t, cases, func(r *domain.CaseRecord) {
		r.DocumentNumber = "333"
		r.Age = 40
		r.LifeCycle = domain.LifeCycles[2]
		r.Status = "ACTIVO"
		r.FollowUpCount = 1
		r.AttendsServices = "NO"
		r.TreatmentAbandoned = "SI"
		r.EpiWeek = 11
	})

	sum, err := dash.Summary(ctx, secretariatSession, DashboardFilters{})
	require.NoError(t, err)

	require.Equal(t, 3, sum.TotalCases)
	require.Equal(t, 1, sum.RepeatAttempts)
	require.InDelta(t, 33.33, sum.RepeatAttemptsPct, 0.01)
	require.Equal(t, 1, sum.Minors)
	require.Equal(t, 1, sum.ActiveWithoutFollowUp)

	require.Len(t, sum.RedAlerts, 1)
	require.Len(t, sum.YellowAlerts, 2, "no follow-up case plus the non-attender")
	require.Len(t, sum.AbandonmentAlerts, 1)

	require.Equal(t, 3, sum.ByEPS["SURA"])
	require.Equal(t, 2, sum.ByLifeCycle[domain.LifeCycles[2]])
	require.Equal(t, []WeeklyCount{{Week: 10, Cases: 2}, {Week: 11, Cases: 1}}, sum.WeeklyTrend)
}

func TestSummaryEmptySet(t *testing.T) {
	dash, _ := newDashboardFixture(t)

	sum, err := dash.Summary(context.Background(), secretariatSession, DashboardFilters{})
	require.NoError(t, err)
	require.Equal(t, 0, sum.TotalCases)
	require.Zero(t, sum.RepeatAttemptsPct, "no division on an empty set")
	require.Empty(t, sum.RedAlerts)
	require.NotNil(t, sum.ByEPS)
}

func TestSummaryRespectsSessionScope(t *testing.T) {
	dash, cases := newDashboardFixture(t)
	ctx := context.Background()

	seedCase(t, cases, func(r *domain.CaseRecord) {})
	seedCase(t, cases, func(r *domain.CaseRecord) {
		r.DocumentNumber = "222"
		r.ReportingEPS = "NUEVA EPS"
	})

	sum, err := dash.Summary(ctx, suraSession, DashboardFilters{})
	require.NoError(t, err)
	require.Equal(t, 1, sum.TotalCases, "scoped sessions aggregate only their own EPS")
}

func TestApplyFiltersCategories(t *testing.T) {
	records := []domain.CaseRecord{
		{ReportingEPS: "SURA", Municipality: "CALI", Status: "ACTIVO"},
		{ReportingEPS: "SANITAS", Municipality: "PALMIRA", Status: "CERRADO"},
		{ReportingEPS: "SURA", Municipality: "PALMIRA", Status: "ACTIVO"},
	}

	out := applyFilters(records, DashboardFilters{EPS: []string{"SURA"}})
	require.Len(t, out, 2)

	out = applyFilters(records, DashboardFilters{
		EPS:            []string{"SURA"},
		Municipalities: []string{"PALMIRA"},
	})
	require.Len(t, out, 1)

	out = applyFilters(records, DashboardFilters{Statuses: []string{"CERRADO"}})
	require.Len(t, out, 1)

	out = applyFilters(records, DashboardFilters{})
	require.Len(t, out, 3, "no filters passes everything through")
}

func TestApplyFiltersDateRange(t *testing.T) {
	records := []domain.CaseRecord{
		{ID: "CS-1", NotificationDate: "2025-01-10"},
		{ID: "CS-2", NotificationDate: "2025-02-20"},
		{ID: "CS-3", NotificationDate: "no es fecha"},
		{ID: "CS-4", NotificationDate: ""},
	}

	out := applyFilters(records, DashboardFilters{NotifiedFrom: "2025-02-01"})
	require.Len(t, out, 1)
	require.Equal(t, "CS-2", out[0].ID)

	out = applyFilters(records, DashboardFilters{NotifiedFrom: "2025-01-10", NotifiedTo: "2025-01-31"})
	require.Len(t, out, 1, "bounds are inclusive")
	require.Equal(t, "CS-1", out[0].ID)

	// Unparseable dates fall out of any date-bounded query, but survive when
	// no date filter is set.
	out = applyFilters(records, DashboardFilters{NotifiedTo: "2025-12-31"})
	require.Len(t, out, 2)
	out = applyFilters(records, DashboardFilters{})
	require.Len(t, out, 4)
}
