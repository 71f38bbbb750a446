package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRowFollowsColumnOrder(t *testing.T) {
	rec := CaseRecord{
		ID:             "CS-20250101120000-42",
		ReportingEPS:   "SURA",
		EpiWeek:        12,
		FirstNames:     "ANA MARIA",
		Surnames:       "PEREZ",
		DocumentType:   "CC",
		DocumentNumber: "900111222",
		Age:            17,
		Municipality:   "CALI",
		Status:         "ACTIVO",
		FollowUpCount:  2,
	}
	row := rec.Row()

	require.Len(t, row, len(CaseColumns))
	require.Equal(t, "CS-20250101120000-42", row[0], "id must be column A")
	require.Equal(t, "SURA", row[3])
	require.Equal(t, "12", row[4])
	require.Equal(t, "900111222", row[10])
	require.Equal(t, "17", row[11])
	require.Equal(t, "2", row[29])
	require.Equal(t, "ACTIVO", row[32])
}

func TestCaseFromRowPadsShortRows(t *testing.T) {
	rec := CaseFromRow([]string{"CS-1", "2025-01-01 10:00:00"})
	require.Equal(t, "CS-1", rec.ID)
	require.Equal(t, "2025-01-01 10:00:00", rec.CapturedAt)
	require.Empty(t, rec.ReportingEPS)
	require.Empty(t, rec.Status)
	require.Zero(t, rec.Age)
}

func TestCaseFromRowCoercesNumericColumns(t *testing.T) {
	row := make([]string, len(CaseColumns))
	row[4] = "no es número"
	row[11] = "-3"
	row[29] = "5"
	rec := CaseFromRow(row)

	// Unparseable or negative values collapse to zero.
	require.Zero(t, rec.EpiWeek)
	require.Zero(t, rec.Age)
	require.Equal(t, 5, rec.FollowUpCount)
}

func TestRowThenFromRowKeepsEveryField(t *testing.T) {
	rec := CaseRecord{
		ID: "CS-1", CapturedAt: "2025-01-01 10:00:00", ReportedBy: "María García",
		ReportingEPS: "NUEVA EPS", EpiWeek: 7, LifeCycle: LifeCycles[1],
		PriorAttempt: "SI", FirstNames: "JUAN", Surnames: "GOMEZ",
		DocumentType: "TI", DocumentNumber: "123", Age: 15, Sex: "Masculino",
		Municipality: "PALMIRA", NotificationDate: "2025-01-01",
		Hospitalization: "SI", DischargeDate: "2025-01-05",
		PsychologyAssessment: "SI", PsychologyDate: "2025-01-06",
		FollowUp1: "13/03/2025 PSICOLOGÍA", MentalHealthPathway: "EN PROCESO",
		AttendsServices: "SIN CONTACTO", PostDischargeFollowUp: "NO",
		FollowUpCount: 1, TreatmentAbandoned: "NO", LaterReattempt: "SIN INFORMACIÓN",
		Status: "EN SEGUIMIENTO", Notes: "llamada sin respuesta",
		ModifiedBy: "María García", ModifiedAt: "2025-01-10 09:00:00",
	}
	require.Equal(t, rec, CaseFromRow(rec.Row()))
}
