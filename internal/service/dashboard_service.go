package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"sivigila-data/internal/domain"

	"go.uber.org/zap"
)

// DashboardService KPIs, distribuciones y listados de alerta del tablero.
type DashboardService interface {
	Summary(ctx context.Context, sess domain.Session, filters DashboardFilters) (*DashboardSummary, error)
}

type dashboardService struct {
	cases  CaseService
	logger *zap.Logger
}

func NewDashboardService(cases CaseService, logger *zap.Logger) DashboardService {
	return &dashboardService{cases: cases, logger: logger}
}

// DashboardFilters filtros del tablero; se aplican después del filtro por rol.
type DashboardFilters struct {
	EPS            []string `json:"eps"`
	Municipalities []string `json:"municipios"`
	LifeCycles     []string `json:"ciclos_vitales"`
	Statuses       []string `json:"estados"`
	NotifiedFrom   string   `json:"fecha_desde"` // "2006-01-02", inclusive
	NotifiedTo     string   `json:"fecha_hasta"` // "2006-01-02", inclusive
}

// DashboardSummary resultado agregado del tablero.
type DashboardSummary struct {
	TotalCases             int     `json:"total_casos"`
	RepeatAttempts         int     `json:"reincidentes"`
	RepeatAttemptsPct      float64 `json:"reincidentes_pct"`
	Minors                 int     `json:"menores_18"`
	ActiveWithoutFollowUp  int     `json:"activos_sin_seguimiento"`

	ByMunicipality map[string]int `json:"por_municipio"`
	ByEPS          map[string]int `json:"por_eps"`
	ByLifeCycle    map[string]int `json:"por_ciclo_vital"`
	BySex          map[string]int `json:"por_sexo"`
	ByStatus       map[string]int `json:"por_estado"`

	WeeklyTrend []WeeklyCount `json:"tendencia_semanal"`

	RedAlerts         []domain.CaseRecord `json:"alerta_roja"`
	YellowAlerts      []domain.CaseRecord `json:"alerta_amarilla"`
	AbandonmentAlerts []domain.CaseRecord `json:"alerta_abandono"`
}

// WeeklyCount casos por semana epidemiológica.
type WeeklyCount struct {
	Week  int `json:"semana"`
	Cases int `json:"casos"`
}

func containsValue(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func parseDay(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// applyFilters narrows an already-scoped record set by the dashboard filters.
func applyFilters(records []domain.CaseRecord, f DashboardFilters) []domain.CaseRecord {
	from, hasFrom := parseDay(f.NotifiedFrom)
	to, hasTo := parseDay(f.NotifiedTo)

	out := make([]domain.CaseRecord, 0, len(records))
	for _, r := range records {
		if len(f.EPS) > 0 && !containsValue(f.EPS, r.ReportingEPS) {
			continue
		}
		if len(f.Municipalities) > 0 && !containsValue(f.Municipalities, r.Municipality) {
			continue
		}
		if len(f.LifeCycles) > 0 && !containsValue(f.LifeCycles, r.LifeCycle) {
			continue
		}
		if len(f.Statuses) > 0 && !containsValue(f.Statuses, r.Status) {
			continue
		}
		if hasFrom || hasTo {
			day, ok := parseDay(r.NotificationDate)
			// Rows with unparseable notification dates fall out of any date
			// range, same as the source data does.
			if !ok {
				continue
			}
			if hasFrom && day.Before(from) {
				continue
			}
			if hasTo && day.After(to) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func (s *dashboardService) Summary(ctx context.Context, sess domain.Session, filters DashboardFilters) (*DashboardSummary, error) {
	records, err := s.cases.List(ctx, sess, false)
	if err != nil {
		return nil, err
	}
	records = applyFilters(records, filters)

	sum := &DashboardSummary{
		ByMunicipality:    map[string]int{},
		ByEPS:             map[string]int{},
		ByLifeCycle:       map[string]int{},
		BySex:             map[string]int{},
		ByStatus:          map[string]int{},
		RedAlerts:         []domain.CaseRecord{},
		YellowAlerts:      []domain.CaseRecord{},
		AbandonmentAlerts: []domain.CaseRecord{},
	}

	weekly := map[int]int{}
	for _, r := range records {
		sum.TotalCases++

		priorAttempt := strings.ToUpper(r.PriorAttempt) == "SI"
		active := strings.ToUpper(r.Status) == "ACTIVO"
		attends := strings.ToUpper(r.AttendsServices)

		if priorAttempt {
			sum.RepeatAttempts++
			sum.RedAlerts = append(sum.RedAlerts, r)
		}
		if r.Age < 18 {
			sum.Minors++
		}
		if active && r.FollowUpCount == 0 {
			sum.ActiveWithoutFollowUp++
		}
		if (active && r.FollowUpCount == 0) || attends == "NO" || attends == "SIN CONTACTO" {
			sum.YellowAlerts = append(sum.YellowAlerts, r)
		}
		if strings.ToUpper(r.TreatmentAbandoned) == "SI" {
			sum.AbandonmentAlerts = append(sum.AbandonmentAlerts, r)
		}

		sum.ByMunicipality[r.Municipality]++
		sum.ByEPS[r.ReportingEPS]++
		sum.ByLifeCycle[r.LifeCycle]++
		sum.BySex[r.Sex]++
		sum.ByStatus[r.Status]++
		if r.EpiWeek > 0 {
			weekly[r.EpiWeek]++
		}
	}

	if sum.TotalCases > 0 {
		sum.RepeatAttemptsPct = float64(sum.RepeatAttempts) / float64(sum.TotalCases) * 100
	}

	weeks := make([]int, 0, len(weekly))
	for w := range weekly {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	for _, w := range weeks {
		sum.WeeklyTrend = append(sum.WeeklyTrend, WeeklyCount{Week: w, Cases: weekly[w]})
	}

	return sum, nil
}
