package dataprocessing

import (
	"log/slog"
	"sort"
	"strings"
	"time"
)

// missingLabel groups missing estado values in the status breakdown.
const missingLabel = "(vacío)"

// Summarizer computes the aggregate metrics the dashboard and the export
// summary sheet display. Every metric follows the same rule as the cleaning
// pipeline: an absent column yields a zero or absent metric, never an error.
type Summarizer struct {
	logger     *slog.Logger
	expirySoon time.Duration
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	ExpirySoon time.Duration // window for the expiring-lines alert
}

// NewSummarizer creates a summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.ExpirySoon <= 0 {
		config.ExpirySoon = 30 * 24 * time.Hour
	}
	return &Summarizer{logger: logger, expirySoon: config.ExpirySoon}
}

// LinesSummary aggregates a cleaned credit-lines table.
type LinesSummary struct {
	Rows              int     `json:"rows"`
	DistinctEntities  int     `json:"distinct_entities"`
	ApprovedTotal     float64 `json:"approved_total"`
	UsedTotal         float64 `json:"used_total"`
	UsagePctMean      float64 `json:"usage_pct_mean"`
	HasUsagePct       bool    `json:"has_usage_pct"`
	ExpiringSoonCount int     `json:"expiring_soon_count"`
}

// DisbursementsSummary aggregates a cleaned disbursements table.
type DisbursementsSummary struct {
	Rows          int        `json:"rows"`
	Total         float64    `json:"total"`
	LastDate      *time.Time `json:"last_date,omitempty"`
	LastDayTotal  float64    `json:"last_day_total"`
	Last7DayTotal float64    `json:"last_7_day_total"`
}

// ComplianceSummary aggregates a cleaned compliance table.
type ComplianceSummary struct {
	Rows         int            `json:"rows"`
	StatusCounts []StatusCount  `json:"status_counts"`
	AlertRows    int            `json:"alert_rows"`
	byStatus     map[string]int // estado -> count lookup
}

// StatusCount is one entry of the estado breakdown, sorted by count then name.
type StatusCount struct {
	Estado string `json:"estado"`
	Count  int    `json:"count"`
}

// ContactsSummary aggregates a cleaned contacts table.
type ContactsSummary struct {
	Rows            int `json:"rows"`
	MissingEmail    int `json:"missing_email"`
	MissingPhone    int `json:"missing_phone"`
	DuplicateEmails int `json:"duplicate_emails"`
}

// SummarizeLines computes the credit-lines metrics. The reference date
// anchors the expiring-soon window.
func (s *Summarizer) SummarizeLines(t Table, reference time.Time) LinesSummary {
	sum := LinesSummary{Rows: t.Len()}

	if t.HasColumn("esfs") {
		seen := make(map[string]struct{})
		for _, row := range t.Rows {
			if v, ok := row.String("esfs"); ok {
				seen[v] = struct{}{}
			}
		}
		sum.DistinctEntities = len(seen)
	} else {
		sum.DistinctEntities = t.Len()
	}

	sum.ApprovedTotal = columnSum(t, "monto_aprobado")
	sum.UsedTotal = columnSum(t, "monto_utilizado")
	sum.UsagePctMean, sum.HasUsagePct = columnMean(t, "uso_pct")

	if t.HasColumn("fecha_vigencia") {
		cutoff := reference.Add(s.expirySoon)
		for _, row := range t.Rows {
			if ts, ok := row.Time("fecha_vigencia"); ok && !ts.After(cutoff) {
				sum.ExpiringSoonCount++
			}
		}
	}
	return sum
}

// ExpiringLines returns the rows whose fecha_vigencia falls within the
// expiring-soon window of the reference date, preserving input order.
func (s *Summarizer) ExpiringLines(t Table, reference time.Time) []Row {
	if !t.HasColumn("fecha_vigencia") {
		return nil
	}
	cutoff := reference.Add(s.expirySoon)
	var rows []Row
	for _, row := range t.Rows {
		if ts, ok := row.Time("fecha_vigencia"); ok && !ts.After(cutoff) {
			rows = append(rows, row)
		}
	}
	return rows
}

// SummarizeDisbursements computes the disbursement metrics.
func (s *Summarizer) SummarizeDisbursements(t Table) DisbursementsSummary {
	sum := DisbursementsSummary{Rows: t.Len()}
	sum.Total = columnSum(t, "monto_desembolso")

	if !t.HasColumn("fecha") {
		return sum
	}
	var last time.Time
	found := false
	for _, row := range t.Rows {
		if ts, ok := row.Time("fecha"); ok {
			if !found || ts.After(last) {
				last = ts
				found = true
			}
		}
	}
	if !found {
		return sum
	}
	sum.LastDate = &last

	lastDay := last.Truncate(24 * time.Hour)
	cutoff := last.Add(-7 * 24 * time.Hour)
	for _, row := range t.Rows {
		ts, ok := row.Time("fecha")
		if !ok {
			continue
		}
		amount, okN := row.Number("monto_desembolso")
		if !okN {
			continue
		}
		if ts.Truncate(24 * time.Hour).Equal(lastDay) {
			sum.LastDayTotal += amount
		}
		if !ts.Before(cutoff) {
			sum.Last7DayTotal += amount
		}
	}
	return sum
}

// SummarizeCompliance computes the estado breakdown and the count of rows in
// an alerting state (pendiente or observado).
func (s *Summarizer) SummarizeCompliance(t Table) ComplianceSummary {
	sum := ComplianceSummary{Rows: t.Len(), byStatus: make(map[string]int)}
	if !t.HasColumn("estado") {
		return sum
	}
	for _, row := range t.Rows {
		estado, ok := row.String("estado")
		if !ok || strings.TrimSpace(estado) == "" {
			estado = missingLabel
		} else {
			estado = strings.TrimSpace(estado)
		}
		sum.byStatus[estado]++
	}
	sum.AlertRows = sum.byStatus["pendiente"] + sum.byStatus["observado"]

	sum.StatusCounts = make([]StatusCount, 0, len(sum.byStatus))
	for estado, count := range sum.byStatus {
		sum.StatusCounts = append(sum.StatusCounts, StatusCount{Estado: estado, Count: count})
	}
	sort.Slice(sum.StatusCounts, func(i, j int) bool {
		if sum.StatusCounts[i].Count != sum.StatusCounts[j].Count {
			return sum.StatusCounts[i].Count > sum.StatusCounts[j].Count
		}
		return sum.StatusCounts[i].Estado < sum.StatusCounts[j].Estado
	})
	return sum
}

// StatusCount returns the count for one estado value, zero when absent.
func (c ComplianceSummary) StatusCount(estado string) int {
	return c.byStatus[estado]
}

// AlertStates returns the rows whose estado is pendiente or observado.
func (s *Summarizer) AlertStates(t Table) []Row {
	if !t.HasColumn("estado") {
		return nil
	}
	var rows []Row
	for _, row := range t.Rows {
		estado, ok := row.String("estado")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(estado)) {
		case "pendiente", "observado":
			rows = append(rows, row)
		}
	}
	return rows
}

// SummarizeContacts computes the contact-base quality metrics. Counts are
// taken only over the correo/telefono columns when present; absent columns
// yield zero counts.
func (s *Summarizer) SummarizeContacts(t Table) ContactsSummary {
	sum := ContactsSummary{Rows: t.Len()}

	if t.HasColumn("correo") {
		seen := make(map[string]struct{})
		for _, row := range t.Rows {
			v, ok := row.String("correo")
			trimmed := strings.TrimSpace(v)
			if !ok || trimmed == "" {
				sum.MissingEmail++
				continue
			}
			if _, dup := seen[trimmed]; dup {
				sum.DuplicateEmails++
			} else {
				seen[trimmed] = struct{}{}
			}
		}
	}
	if t.HasColumn("telefono") {
		for _, row := range t.Rows {
			v, ok := row.String("telefono")
			if !ok || strings.TrimSpace(v) == "" {
				sum.MissingPhone++
			}
		}
	}
	return sum
}

// columnSum sums the non-missing numeric cells of a column; absent column
// sums to zero.
func columnSum(t Table, col string) float64 {
	if !t.HasColumn(col) {
		return 0
	}
	var total float64
	for _, row := range t.Rows {
		if f, ok := row.Number(col); ok {
			total += f
		}
	}
	return total
}

// columnMean averages the non-missing numeric cells of a column. The second
// return value is false when the column is absent or has no numeric cells.
func columnMean(t Table, col string) (float64, bool) {
	if !t.HasColumn(col) {
		return 0, false
	}
	var total float64
	var n int
	for _, row := range t.Rows {
		if f, ok := row.Number(col); ok {
			total += f
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}
