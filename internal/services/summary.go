package services

import (
	"io"

	"fmvtracker/internal/dataprocessing"
	apierrors "fmvtracker/internal/errors"
	"fmvtracker/internal/exporter"
)

// Summary bundles the per-dataset aggregates currently computable. A nil
// section means that dataset has not been loaded.
type Summary struct {
	Lines         *dataprocessing.LinesSummary         `json:"lineas,omitempty"`
	Disbursements *dataprocessing.DisbursementsSummary `json:"desembolsos,omitempty"`
	Compliance    *dataprocessing.ComplianceSummary    `json:"splaft,omitempty"`
	Contacts      *dataprocessing.ContactsSummary      `json:"contactos,omitempty"`
}

// Summarize computes the aggregates over every loaded dataset.
func (s *DatasetService) Summarize() Summary {
	var out Summary
	now := s.now()

	if t, ok := s.table(dataprocessing.DatasetLines); ok {
		sum := s.summarizer.SummarizeLines(t, now)
		out.Lines = &sum
	}
	if t, ok := s.table(dataprocessing.DatasetDisbursements); ok {
		sum := s.summarizer.SummarizeDisbursements(t)
		out.Disbursements = &sum
	}
	if t, ok := s.table(dataprocessing.DatasetCompliance); ok {
		sum := s.summarizer.SummarizeCompliance(t)
		out.Compliance = &sum
	}
	if t, ok := s.table(dataprocessing.DatasetContacts); ok {
		sum := s.summarizer.SummarizeContacts(t)
		out.Contacts = &sum
	}
	return out
}

// ExportWorkbook writes the consolidated report: resumen sheet first, then
// one sheet per loaded dataset. At least one loaded dataset is required.
func (s *DatasetService) ExportWorkbook(w io.Writer) error {
	sheets := []exporter.Sheet{{Name: "resumen", Table: s.summaryTable()}}

	for _, kind := range dataprocessing.Datasets {
		if t, ok := s.table(kind); ok {
			sheets = append(sheets, exporter.Sheet{Name: string(kind), Table: t})
		}
	}
	if len(sheets) == 1 {
		return apierrors.ErrDatasetNotLoaded
	}

	if err := s.reports.WriteWorkbook(w, sheets); err != nil {
		return apierrors.ExportFailedError(err)
	}
	return nil
}

// ExportCSV writes one loaded dataset as CSV.
func (s *DatasetService) ExportCSV(w io.Writer, kind dataprocessing.Dataset) error {
	t, ok := s.table(kind)
	if !ok {
		return apierrors.ErrDatasetNotLoaded
	}
	if err := s.reports.WriteCSV(w, t); err != nil {
		return apierrors.ExportFailedError(err)
	}
	return nil
}

// summaryTable renders the resumen sheet: one row per loaded dataset with
// its row count and headline aggregates. Aggregates that do not apply to a
// dataset stay missing, mirroring the absent-column rule.
func (s *DatasetService) summaryTable() dataprocessing.Table {
	t := dataprocessing.NewTable(
		"dataset", "registros",
		"monto_aprobado_sum", "uso_pct_prom", "monto_desembolso_sum")
	summary := s.Summarize()

	if summary.Lines != nil {
		row := dataprocessing.Row{
			"dataset":            string(dataprocessing.DatasetLines),
			"registros":          float64(summary.Lines.Rows),
			"monto_aprobado_sum": summary.Lines.ApprovedTotal,
		}
		if summary.Lines.HasUsagePct {
			row["uso_pct_prom"] = summary.Lines.UsagePctMean
		}
		t.Rows = append(t.Rows, row)
	}
	if summary.Disbursements != nil {
		t.Rows = append(t.Rows, dataprocessing.Row{
			"dataset":              string(dataprocessing.DatasetDisbursements),
			"registros":            float64(summary.Disbursements.Rows),
			"monto_desembolso_sum": summary.Disbursements.Total,
		})
	}
	if summary.Compliance != nil {
		t.Rows = append(t.Rows, dataprocessing.Row{
			"dataset":   string(dataprocessing.DatasetCompliance),
			"registros": float64(summary.Compliance.Rows),
		})
	}
	if summary.Contacts != nil {
		t.Rows = append(t.Rows, dataprocessing.Row{
			"dataset":   string(dataprocessing.DatasetContacts),
			"registros": float64(summary.Contacts.Rows),
		})
	}
	return t
}

// ExportFilename names the consolidated download.
const ExportFilename = "fmv_tracker_reporte.xlsx"
