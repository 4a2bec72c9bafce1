package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fmvtracker/internal/dataprocessing"
	apierrors "fmvtracker/internal/errors"
	"fmvtracker/internal/exporter"
	"fmvtracker/internal/loader"
)

func newTestService(t *testing.T) *DatasetService {
	t.Helper()
	dir := t.TempDir()
	writeSample := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	writeSample("lines_esfs_template.csv",
		"entidad,tipo,monto,saldo,vigencia\nCaja Sur,revolvente,\"1,000.00\",400,2026-03-31\nBanco Azul,capital,2000,500,2025-01-10\n")
	writeSample("desembolsos_ifi_template.csv",
		"institucion_financiera,fecha,importe\nBanco Sur,2025-08-25,\"S/ 120,500.00\"\n")
	writeSample("splaft_template.csv",
		"entidad,documento,estado\nCaja Sur,Manual,Enviado\nBanco Azul,Informe,Pendiente\n")
	writeSample("contactos_template.csv",
		"entidad,nombre,email,celular\nCaja Sur,Ana Pérez,ana@cs.pe,999\nBanco Azul,Luis Quispe,,\n")

	svc := NewDatasetService(
		loader.New(nil, dir),
		dataprocessing.NewSummarizer(nil, dataprocessing.SummarizerConfig{}),
		exporter.NewReportWriter(nil),
		nil,
	)
	svc.now = func() time.Time { return time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestUploadCleansAndStores(t *testing.T) {
	svc := newTestService(t)
	csvData := "entidad,monto,saldo\ncaja  sur,1000,400\n"

	cleaned, err := svc.Upload(context.Background(), dataprocessing.DatasetLines, "lineas.csv", strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, "CAJA SUR", cleaned.Rows[0]["esfs"])

	stored, err := svc.Table(dataprocessing.DatasetLines, "")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Len())

	pct, ok := stored.Rows[0].Number("uso_pct")
	require.True(t, ok)
	assert.InDelta(t, 60.0, pct, 1e-9)
}

func TestUploadUnsupportedFormatPassesThrough(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Upload(context.Background(), dataprocessing.DatasetLines, "datos.txt", strings.NewReader("x"))

	apiErr := &apierrors.APIError{}
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "UNSUPPORTED_FORMAT", apiErr.ErrorCode)
}

func TestUploadStructuralFailure(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Upload(context.Background(), dataprocessing.DatasetLines, "roto.xlsx", strings.NewReader("not a workbook"))

	apiErr := &apierrors.APIError{}
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "DATASET_UNREADABLE", apiErr.ErrorCode)

	_, err = svc.Table(dataprocessing.DatasetLines, "")
	assert.ErrorIs(t, err, apierrors.ErrDatasetNotLoaded, "no partial output after structural failure")
}

func TestTableNotLoaded(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Table(dataprocessing.DatasetContacts, "")
	assert.ErrorIs(t, err, apierrors.ErrDatasetNotLoaded)
}

func TestLoadSamplesAndSummarize(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.LoadSamples(context.Background()))

	loaded := svc.Loaded()
	for _, kind := range dataprocessing.Datasets {
		assert.True(t, loaded[kind], "dataset %s", kind)
	}

	summary := svc.Summarize()
	require.NotNil(t, summary.Lines)
	assert.Equal(t, 2, summary.Lines.Rows)
	assert.InDelta(t, 3000, summary.Lines.ApprovedTotal, 1e-9)

	require.NotNil(t, summary.Disbursements)
	assert.InDelta(t, 120500, summary.Disbursements.Total, 1e-9)

	require.NotNil(t, summary.Compliance)
	assert.Equal(t, 1, summary.Compliance.StatusCount("recibido"))
	assert.Equal(t, 1, summary.Compliance.AlertRows)

	require.NotNil(t, summary.Contacts)
	assert.Equal(t, 1, summary.Contacts.MissingEmail)
}

func TestTableEqualityFilter(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.LoadSamples(context.Background()))

	filtered, err := svc.Table(dataprocessing.DatasetLines, "CAJA SUR")
	require.NoError(t, err)
	require.Equal(t, 1, filtered.Len())
	assert.Equal(t, "CAJA SUR", filtered.Rows[0]["esfs"])

	// Case-insensitive match, unknown value yields empty table.
	filtered, err = svc.Table(dataprocessing.DatasetLines, "caja sur")
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.Len())

	filtered, err = svc.Table(dataprocessing.DatasetLines, "NADIE")
	require.NoError(t, err)
	assert.Equal(t, 0, filtered.Len())
}

func TestExportWorkbook(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.LoadSamples(context.Background()))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportWorkbook(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t,
		[]string{"resumen", "lineas", "desembolsos", "splaft", "contactos"},
		f.GetSheetList())

	rows, err := f.GetRows("resumen")
	require.NoError(t, err)
	require.Len(t, rows, 5, "header plus one row per dataset")
	assert.Equal(t, "dataset", rows[0][0])
}

func TestExportWorkbookRequiresData(t *testing.T) {
	svc := newTestService(t)
	var buf bytes.Buffer
	assert.ErrorIs(t, svc.ExportWorkbook(&buf), apierrors.ErrDatasetNotLoaded)
}

func TestExportCSV(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.LoadSamples(context.Background()))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(&buf, dataprocessing.DatasetCompliance))
	assert.Contains(t, buf.String(), "recibido")

	assert.ErrorIs(t, svc.ExportCSV(&buf, "lineas2"), apierrors.ErrDatasetNotLoaded)
}
