package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fmvtracker/internal/dataprocessing"
	apierrors "fmvtracker/internal/errors"
	"fmvtracker/internal/services"
)

// mockService mocks DatasetServiceInterface
type mockService struct {
	mock.Mock
}

func (m *mockService) Upload(ctx context.Context, kind dataprocessing.Dataset, filename string, r io.Reader) (dataprocessing.Table, error) {
	args := m.Called(ctx, kind, filename, r)
	return args.Get(0).(dataprocessing.Table), args.Error(1)
}

func (m *mockService) LoadSamples(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockService) Table(kind dataprocessing.Dataset, filterValue string) (dataprocessing.Table, error) {
	args := m.Called(kind, filterValue)
	return args.Get(0).(dataprocessing.Table), args.Error(1)
}

func (m *mockService) Loaded() map[dataprocessing.Dataset]bool {
	return m.Called().Get(0).(map[dataprocessing.Dataset]bool)
}

func (m *mockService) Summarize() services.Summary {
	return m.Called().Get(0).(services.Summary)
}

func (m *mockService) ExportWorkbook(w io.Writer) error {
	return m.Called(w).Error(0)
}

func (m *mockService) ExportCSV(w io.Writer, kind dataprocessing.Dataset) error {
	return m.Called(w, kind).Error(0)
}

func newTestHandler(svc DatasetServiceInterface) *DatasetHandler {
	return NewDatasetHandler(svc, nil, apierrors.NewErrorHandler(nil), 1<<20)
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadDataset(t *testing.T) {
	svc := &mockService{}
	cleaned := dataprocessing.Table{
		Columns: []string{"esfs"},
		Rows:    []dataprocessing.Row{{"esfs": "CAJA SUR"}},
	}
	svc.On("Upload", mock.Anything, dataprocessing.DatasetLines, "lineas.csv", mock.Anything).
		Return(cleaned, nil)

	body, contentType := multipartBody(t, "file", "lineas.csv", "entidad\ncaja sur\n")
	req := httptest.NewRequest(http.MethodPost, "/datasets/lineas/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestHandler(svc).Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp TableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "lineas", resp.Dataset)
	assert.Equal(t, 1, resp.Count)
	svc.AssertExpectations(t)
}

func TestUploadDatasetMissingFile(t *testing.T) {
	svc := &mockService{}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/datasets/lineas/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	newTestHandler(svc).Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_FILE")
}

func TestUploadUnknownDataset(t *testing.T) {
	svc := &mockService{}
	body, contentType := multipartBody(t, "file", "x.csv", "a\n1\n")
	req := httptest.NewRequest(http.MethodPost, "/datasets/ventas/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestHandler(svc).Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNKNOWN_DATASET")
}

func TestGetDatasetWithFilter(t *testing.T) {
	svc := &mockService{}
	table := dataprocessing.Table{
		Columns: []string{"ifi"},
		Rows:    []dataprocessing.Row{{"ifi": "BANCO SUR"}},
	}
	svc.On("Table", dataprocessing.DatasetDisbursements, "BANCO SUR").Return(table, nil)

	req := httptest.NewRequest(http.MethodGet, "/datasets/desembolsos/?filter=BANCO+SUR", nil)
	rec := httptest.NewRecorder()
	newTestHandler(svc).Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp TableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	svc.AssertExpectations(t)
}

func TestGetDatasetNotLoaded(t *testing.T) {
	svc := &mockService{}
	svc.On("Table", dataprocessing.DatasetContacts, "").
		Return(dataprocessing.Table{}, apierrors.ErrDatasetNotLoaded)

	req := httptest.NewRequest(http.MethodGet, "/datasets/contactos/", nil)
	rec := httptest.NewRecorder()
	newTestHandler(svc).Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "DATASET_NOT_LOADED")
}

func TestGetSummary(t *testing.T) {
	svc := &mockService{}
	svc.On("Loaded").Return(map[dataprocessing.Dataset]bool{dataprocessing.DatasetLines: true})
	svc.On("Summarize").Return(services.Summary{
		Lines: &dataprocessing.LinesSummary{Rows: 2, ApprovedTotal: 3000},
	})

	req := httptest.NewRequest(http.MethodGet, "/summary", nil)
	rec := httptest.NewRecorder()
	newTestHandler(svc).Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"approved_total":3000`)
}

func TestLoadSamples(t *testing.T) {
	svc := &mockService{}
	svc.On("LoadSamples", mock.Anything).Return(nil)
	svc.On("Loaded").Return(map[dataprocessing.Dataset]bool{})

	req := httptest.NewRequest(http.MethodPost, "/samples", nil)
	rec := httptest.NewRecorder()
	newTestHandler(svc).Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestDownloadWorkbook(t *testing.T) {
	svc := &mockService{}
	svc.On("ExportWorkbook", mock.Anything).Run(func(args mock.Arguments) {
		w := args.Get(0).(io.Writer)
		_, _ = w.Write([]byte("workbook-bytes"))
	}).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	rec := httptest.NewRecorder()
	newTestHandler(svc).Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), services.ExportFilename)
	assert.Equal(t, "workbook-bytes", rec.Body.String())
}

func TestDownloadCSV(t *testing.T) {
	svc := &mockService{}
	svc.On("ExportCSV", mock.Anything, dataprocessing.DatasetCompliance).Run(func(args mock.Arguments) {
		w := args.Get(0).(io.Writer)
		_, _ = w.Write([]byte("esfs,estado\n"))
	}).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/datasets/splaft/export", nil)
	rec := httptest.NewRecorder()
	newTestHandler(svc).Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
}
