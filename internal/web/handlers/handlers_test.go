package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AiFeedOptimizer-admin/internal/feed"
)

type stubApprover struct {
	count int
	err   error
}

func (s *stubApprover) ApproveVisibleRows() (int, error) { return s.count, s.err }

type stubClearer struct {
	err    error
	called bool
}

func (s *stubClearer) ClearGenerated() error {
	s.called = true
	return s.err
}

type stubExporter struct {
	count int
	err   error
}

func (s *stubExporter) ExportToSheet() (int, error) { return s.count, s.err }

type stubTableBuilder struct {
	table *feed.ExportTable
	err   error
}

func (s *stubTableBuilder) BuildApprovedTable() (*feed.ExportTable, error) { return s.table, s.err }

func TestApproveHandler(t *testing.T) {
	h := NewApproveHandler(&stubApprover{count: 3})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/approve", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "共核准 3 列")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/approve", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestApproveHandlerError(t *testing.T) {
	h := NewApproveHandler(&stubApprover{err: fmt.Errorf("boom")})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/approve", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestClearHandler(t *testing.T) {
	clearer := &stubClearer{}
	h := NewClearHandler(clearer)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/clear", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, clearer.called)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/clear", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestExportSheetHandler(t *testing.T) {
	h := NewExportSheetHandler(&stubExporter{count: 2})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/export-sheet", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "共 2 列")

	// 零列核准時回覆專屬訊息
	h = NewExportSheetHandler(&stubExporter{count: 0})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/export-sheet", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "未進行匯出")
}

func TestExportHandlerNoApprovedRows(t *testing.T) {
	h := NewExportHandler(&stubTableBuilder{table: nil})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportHandlerCSV(t *testing.T) {
	table := &feed.ExportTable{
		GapKeys:      []string{"color"},
		InventedKeys: []string{"material"},
		Headers:      []string{"id", "title", "description", "color", "new_material"},
		Rows: [][]string{
			{"sku-1", "Red Shoe", "A red shoe.", "Red", ""},
		},
	}
	h := NewExportHandler(&stubTableBuilder{table: table})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")

	body := strings.ReplaceAll(rec.Body.String(), "\r\n", "\n")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "timestamp,id,title,description,color,new_material", lines[0])
	assert.Contains(t, lines[1], "sku-1,Red Shoe,A red shoe.,Red,")
}

func TestExportHandlerXLSX(t *testing.T) {
	table := &feed.ExportTable{
		Headers: []string{"id", "title", "description"},
		Rows:    [][]string{{"sku-1", "Red Shoe", "A red shoe."}},
	}
	h := NewExportHandler(&stubTableBuilder{table: table})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export?format=xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, rec.Body.Len())
}

// blockingRunner 在收到放行訊號前卡住，用來驗證並發保護
type blockingRunner struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingRunner) OptimizeNextRow(ctx context.Context) (bool, error) {
	close(b.started)
	<-b.release
	return true, nil
}

func TestTriggerOptimizeHandlerRejectsConcurrentRuns(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}), release: make(chan struct{})}
	h := NewTriggerOptimizeHandler(runner)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/manual-optimize", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// 等背景任務真的開始後，再次觸發應被拒絕
	<-runner.started
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/manual-optimize", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(runner.release)
}

func TestTriggerOptimizeHandlerMethodNotAllowed(t *testing.T) {
	h := NewTriggerOptimizeHandler(&blockingRunner{started: make(chan struct{}), release: make(chan struct{})})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/manual-optimize", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
