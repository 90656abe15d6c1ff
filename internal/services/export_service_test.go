package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AiFeedOptimizer-admin/internal/models"
)

// fakeRecordSource 直接回傳排定的記錄
type fakeRecordSource struct {
	records []*models.GeneratedRecord
	err     error
}

func (f *fakeRecordSource) ReadGeneratedRecords() ([]*models.GeneratedRecord, error) {
	return f.records, f.err
}

func TestExportToSheetNoApprovedRowsIsNoOp(t *testing.T) {
	store := newFakeSheetStore()
	store.sheets["Output Feed"] = [][]interface{}{{"stale"}}
	source := &fakeRecordSource{records: []*models.GeneratedRecord{
		{ItemID: "sku-1", Status: models.StatusSuccess, Approved: false},
		{ItemID: "sku-2", Status: models.StatusFailed, Approved: true},
	}}

	svc, err := NewExportService(testConfig(), store, source, &fakeOpLogger{})
	require.NoError(t, err)

	count, err := svc.ExportToSheet()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	// 零列核准時完全不動輸出分頁
	assert.Equal(t, [][]interface{}{{"stale"}}, store.sheets["Output Feed"])
	assert.Zero(t, store.setValuesCalls)
}

func TestExportToSheetWritesApprovedRows(t *testing.T) {
	store := newFakeSheetStore()
	store.sheets["Output Feed"] = [][]interface{}{{"stale", "stale"}}
	source := &fakeRecordSource{records: []*models.GeneratedRecord{
		{
			ItemID:               "sku-1",
			Status:               models.StatusSuccess,
			Approved:             true,
			GeneratedTitle:       "Red Shoe",
			GeneratedDescription: "A red shoe.",
			GeneratedTemplate:    "<color> <title>",
			GapAttributes:        map[string]string{"color": "Red"},
			OriginalInput:        models.RowContext{"item_id": "sku-1", "title": "Shoe", "color": ""},
		},
		{
			// 未核准的列不出現在輸出中
			ItemID:   "sku-2",
			Status:   models.StatusSuccess,
			Approved: false,
		},
		{
			ItemID:               "sku-3",
			Status:               models.StatusSuccess,
			Approved:             true,
			GeneratedTitle:       "Wood Table",
			GeneratedDescription: "A wooden table.",
			GeneratedTemplate:    "<material> <title>",
			GapAttributes:        map[string]string{"material": "Wood"},
			OriginalInput:        models.RowContext{"item_id": "sku-3", "title": "Table", "color": "Brown"},
		},
	}}
	opLog := &fakeOpLogger{}

	svc, err := NewExportService(testConfig(), store, source, opLog)
	require.NoError(t, err)

	count, err := svc.ExportToSheet()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	out := store.sheets["Output Feed"]
	require.Len(t, out, 3)
	// 標頭：timestamp 在前，其後是固定欄 + 缺口欄 + new_ 欄
	header := make([]string, len(out[0]))
	for i, cell := range out[0] {
		header[i] = models.CellString(cell)
	}
	assert.Equal(t, []string{"timestamp", "id", "title", "description", "color", "new_material"}, header)

	assert.Equal(t, "sku-1", models.CellString(out[1][1]))
	assert.Equal(t, "Red", models.CellString(out[1][4]))
	assert.Equal(t, "", models.CellString(out[1][5]))
	assert.Equal(t, "sku-3", models.CellString(out[2][1]))
	// color 非該列缺口，回退原始輸入值
	assert.Equal(t, "Brown", models.CellString(out[2][4]))
	assert.Equal(t, "Wood", models.CellString(out[2][5]))
	// 兩列共用同一個匯出時間戳
	assert.Equal(t, models.CellString(out[1][0]), models.CellString(out[2][0]))
	assert.NotEmpty(t, models.CellString(out[1][0]))

	require.Len(t, opLog.messages, 1)
	assert.Contains(t, opLog.messages[0], "匯出完成")
}

func TestBuildApprovedTableSourceErrorPropagates(t *testing.T) {
	store := newFakeSheetStore()
	source := &fakeRecordSource{err: fmt.Errorf("read failed")}

	svc, err := NewExportService(testConfig(), store, source, &fakeOpLogger{})
	require.NoError(t, err)

	_, err = svc.BuildApprovedTable()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read failed")
}
