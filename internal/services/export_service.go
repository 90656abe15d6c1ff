package services

import (
	"fmt"
	"log"
	"time"

	"AiFeedOptimizer-admin/internal/config"
	"AiFeedOptimizer-admin/internal/feed"
	"AiFeedOptimizer-admin/internal/models"
)

// RecordSource 介面定義了匯出所需的生成記錄來源
type RecordSource interface {
	ReadGeneratedRecords() ([]*models.GeneratedRecord, error)
}

// ExportService 結構：把已核准的生成記錄攤平成固定寬度的輸出表
type ExportService struct {
	cfg    *config.Config
	store  SheetStore
	source RecordSource
	opLog  OperationLogger
}

// NewExportService 建立 ExportService 實例
func NewExportService(cfg *config.Config, store SheetStore, source RecordSource, opLog OperationLogger) (*ExportService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ExportService：設定不得為空")
	}
	if store == nil {
		return nil, fmt.Errorf("ExportService：SheetStore 不得為空")
	}
	if source == nil {
		return nil, fmt.Errorf("ExportService：RecordSource 不得為空")
	}
	if opLog == nil {
		return nil, fmt.Errorf("ExportService：OperationLogger 不得為空")
	}
	log.Println("資訊：ExportService 初始化完成。")
	return &ExportService{cfg: cfg, store: store, source: source, opLog: opLog}, nil
}

// approvedRecords 讀出已核准且生成成功的記錄
func (s *ExportService) approvedRecords() ([]*models.GeneratedRecord, error) {
	records, err := s.source.ReadGeneratedRecords()
	if err != nil {
		return nil, err
	}
	var approved []*models.GeneratedRecord
	for _, rec := range records {
		if rec.Approved && rec.Status == models.StatusSuccess {
			approved = append(approved, rec)
		}
	}
	return approved, nil
}

// BuildApprovedTable 對目前已核准的批次建匯出表；零列核准時回傳 nil
func (s *ExportService) BuildApprovedTable() (*feed.ExportTable, error) {
	approved, err := s.approvedRecords()
	if err != nil {
		return nil, err
	}
	return feed.BuildExport(approved), nil
}

// ExportToSheet 把匯出表寫入輸出分頁，欄位為
// [timestamp, id, title, description, 缺口鍵..., new_新屬性鍵...]。
// 零列核准時完全不寫入。回傳匯出的列數。
func (s *ExportService) ExportToSheet() (int, error) {
	table, err := s.BuildApprovedTable()
	if err != nil {
		return 0, err
	}
	if table == nil {
		log.Println("資訊：[ExportService] 沒有已核准的列，略過匯出。")
		return 0, nil
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	values := make([][]interface{}, 0, len(table.Rows)+1)

	headerRow := make([]interface{}, 0, len(table.Headers)+1)
	headerRow = append(headerRow, "timestamp")
	for _, h := range table.Headers {
		headerRow = append(headerRow, h)
	}
	values = append(values, headerRow)

	for _, row := range table.Rows {
		out := make([]interface{}, 0, len(row)+1)
		out = append(out, timestamp)
		for _, cell := range row {
			out = append(out, cell)
		}
		values = append(values, out)
	}

	if err := s.store.ClearDefinedRange(s.cfg.Sheets.OutputSheet, 1, 1); err != nil {
		return 0, fmt.Errorf("清除輸出分頁失敗: %w", err)
	}
	if err := s.store.SetValuesInDefinedRange(s.cfg.Sheets.OutputSheet, 1, 1, values); err != nil {
		return 0, fmt.Errorf("寫入輸出分頁失敗: %w", err)
	}

	s.opLog.Log(fmt.Sprintf("匯出完成，共 %d 列（缺口欄位 %d 個，新屬性欄位 %d 個）",
		len(table.Rows), len(table.GapKeys), len(table.InventedKeys)))
	log.Printf("資訊：[ExportService] 匯出完成，共 %d 列。\n", len(table.Rows))
	return len(table.Rows), nil
}
