package handlers

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"time"

	"AiFeedOptimizer-admin/internal/feed"

	"github.com/xuri/excelize/v2"
)

// ExportTableBuilder 定義了匯出表的建構操作
type ExportTableBuilder interface {
	BuildApprovedTable() (*feed.ExportTable, error)
}

// ExportHandler 負責處理匯出下載請求（CSV 或 XLSX）
type ExportHandler struct {
	builder ExportTableBuilder
}

// NewExportHandler 建立一個 ExportHandler 實例
func NewExportHandler(builder ExportTableBuilder) *ExportHandler {
	if builder == nil {
		log.Panicln("ExportHandler：ExportTableBuilder 不得為空")
	}
	return &ExportHandler{builder: builder}
}

// ServeHTTP 實現 http.Handler 介面
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("資訊：[ExportHandler] 收到請求: %s %s 來自 %s\n", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodGet {
		log.Printf("警告：[ExportHandler] 收到非 GET 請求 (%s)，已拒絕。\n", r.Method)
		http.Error(w, "僅支援 GET 方法", http.StatusMethodNotAllowed)
		return
	}

	table, err := h.builder.BuildApprovedTable()
	if err != nil {
		log.Printf("錯誤：[ExportHandler] 建構匯出表失敗: %v", err)
		http.Error(w, "無法獲取匯出數據", http.StatusInternalServerError)
		return
	}
	if table == nil {
		log.Println("資訊：[ExportHandler] 沒有已核准的列可供匯出。")
		http.Error(w, "沒有已核准的列可供匯出", http.StatusNotFound)
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	headers := append([]string{"timestamp"}, table.Headers...)

	switch r.URL.Query().Get("format") {
	case "xlsx":
		h.writeXLSX(w, headers, table, timestamp)
	default:
		h.writeCSV(w, headers, table, timestamp)
	}
}

// writeCSV 以 CSV 格式串流匯出表
func (h *ExportHandler) writeCSV(w http.ResponseWriter, headers []string, table *feed.ExportTable, timestamp string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=優化產品資料_%s.csv", time.Now().Format("2006-01-02")))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		log.Printf("錯誤：[ExportHandler] 寫入 CSV 標題失敗: %v", err)
		return
	}
	for _, row := range table.Rows {
		if err := writer.Write(append([]string{timestamp}, row...)); err != nil {
			log.Printf("錯誤：[ExportHandler] 寫入 CSV 資料列失敗: %v", err)
			return
		}
	}
}

// writeXLSX 以 XLSX 格式輸出匯出表
func (h *ExportHandler) writeXLSX(w http.ResponseWriter, headers []string, table *feed.ExportTable, timestamp string) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("警告：[ExportHandler] 關閉 XLSX 檔案失敗: %v", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	headerRow := make([]interface{}, len(headers))
	for i, hdr := range headers {
		headerRow[i] = hdr
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		log.Printf("錯誤：[ExportHandler] 寫入 XLSX 標題失敗: %v", err)
		http.Error(w, "產生 XLSX 失敗", http.StatusInternalServerError)
		return
	}
	for i, row := range table.Rows {
		cells := make([]interface{}, 0, len(row)+1)
		cells = append(cells, timestamp)
		for _, cell := range row {
			cells = append(cells, cell)
		}
		startCell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			log.Printf("錯誤：[ExportHandler] 計算 XLSX 儲存格座標失敗: %v", err)
			http.Error(w, "產生 XLSX 失敗", http.StatusInternalServerError)
			return
		}
		if err := f.SetSheetRow(sheetName, startCell, &cells); err != nil {
			log.Printf("錯誤：[ExportHandler] 寫入 XLSX 資料列失敗: %v", err)
			http.Error(w, "產生 XLSX 失敗", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=優化產品資料_%s.xlsx", time.Now().Format("2006-01-02")))
	if err := f.Write(w); err != nil {
		log.Printf("錯誤：[ExportHandler] 輸出 XLSX 檔案失敗: %v", err)
	}
}
