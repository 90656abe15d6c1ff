package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// SheetExporter 定義了寫入輸出分頁的匯出操作
type SheetExporter interface {
	ExportToSheet() (int, error)
}

// ExportSheetHandler 負責把已核准批次寫入輸出分頁
type ExportSheetHandler struct {
	exporter SheetExporter
}

// NewExportSheetHandler 建立一個 ExportSheetHandler 實例
func NewExportSheetHandler(exporter SheetExporter) *ExportSheetHandler {
	if exporter == nil {
		log.Panicln("ExportSheetHandler：SheetExporter 不得為空")
	}
	return &ExportSheetHandler{exporter: exporter}
}

// ServeHTTP 實現 http.Handler 介面
func (h *ExportSheetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("資訊：[ExportSheetHandler] 收到請求: %s %s 來自 %s\n", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodPost {
		log.Printf("警告：[ExportSheetHandler] 收到非 POST 請求 (%s)，已拒絕。\n", r.Method)
		http.Error(w, "僅支援 POST 方法", http.StatusMethodNotAllowed)
		return
	}

	count, err := h.exporter.ExportToSheet()
	if err != nil {
		log.Printf("錯誤：[ExportSheetHandler] 匯出到輸出分頁失敗: %v", err)
		http.Error(w, "匯出失敗", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if count == 0 {
		json.NewEncoder(w).Encode(map[string]string{"message": "沒有已核准的列，未進行匯出。"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{
		"message": fmt.Sprintf("匯出完成，共 %d 列。", count),
	})
}
