package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// RowApprover 定義了批次核准操作
type RowApprover interface {
	ApproveVisibleRows() (int, error)
}

// ApproveHandler 負責處理批次核准請求：
// 將目前篩選後可見且生成成功的列翻為已核准。
type ApproveHandler struct {
	approver RowApprover
}

// NewApproveHandler 建立一個 ApproveHandler 實例
func NewApproveHandler(approver RowApprover) *ApproveHandler {
	if approver == nil {
		log.Panicln("ApproveHandler：RowApprover 不得為空")
	}
	return &ApproveHandler{approver: approver}
}

// ServeHTTP 實現 http.Handler 介面
func (h *ApproveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("資訊：[ApproveHandler] 收到請求: %s %s 來自 %s\n", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodPost {
		log.Printf("警告：[ApproveHandler] 收到非 POST 請求 (%s)，已拒絕。\n", r.Method)
		http.Error(w, "僅支援 POST 方法", http.StatusMethodNotAllowed)
		return
	}

	count, err := h.approver.ApproveVisibleRows()
	if err != nil {
		log.Printf("錯誤：[ApproveHandler] 批次核准失敗: %v", err)
		http.Error(w, "批次核准失敗", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": fmt.Sprintf("批次核准完成，共核准 %d 列。", count),
	})
}
