package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// GeneratedClearer 定義了整批清除操作
type GeneratedClearer interface {
	ClearGenerated() error
}

// ClearHandler 負責處理整批清除生成結果的請求
type ClearHandler struct {
	clearer GeneratedClearer
}

// NewClearHandler 建立一個 ClearHandler 實例
func NewClearHandler(clearer GeneratedClearer) *ClearHandler {
	if clearer == nil {
		log.Panicln("ClearHandler：GeneratedClearer 不得為空")
	}
	return &ClearHandler{clearer: clearer}
}

// ServeHTTP 實現 http.Handler 介面
func (h *ClearHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("資訊：[ClearHandler] 收到請求: %s %s 來自 %s\n", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodPost {
		log.Printf("警告：[ClearHandler] 收到非 POST 請求 (%s)，已拒絕。\n", r.Method)
		http.Error(w, "僅支援 POST 方法", http.StatusMethodNotAllowed)
		return
	}

	if err := h.clearer.ClearGenerated(); err != nil {
		log.Printf("錯誤：[ClearHandler] 清除生成結果失敗: %v", err)
		http.Error(w, "清除生成結果失敗", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "生成結果已清除。"})
}
