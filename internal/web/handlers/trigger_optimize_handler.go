package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"
)

// OptimizePipelineRunner 定義了單列生成流程執行者需要的方法
type OptimizePipelineRunner interface {
	OptimizeNextRow(ctx context.Context) (bool, error)
}

// TriggerOptimizeHandler 負責處理手動觸發單列生成的請求
type TriggerOptimizeHandler struct {
	optimizeService OptimizePipelineRunner // 依賴介面
	mu              sync.Mutex
	isProcessing    bool
}

// NewTriggerOptimizeHandler 建立一個 TriggerOptimizeHandler 實例
func NewTriggerOptimizeHandler(os OptimizePipelineRunner) *TriggerOptimizeHandler {
	if os == nil {
		log.Panicln("TriggerOptimizeHandler：OptimizePipelineRunner 不得為空")
	}
	return &TriggerOptimizeHandler{optimizeService: os}
}

// ServeHTTP 實現 http.Handler 介面
func (h *TriggerOptimizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("資訊：[TriggerOptimizeHandler] 收到請求: %s %s 來自 %s\n", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodPost {
		log.Printf("警告：[TriggerOptimizeHandler] 收到非 POST 請求 (%s)，已拒絕。\n", r.Method)
		http.Error(w, "僅支援 POST 方法", http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	if h.isProcessing {
		h.mu.Unlock()
		log.Println("警告：[TriggerOptimizeHandler] 生成任務已在進行中，請稍後再試。")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "生成任務已在進行中，請稍候。"})
		return
	}
	h.isProcessing = true
	h.mu.Unlock()

	log.Println("資訊：[TriggerOptimizeHandler] 收到手動觸發生成請求，準備啟動 goroutine。")

	go func() {
		defer func() {
			h.mu.Lock()
			h.isProcessing = false
			h.mu.Unlock()
			log.Println("資訊：[TriggerOptimizeHandler] 手動觸發的生成任務 goroutine 已結束。")
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		processed, err := h.optimizeService.OptimizeNextRow(ctx)
		if err != nil {
			log.Printf("錯誤：[TriggerOptimizeHandler] 手動觸發的生成任務執行失敗: %v", err)
		} else if processed {
			log.Println("資訊：[TriggerOptimizeHandler] 手動觸發的生成任務執行成功。")
		} else {
			log.Println("資訊：[TriggerOptimizeHandler] 沒有待生成的輸入列。")
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "生成已觸發，正在背景執行。"})
}
