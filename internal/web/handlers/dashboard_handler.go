package handlers

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"

	"AiFeedOptimizer-admin/internal/models"
)

// RecordLister 定義了審核頁需要的生成記錄讀取操作
type RecordLister interface {
	ReadGeneratedRecords() ([]*models.GeneratedRecord, error)
}

// DashboardPageData 用於傳遞給 HTML 範本的數據
type DashboardPageData struct {
	Records       []*models.GeneratedRecord
	TotalCount    int
	SuccessCount  int
	FailedCount   int
	ApprovedCount int
}

// DashboardHandler 負責呈現生成結果的審核頁
type DashboardHandler struct {
	source RecordLister
	tmpl   *template.Template
}

// NewDashboardHandler 建立一個 DashboardHandler 實例
func NewDashboardHandler(source RecordLister, templateBasePath string) (*DashboardHandler, error) {
	if source == nil {
		return nil, fmt.Errorf("DashboardHandler：RecordLister 不得為空")
	}
	tmplPath := filepath.Join(templateBasePath, "dashboard.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("無法解析 dashboard 範本 '%s': %w", tmplPath, err)
	}
	return &DashboardHandler{source: source, tmpl: tmpl}, nil
}

// ServeHTTP 實現 http.Handler 介面
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("資訊：[DashboardHandler] 收到請求: %s %s 來自 %s\n", r.Method, r.URL.Path, r.RemoteAddr)

	records, err := h.source.ReadGeneratedRecords()
	if err != nil {
		log.Printf("錯誤：[DashboardHandler] 讀取生成記錄失敗: %v", err)
		http.Error(w, "無法讀取生成記錄", http.StatusInternalServerError)
		return
	}

	data := DashboardPageData{Records: records, TotalCount: len(records)}
	for _, rec := range records {
		switch rec.Status {
		case models.StatusSuccess:
			data.SuccessCount++
		case models.StatusFailed:
			data.FailedCount++
		}
		if rec.Approved {
			data.ApprovedCount++
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, data); err != nil {
		log.Printf("錯誤：[DashboardHandler] 渲染 dashboard 範本失敗: %v", err)
	}
}
