package web

import (
	"log"
	"net/http"

	"AiFeedOptimizer-admin/internal/config"
	"AiFeedOptimizer-admin/internal/services"
	"AiFeedOptimizer-admin/internal/web/handlers"
)

// SetupRouter 設定所有 HTTP 路由
func SetupRouter(appConfig *config.Config, optimizeService *services.OptimizeService, exportService *services.ExportService) http.Handler {
	if optimizeService == nil {
		log.Panicln("SetupRouter：OptimizeService 不得為空")
	}
	if exportService == nil {
		log.Panicln("SetupRouter：ExportService 不得為空")
	}

	mux := http.NewServeMux()
	templateBasePath := "internal/web/templates"

	// Dashboard Handler
	dashboardHandler, err := handlers.NewDashboardHandler(optimizeService, templateBasePath)
	if err != nil {
		log.Fatalf("錯誤：無法建立 Dashboard Handler: %v", err)
	}
	mux.Handle("/dashboard", dashboardHandler)

	// 手動觸發單列生成
	mux.Handle("/manual-optimize", handlers.NewTriggerOptimizeHandler(optimizeService))

	// 批次核准與整批清除
	mux.Handle("/approve", handlers.NewApproveHandler(optimizeService))
	mux.Handle("/clear", handlers.NewClearHandler(optimizeService))

	// 匯出：下載檔案與寫入輸出分頁
	mux.Handle("/export", handlers.NewExportHandler(exportService))
	mux.Handle("/export-sheet", handlers.NewExportSheetHandler(exportService))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		log.Printf("警告：未匹配的路由: %s", r.URL.Path)
		http.NotFound(w, r)
	})

	log.Println("資訊：HTTP 路由設定完成。")
	return mux
}
