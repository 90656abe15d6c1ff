package scheduler

import (
	"log"

	"AiFeedOptimizer-admin/internal/services"
)

// OptimizeJob 是一個排程任務，每次觸發處理一個待生成的輸入列
type OptimizeJob struct {
	optimizeService *services.OptimizeService
}

// NewOptimizeJob 建立一個 OptimizeJob
func NewOptimizeJob(os *services.OptimizeService) *OptimizeJob {
	return &OptimizeJob{optimizeService: os}
}

// Run 實現 cron.Job 介面 (github.com/robfig/cron/v3)
func (j *OptimizeJob) Run() {
	log.Println("資訊：執行排程任務 - 產品列生成...")
	if err := j.optimizeService.Run(); err != nil {
		log.Printf("錯誤：產品列生成排程任務執行失敗: %v", err)
	} else {
		log.Println("資訊：產品列生成排程任務執行完成。")
	}
}
