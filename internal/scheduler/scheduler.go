package scheduler

import (
	"log"
	"time"

	"AiFeedOptimizer-admin/internal/services"

	"github.com/robfig/cron/v3"
)

// Scheduler 結構：反覆觸發單列生成的計時驅動
type Scheduler struct {
	cron        *cron.Cron
	optimizeJob *OptimizeJob
}

// NewScheduler 接收 Cron 表達式並註冊任務
func NewScheduler(os *services.OptimizeService, optimizeCronSpec string) *Scheduler {
	c := cron.New(cron.WithSeconds())

	optimizeJob := NewOptimizeJob(os)
	if optimizeCronSpec != "" {
		_, err := c.AddJob(optimizeCronSpec, optimizeJob)
		if err != nil {
			log.Fatalf("錯誤：無法新增產品列生成任務到排程器 (spec: %s): %v", optimizeCronSpec, err)
		}
		log.Printf("資訊：產品列生成任務已註冊，排程：%s\n", optimizeCronSpec)
	} else {
		log.Println("警告：未提供產品列生成任務的 Cron 表達式，該任務將不會被排程。")
	}

	return &Scheduler{cron: c, optimizeJob: optimizeJob}
}

// Start 非阻塞啟動排程器
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("資訊：排程器已非阻塞啟動 (如果任務已註冊)。")
}

// Stop 優雅停止排程器
func (s *Scheduler) Stop() {
	log.Println("資訊：正在停止排程器...")
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
		log.Println("資訊：排程器已優雅停止，所有運行中任務已完成。")
	case <-time.After(10 * time.Second):
		log.Println("警告：排程器停止超時，可能仍有任務在執行。")
	}
}
