package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"AiFeedOptimizer-admin/internal/clients/gemini"
	"AiFeedOptimizer-admin/internal/config"
	"AiFeedOptimizer-admin/internal/scheduler"
	"AiFeedOptimizer-admin/internal/services"
	"AiFeedOptimizer-admin/internal/storage/mysql"
	sheetstore "AiFeedOptimizer-admin/internal/storage/sheets"
	"AiFeedOptimizer-admin/internal/web"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load("./configs", "config")
	if err != nil {
		log.Fatalf("錯誤：無法載入設定: %v", err)
	}
	log.Println("資訊：應用程式設定載入成功。")

	// 生成歷史稽核庫（可選）：啟用時先跑資料庫遷移
	var runStore services.RunStore
	if cfg.Database.Enabled {
		migrationPath := "file://scripts/migrate/mysql"
		dbDSNForMigrate := fmt.Sprintf("mysql://%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&multiStatements=true",
			cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
		log.Printf("資訊：準備執行資料庫遷移，來源: %s, DSN 使用資料庫: %s", migrationPath, cfg.Database.DBName)
		m, err := migrate.New(migrationPath, dbDSNForMigrate)
		if err != nil {
			log.Fatalf("錯誤：建立遷移實例失敗: %v", err)
		}
		currentVersion, dirty, err := m.Version()
		if err != nil && err != migrate.ErrNilVersion {
			log.Fatalf("錯誤：獲取資料庫遷移版本失敗: %v", err)
		}
		if dirty {
			log.Fatalf("錯誤：資料庫處於 dirty 狀態 (版本 %d)，遷移失敗。", currentVersion)
		}
		log.Printf("資訊：目前資料庫版本: %d。開始應用遷移...", currentVersion)
		err = m.Up()
		if err != nil && err != migrate.ErrNoChange {
			log.Fatalf("錯誤：執行資料庫遷移 (m.Up) 失敗: %v", err)
		} else if err == migrate.ErrNoChange {
			log.Println("資訊：資料庫結構已是最新，無需遷移。")
		} else {
			newVersion, _, _ := m.Version()
			log.Printf("資訊：資料庫遷移成功完成，版本更新至: %d。", newVersion)
		}

		realRunStore, err := mysql.NewMySQLStore(cfg.Database)
		if err != nil {
			log.Fatalf("錯誤：初始化 MySQL 稽核庫連線失敗: %v", err)
		}
		runStore = realRunStore
		defer realRunStore.Close()
	} else {
		log.Println("資訊：生成歷史稽核庫未啟用。")
	}

	ctx := context.Background()
	sheetsSvc, err := sheetstore.NewService(ctx, cfg.Sheets)
	if err != nil {
		log.Fatalf("錯誤：初始化 Google Sheets 儲存失敗: %v", err)
	}
	opLogger, err := sheetstore.NewSheetLogger(sheetsSvc, cfg.Sheets.LogSheet)
	if err != nil {
		log.Fatalf("錯誤：初始化操作日誌失敗: %v", err)
	}

	geminiClient, err := gemini.NewClient(cfg.GeminiClient)
	if err != nil {
		log.Fatalf("錯誤：初始化 Gemini 客戶端失敗: %v", err)
	}

	optimizeSvc, err := services.NewOptimizeService(cfg, sheetsSvc, geminiClient, opLogger, runStore)
	if err != nil {
		log.Fatalf("錯誤：初始化生成服務失敗: %v", err)
	}
	exportSvc, err := services.NewExportService(cfg, sheetsSvc, optimizeSvc, opLogger)
	if err != nil {
		log.Fatalf("錯誤：初始化匯出服務失敗: %v", err)
	}

	if cfg.Scheduler.Enabled {
		log.Println("資訊：排程器已在設定檔中啟用，正在初始化...")
		appScheduler := scheduler.NewScheduler(optimizeSvc, cfg.Scheduler.OptimizeCronSpec)
		appScheduler.Start()
		log.Println("資訊：排程器已啟動。")
		defer appScheduler.Stop()
	} else {
		log.Println("資訊：排程器已在設定檔中禁用。")
	}

	router := web.SetupRouter(cfg, optimizeSvc, exportSvc)
	serverAddr := ":8080"
	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		log.Printf("資訊：HTTP 伺服器正在監聽 %s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("錯誤：HTTP 伺服器監聽失敗: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("資訊：收到關閉訊號，正在關閉應用程式...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("錯誤：HTTP 伺服器優雅關閉失敗: %v", err)
	}
	log.Println("資訊：HTTP 伺服器已關閉。")
	log.Println("資訊：應用程式已成功關閉。")
}
