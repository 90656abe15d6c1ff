package mysql

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"AiFeedOptimizer-admin/internal/config"
	"AiFeedOptimizer-admin/internal/models"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore 結構：生成歷史稽核庫。
// 試算表仍是唯一的資料來源；這裡只留存每次生成的附加紀錄，
// 清除試算表後歷史仍可追溯。
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore 建立 MySQLStore 實例
func NewMySQLStore(dbCfg config.DatabaseConfig) (*MySQLStore, error) {
	if dbCfg.Driver != "mysql" {
		return nil, fmt.Errorf("不支援的資料庫驅動程式: %s", dbCfg.Driver)
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbCfg.User, dbCfg.Password, dbCfg.Host, dbCfg.Port, dbCfg.DBName)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("開啟資料庫連線失敗: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("無法連線到資料庫 (ping 失敗): %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	log.Println("資訊：成功連線到 MySQL 資料庫。")
	return &MySQLStore{db: db}, nil
}

// Close 關閉資料庫連線
func (s *MySQLStore) Close() error {
	if s.db != nil {
		log.Println("資訊：正在關閉 MySQL 資料庫連線...")
		return s.db.Close()
	}
	return nil
}

// InsertGenerationRun 附加一筆生成紀錄
func (s *MySQLStore) InsertGenerationRun(run *models.GenerationRun) error {
	if run == nil {
		return fmt.Errorf("InsertGenerationRun：run 不得為空")
	}
	query := `
		INSERT INTO generation_runs
			(item_id, status, status_detail, total_score, prompt_version, raw_response, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	result, err := s.db.Exec(query,
		run.ItemID, string(run.Status), run.StatusDetail.NullString,
		run.TotalScore, run.PromptVersion, run.RawResponse.NullString, createdAt)
	if err != nil {
		return fmt.Errorf("寫入 generation_runs 失敗: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		run.ID = id
	}
	return nil
}

// GetRecentRuns 讀取最近的生成紀錄（依時間新到舊）
func (s *MySQLStore) GetRecentRuns(limit int) ([]models.GenerationRun, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, item_id, status, status_detail, total_score, prompt_version, raw_response, created_at
		FROM generation_runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("查詢 generation_runs 失敗: %w", err)
	}
	defer rows.Close()

	var runs []models.GenerationRun
	for rows.Next() {
		var run models.GenerationRun
		var status string
		if err := rows.Scan(&run.ID, &run.ItemID, &status, &run.StatusDetail.NullString,
			&run.TotalScore, &run.PromptVersion, &run.RawResponse.NullString, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("掃描 generation_runs 列失敗: %w", err)
		}
		run.Status = models.GenerationStatus(status)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("讀取 generation_runs 結果集時發生錯誤: %w", err)
	}
	return runs, nil
}
