package services

import (
	"context"

	"AiFeedOptimizer-admin/internal/models"
)

// SheetStore 介面定義了試算表儲存操作（列/欄索引皆為 1-based）
type SheetStore interface {
	StartRow() int
	GetRangeData(sheetName string, startRow, startCol int) ([][]interface{}, error)
	SetValuesInDefinedRange(sheetName string, row, col int, values [][]interface{}) error
	ClearDefinedRange(sheetName string, row, col int) error
	GetHeaders(sheetName string) ([]string, error)
	GetCellValue(sheetName string, row, col int) (string, error)
	GetTotalRows(sheetName string) (int, error)
	GetVisibleRowFlags(sheetName string) ([]bool, error)
	AppendRows(sheetName string, values [][]interface{}) error
}

// Predictor 介面定義了模型呼叫（含有界重試）
type Predictor interface {
	PredictWithRetry(ctx context.Context, prompt string) (string, error)
}

// OperationLogger 介面定義了附加式操作日誌
type OperationLogger interface {
	Log(message string)
	Clear() error
}

// RunStore 介面定義了生成歷史稽核庫（可選）
type RunStore interface {
	InsertGenerationRun(run *models.GenerationRun) error
	GetRecentRuns(limit int) ([]models.GenerationRun, error)
	Close() error
}
