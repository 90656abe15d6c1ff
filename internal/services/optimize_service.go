package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"AiFeedOptimizer-admin/internal/config"
	"AiFeedOptimizer-admin/internal/feed"
	"AiFeedOptimizer-admin/internal/models"
)

// 輸入分頁的固定欄位名
const (
	InputIDColumn          = "item_id"
	InputTitleColumn       = "title"
	InputDescriptionColumn = "description"
)

// Generated 分頁第 1 列為標頭，資料自第 2 列起
const generatedDataStartRow = 2

// OptimizeService 結構：每次呼叫處理一列的生成驅動
type OptimizeService struct {
	cfg       *config.Config
	store     SheetStore
	predictor Predictor
	opLog     OperationLogger
	runs      RunStore // 可為 nil（稽核庫未啟用）
}

// NewOptimizeService 建立 OptimizeService 實例
func NewOptimizeService(
	cfg *config.Config,
	store SheetStore,
	predictor Predictor,
	opLog OperationLogger,
	runs RunStore,
) (*OptimizeService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("OptimizeService：設定不得為空")
	}
	if store == nil {
		return nil, fmt.Errorf("OptimizeService：SheetStore 不得為空")
	}
	if predictor == nil {
		return nil, fmt.Errorf("OptimizeService：Predictor 不得為空")
	}
	if opLog == nil {
		return nil, fmt.Errorf("OptimizeService：OperationLogger 不得為空")
	}
	log.Println("資訊：OptimizeService 初始化完成。")
	return &OptimizeService{cfg: cfg, store: store, predictor: predictor, opLog: opLog, runs: runs}, nil
}

// ensureGeneratedHeaders 確保 Generated 分頁已有標頭列，回傳目前總列數
func (s *OptimizeService) ensureGeneratedHeaders() (int, error) {
	total, err := s.store.GetTotalRows(s.cfg.Sheets.GeneratedSheet)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		headerRow := make([]interface{}, len(models.GeneratedHeaders))
		for i, h := range models.GeneratedHeaders {
			headerRow[i] = h
		}
		if err := s.store.SetValuesInDefinedRange(s.cfg.Sheets.GeneratedSheet, 1, 1, [][]interface{}{headerRow}); err != nil {
			return 0, err
		}
		total = 1
	}
	return total, nil
}

// OptimizeNextRow 處理下一個尚未生成的輸入列：每次呼叫只處理一列，
// 由排程器或手動觸發反覆呼叫。單列的生成錯誤會被捕捉並記錄為
// Failed 狀態；試算表/範圍層級的錯誤則直接傳播、中止本次呼叫。
func (s *OptimizeService) OptimizeNextRow(ctx context.Context) (bool, error) {
	headers, err := s.store.GetHeaders(s.cfg.Sheets.InputSheet)
	if err != nil {
		return false, fmt.Errorf("讀取輸入分頁標頭失敗: %w", err)
	}
	if len(headers) == 0 {
		return false, fmt.Errorf("輸入分頁 '%s' 沒有標頭列", s.cfg.Sheets.InputSheet)
	}

	totalInputRows, err := s.store.GetTotalRows(s.cfg.Sheets.InputSheet)
	if err != nil {
		return false, fmt.Errorf("讀取輸入分頁列數失敗: %w", err)
	}
	generatedTotal, err := s.ensureGeneratedHeaders()
	if err != nil {
		return false, fmt.Errorf("初始化 Generated 分頁標頭失敗: %w", err)
	}

	// 已生成的資料列數決定下一個待處理的輸入列
	generatedCount := generatedTotal - 1
	inputRowNum := s.store.StartRow() + 1 + generatedCount
	if inputRowNum > totalInputRows {
		log.Println("資訊：[OptimizeService] 所有輸入列皆已生成，本次呼叫無事可做。")
		return false, nil
	}

	rows, err := s.store.GetRangeData(s.cfg.Sheets.InputSheet, inputRowNum, 1)
	if err != nil {
		return false, fmt.Errorf("讀取輸入列 %d 失敗: %w", inputRowNum, err)
	}
	if len(rows) == 0 {
		return false, fmt.Errorf("輸入列 %d 不存在", inputRowNum)
	}

	rowCtx := rowContextFrom(headers, rows[0])
	log.Printf("資訊：[OptimizeService] 開始生成輸入列 %d (item_id: %s)。\n", inputRowNum, rowCtx.Value(InputIDColumn))

	record := s.generateRecord(ctx, rowCtx, headers)

	if err := s.store.AppendRows(s.cfg.Sheets.GeneratedSheet, [][]interface{}{record.ToSheetRow()}); err != nil {
		return false, fmt.Errorf("寫入生成結果到 Generated 分頁失敗: %w", err)
	}

	s.opLog.Log(fmt.Sprintf("生成列 %d (item_id: %s) 完成，狀態: %s", inputRowNum, record.ItemID, record.Status))
	s.auditRecord(record)
	log.Printf("資訊：[OptimizeService] 輸入列 %d 生成完成，狀態: %s，分數: %.1f。\n", inputRowNum, record.Status, record.TotalScore)
	return true, nil
}

// rowContextFrom 以標頭對應儲存格值建立該列的不可變快照
func rowContextFrom(headers []string, row []interface{}) models.RowContext {
	ctx := make(models.RowContext, len(headers))
	for i, header := range headers {
		if header == "" {
			continue
		}
		if i < len(row) {
			ctx[header] = models.CellString(row[i])
		} else {
			ctx[header] = ""
		}
	}
	return ctx
}

// generateRecord 執行單列的完整生成流程。任何單列錯誤都在這裡收斂成
// Failed 狀態的記錄，讓批次在後續呼叫中繼續。
func (s *OptimizeService) generateRecord(ctx context.Context, rowCtx models.RowContext, headers []string) *models.GeneratedRecord {
	record := &models.GeneratedRecord{
		Approved:            false,
		Status:              models.StatusSuccess,
		ItemID:              rowCtx.Value(InputIDColumn),
		OriginalInput:       rowCtx,
		OriginalTitle:       rowCtx.Value(InputTitleColumn),
		OriginalDescription: rowCtx.Value(InputDescriptionColumn),
	}

	fail := func(detail string, err error) *models.GeneratedRecord {
		log.Printf("錯誤：[OptimizeService] item_id %s 生成失敗: %s: %v\n", record.ItemID, detail, err)
		record.Status = models.StatusFailed
		record.StatusDetail = fmt.Sprintf("%s: %v", detail, err)
		record.TotalScore = 0
		return record
	}

	// 標題階段
	titleTemplate, err := s.cfg.Prompts.TitleGeneration.CurrentPrompt()
	if err != nil {
		return fail("標題 Prompt 設定無效", err)
	}
	titlePrompt := feed.BuildTitlePrompt(titleTemplate, rowCtx, headers)
	rawTitleResponse, err := s.predictor.PredictWithRetry(ctx, titlePrompt)
	if err != nil {
		return fail("標題階段模型呼叫失敗", err)
	}
	record.RawResponse = rawTitleResponse

	parsed, err := feed.ParseTitleResponse(rawTitleResponse)
	if err != nil {
		return fail("標題階段回應解析失敗", err)
	}

	reconciled := feed.Reconcile(rowCtx, parsed)
	record.GeneratedTitle = reconciled.GeneratedTitle
	record.GeneratedCategory = parsed.Category
	record.OriginalTemplate = reconciled.OriginalTemplate.Render()
	record.GeneratedTemplate = reconciled.GeneratedTemplate.Render()
	record.GapAttributes = reconciled.GapAttributes

	// 描述階段：注入已生成的標題後再提示，回應即為描述本文
	descTemplate, err := s.cfg.Prompts.DescriptionGeneration.CurrentPrompt()
	if err != nil {
		return fail("描述 Prompt 設定無效", err)
	}
	descPrompt := feed.BuildDescriptionPrompt(descTemplate, rowCtx, headers, reconciled.GeneratedTitle)
	rawDescription, err := s.predictor.PredictWithRetry(ctx, descPrompt)
	if err != nil {
		return fail("描述階段模型呼叫失敗", err)
	}
	record.GeneratedDescription = strings.TrimSpace(rawDescription)

	metrics := feed.Score(rowCtx, record.OriginalTitle, reconciled)
	record.TotalScore = metrics.TotalScore
	record.AddedAttributes = metrics.AddedAttributesDisplay()
	record.NewWords = metrics.NewWordsDisplay()
	return record
}

// auditRecord 把這次生成附加到稽核庫（若已啟用）
func (s *OptimizeService) auditRecord(record *models.GeneratedRecord) {
	if s.runs == nil {
		return
	}
	run := &models.GenerationRun{
		ItemID:        record.ItemID,
		Status:        record.Status,
		TotalScore:    record.TotalScore,
		PromptVersion: s.cfg.Prompts.TitleGeneration.CurrentVersion,
		CreatedAt:     time.Now(),
	}
	if record.StatusDetail != "" {
		run.StatusDetail = models.JsonNullString{NullString: sql.NullString{String: record.StatusDetail, Valid: true}}
	}
	if record.RawResponse != "" {
		run.RawResponse = models.JsonNullString{NullString: sql.NullString{String: record.RawResponse, Valid: true}}
	}
	if err := s.runs.InsertGenerationRun(run); err != nil {
		log.Printf("警告：[OptimizeService] 寫入生成歷史稽核庫失敗: %v\n", err)
	}
}

// ReadGeneratedRecords 讀出 Generated 分頁的所有記錄（依列順序）
func (s *OptimizeService) ReadGeneratedRecords() ([]*models.GeneratedRecord, error) {
	rows, err := s.store.GetRangeData(s.cfg.Sheets.GeneratedSheet, generatedDataStartRow, 1)
	if err != nil {
		return nil, fmt.Errorf("讀取 Generated 分頁失敗: %w", err)
	}
	records := make([]*models.GeneratedRecord, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		rec, err := models.RecordFromSheetRow(row)
		if err != nil {
			return nil, fmt.Errorf("解析 Generated 分頁第 %d 列失敗: %w", generatedDataStartRow+i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ApproveVisibleRows 將目前可見（未被篩選隱藏）且生成成功的列
// 的核准旗標翻為 true。審核者先在試算表中篩出要核准的列，再觸發此操作。
func (s *OptimizeService) ApproveVisibleRows() (int, error) {
	flags, err := s.store.GetVisibleRowFlags(s.cfg.Sheets.GeneratedSheet)
	if err != nil {
		return 0, fmt.Errorf("讀取列可見狀態失敗: %w", err)
	}
	records, err := s.ReadGeneratedRecords()
	if err != nil {
		return 0, err
	}

	var approvedCount int
	for i, rec := range records {
		rowNum := generatedDataStartRow + i
		visible := rowNum-1 < len(flags) && flags[rowNum-1]
		if !visible || rec.Status != models.StatusSuccess || rec.Approved {
			continue
		}
		if err := s.store.SetValuesInDefinedRange(s.cfg.Sheets.GeneratedSheet, rowNum, 1, [][]interface{}{{"true"}}); err != nil {
			return approvedCount, fmt.Errorf("更新第 %d 列的核准旗標失敗: %w", rowNum, err)
		}
		approvedCount++
	}
	s.opLog.Log(fmt.Sprintf("批次核准完成，共核准 %d 列", approvedCount))
	log.Printf("資訊：[OptimizeService] 批次核准完成，共核准 %d 列。\n", approvedCount)
	return approvedCount, nil
}

// ClearGenerated 整批清除生成結果與操作日誌，重置整個審核週期
func (s *OptimizeService) ClearGenerated() error {
	if err := s.store.ClearDefinedRange(s.cfg.Sheets.GeneratedSheet, 1, 1); err != nil {
		return fmt.Errorf("清除 Generated 分頁失敗: %w", err)
	}
	if err := s.opLog.Clear(); err != nil {
		log.Printf("警告：[OptimizeService] 清空操作日誌失敗: %v\n", err)
	}
	log.Println("資訊：[OptimizeService] Generated 分頁已清除。")
	return nil
}

// Run 供排程器觸發：處理下一列（若有）
func (s *OptimizeService) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()
	processed, err := s.OptimizeNextRow(ctx)
	if err != nil {
		log.Printf("錯誤：[OptimizeService-SchedulerRun] 本次生成呼叫失敗: %v", err)
		return err
	}
	if !processed {
		log.Println("資訊：[OptimizeService-SchedulerRun] 沒有待生成的輸入列。")
	}
	return nil
}
