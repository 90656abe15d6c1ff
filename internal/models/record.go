package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RowContext 是一列輸入資料的快照：欄位標頭 -> 儲存格字串值。
// 生成當下取得後即不再變動。
type RowContext map[string]string

// Value 回傳指定欄位的值，欄位不存在時回傳空字串
func (rc RowContext) Value(key string) string {
	return rc[key]
}

// Has 判斷欄位是否宣告於此列（即使值為空）
func (rc RowContext) Has(key string) bool {
	_, ok := rc[key]
	return ok
}

// GeneratedRecord 對應 Generated 分頁的一列輸出
type GeneratedRecord struct {
	Approved             bool              `json:"approved"`
	Status               GenerationStatus  `json:"status"`
	StatusDetail         string            `json:"status_detail"`
	ItemID               string            `json:"item_id"`
	GeneratedTitle       string            `json:"generated_title"`
	GeneratedDescription string            `json:"generated_description"`
	GeneratedCategory    string            `json:"generated_category"`
	TotalScore           float64           `json:"total_score"`
	OriginalTemplate     string            `json:"original_template"`
	GeneratedTemplate    string            `json:"generated_template"`
	AddedAttributes      string            `json:"added_attributes"`
	NewWords             string            `json:"new_words"`
	GapAttributes        map[string]string `json:"gap_attributes"`
	OriginalInput        RowContext        `json:"original_input"`
	OriginalTitle        string            `json:"original_title"`
	OriginalDescription  string            `json:"original_description"`
	RawResponse          string            `json:"raw_response"`
}

// Generated 分頁的欄位順序（固定）
var GeneratedHeaders = []string{
	"approved", "status", "status_detail", "item_id",
	"generated_title", "generated_description", "generated_category", "total_score",
	"original_template", "generated_template", "added_attributes", "new_words",
	"gap_attributes", "original_input", "original_title", "original_description",
	"raw_response",
}

// ToSheetRow 將記錄攤平為試算表的一列
func (r *GeneratedRecord) ToSheetRow() []interface{} {
	gapJSON := "{}"
	if b, err := json.Marshal(r.GapAttributes); err == nil && r.GapAttributes != nil {
		gapJSON = string(b)
	}
	inputJSON := "{}"
	if b, err := json.Marshal(r.OriginalInput); err == nil && r.OriginalInput != nil {
		inputJSON = string(b)
	}
	return []interface{}{
		strconv.FormatBool(r.Approved),
		string(r.Status),
		r.StatusDetail,
		r.ItemID,
		r.GeneratedTitle,
		r.GeneratedDescription,
		r.GeneratedCategory,
		strconv.FormatFloat(r.TotalScore, 'f', 1, 64),
		r.OriginalTemplate,
		r.GeneratedTemplate,
		r.AddedAttributes,
		r.NewWords,
		gapJSON,
		inputJSON,
		r.OriginalTitle,
		r.OriginalDescription,
		r.RawResponse,
	}
}

// CellString 將試算表儲存格值轉為字串
func CellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// RecordFromSheetRow 從試算表的一列還原記錄
func RecordFromSheetRow(row []interface{}) (*GeneratedRecord, error) {
	cell := func(i int) string {
		if i < len(row) {
			return CellString(row[i])
		}
		return ""
	}
	rec := &GeneratedRecord{
		Approved:             strings.EqualFold(cell(0), "true"),
		Status:               GenerationStatus(cell(1)),
		StatusDetail:         cell(2),
		ItemID:               cell(3),
		GeneratedTitle:       cell(4),
		GeneratedDescription: cell(5),
		GeneratedCategory:    cell(6),
		OriginalTemplate:     cell(8),
		GeneratedTemplate:    cell(9),
		AddedAttributes:      cell(10),
		NewWords:             cell(11),
		OriginalTitle:        cell(14),
		OriginalDescription:  cell(15),
		RawResponse:          cell(16),
	}
	if s := cell(7); s != "" {
		score, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("無法解析 total_score 欄位 '%s': %w", s, err)
		}
		rec.TotalScore = score
	}
	if s := cell(12); s != "" {
		if err := json.Unmarshal([]byte(s), &rec.GapAttributes); err != nil {
			return nil, fmt.Errorf("無法解析 gap_attributes 欄位: %w", err)
		}
	}
	if s := cell(13); s != "" {
		if err := json.Unmarshal([]byte(s), &rec.OriginalInput); err != nil {
			return nil, fmt.Errorf("無法解析 original_input 欄位: %w", err)
		}
	}
	return rec, nil
}

// GenerationRun 對應 generation_runs 稽核資料表的一筆紀錄
type GenerationRun struct {
	ID            int64            `json:"id"`
	ItemID        string           `json:"item_id"`
	Status        GenerationStatus `json:"status"`
	StatusDetail  JsonNullString   `json:"status_detail"`
	TotalScore    float64          `json:"total_score"`
	PromptVersion string           `json:"prompt_version"`
	RawResponse   JsonNullString   `json:"raw_response"`
	CreatedAt     time.Time        `json:"created_at"`
}
