package sheets

import (
	"context"
	"fmt"
	"log"

	"AiFeedOptimizer-admin/internal/config"
	"AiFeedOptimizer-admin/internal/models"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// ErrSheetNotFound 表示指定名稱的工作表不存在，屬於中止整次操作的致命錯誤
var ErrSheetNotFound = fmt.Errorf("找不到指定的工作表")

// Service 結構封裝 Google Sheets API 的範圍讀寫。
// 所有列/欄索引皆為 1-based，與試算表一致。
type Service struct {
	srv           *sheetsapi.Service
	spreadsheetID string
	startRow      int
}

// NewService 建立一個 Sheets 儲存服務實例
func NewService(ctx context.Context, cfg config.SheetsConfig) (*Service, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("Sheets 設定中的 spreadsheetID 不得為空")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, option.WithScopes(sheetsapi.SpreadsheetsScope))

	srv, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("無法建立 Google Sheets 服務: %w", err)
	}
	startRow := cfg.StartRow
	if startRow < 1 {
		startRow = 1
	}
	log.Printf("資訊：[Sheets] 服務初始化成功 (spreadsheet: %s, startRow: %d)。\n", cfg.SpreadsheetID, startRow)
	return &Service{srv: srv, spreadsheetID: cfg.SpreadsheetID, startRow: startRow}, nil
}

// StartRow 回傳標頭列所在的列號；資料自 StartRow+1 起
func (s *Service) StartRow() int { return s.startRow }

// columnLetter 將 1-based 欄號轉為 A1 表示法的欄字母
func columnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}

// cellA1 組出單一儲存格的 A1 範圍
func cellA1(sheetName string, row, col int) string {
	return fmt.Sprintf("'%s'!%s%d", sheetName, columnLetter(col), row)
}

// openRangeA1 組出從指定儲存格到工作表尾端的開放範圍
func openRangeA1(sheetName string, row, col int) string {
	return fmt.Sprintf("'%s'!%s%d:ZZ", sheetName, columnLetter(col), row)
}

// GetRangeData 讀取自 (startRow, startCol) 起的所有儲存格值
func (s *Service) GetRangeData(sheetName string, startRow, startCol int) ([][]interface{}, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, openRangeA1(sheetName, startRow, startCol)).Do()
	if err != nil {
		return nil, fmt.Errorf("讀取範圍 %s 失敗: %w", openRangeA1(sheetName, startRow, startCol), err)
	}
	return resp.Values, nil
}

// SetValuesInDefinedRange 從 (row, col) 起覆寫指定的值
func (s *Service) SetValuesInDefinedRange(sheetName string, row, col int, values [][]interface{}) error {
	if len(values) == 0 {
		return nil
	}
	vr := &sheetsapi.ValueRange{Values: values}
	_, err := s.srv.Spreadsheets.Values.
		Update(s.spreadsheetID, cellA1(sheetName, row, col), vr).
		ValueInputOption("RAW").Do()
	if err != nil {
		return fmt.Errorf("寫入範圍 %s 失敗: %w", cellA1(sheetName, row, col), err)
	}
	return nil
}

// ClearDefinedRange 清除自 (row, col) 起到工作表尾端的所有值
func (s *Service) ClearDefinedRange(sheetName string, row, col int) error {
	_, err := s.srv.Spreadsheets.Values.
		Clear(s.spreadsheetID, openRangeA1(sheetName, row, col), &sheetsapi.ClearValuesRequest{}).Do()
	if err != nil {
		return fmt.Errorf("清除範圍 %s 失敗: %w", openRangeA1(sheetName, row, col), err)
	}
	return nil
}

// GetHeaders 讀取標頭列（位於設定的 StartRow）
func (s *Service) GetHeaders(sheetName string) ([]string, error) {
	rangeA1 := fmt.Sprintf("'%s'!%d:%d", sheetName, s.startRow, s.startRow)
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, rangeA1).Do()
	if err != nil {
		return nil, fmt.Errorf("讀取標頭列 %s 失敗: %w", rangeA1, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	headers := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		headers = append(headers, models.CellString(cell))
	}
	return headers, nil
}

// GetCellValue 讀取單一儲存格的值
func (s *Service) GetCellValue(sheetName string, row, col int) (string, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, cellA1(sheetName, row, col)).Do()
	if err != nil {
		return "", fmt.Errorf("讀取儲存格 %s 失敗: %w", cellA1(sheetName, row, col), err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return "", nil
	}
	return models.CellString(resp.Values[0][0]), nil
}

// GetTotalRows 回傳工作表中有資料的總列數
func (s *Service) GetTotalRows(sheetName string) (int, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, fmt.Sprintf("'%s'!A:A", sheetName)).Do()
	if err != nil {
		return 0, fmt.Errorf("讀取工作表 '%s' 的列數失敗: %w", sheetName, err)
	}
	return len(resp.Values), nil
}

// GetVisibleRowFlags 回傳工作表每一列是否可見（未被篩選或手動隱藏）。
// 索引 0 對應第 1 列。核准步驟依此決定要翻轉哪些列。
func (s *Service) GetVisibleRowFlags(sheetName string) ([]bool, error) {
	resp, err := s.srv.Spreadsheets.Get(s.spreadsheetID).
		Ranges(sheetName).
		Fields("sheets(properties(title),data(rowMetadata(hiddenByFilter,hiddenByUser)))").
		Do()
	if err != nil {
		return nil, fmt.Errorf("讀取工作表 '%s' 的列可見狀態失敗: %w", sheetName, err)
	}
	if len(resp.Sheets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheetName)
	}
	var flags []bool
	for _, data := range resp.Sheets[0].Data {
		for _, rowMeta := range data.RowMetadata {
			flags = append(flags, !rowMeta.HiddenByFilter && !rowMeta.HiddenByUser)
		}
	}
	return flags, nil
}

// AppendRows 在工作表已有資料之後附加列
func (s *Service) AppendRows(sheetName string, values [][]interface{}) error {
	if len(values) == 0 {
		return nil
	}
	vr := &sheetsapi.ValueRange{Values: values}
	_, err := s.srv.Spreadsheets.Values.
		Append(s.spreadsheetID, fmt.Sprintf("'%s'!A1", sheetName), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").Do()
	if err != nil {
		return fmt.Errorf("附加列到工作表 '%s' 失敗: %w", sheetName, err)
	}
	return nil
}
