package sheets

import (
	"fmt"
	"log"
	"time"
)

// SheetLogger 把操作訊息附加到試算表的 Log 分頁，
// 讓審核者不用離開試算表就能看到執行紀錄。
type SheetLogger struct {
	svc       *Service
	sheetName string
}

// NewSheetLogger 建立一個 SheetLogger 實例
func NewSheetLogger(svc *Service, sheetName string) (*SheetLogger, error) {
	if svc == nil {
		return nil, fmt.Errorf("SheetLogger：Sheets 服務不得為空")
	}
	if sheetName == "" {
		return nil, fmt.Errorf("SheetLogger：log 分頁名稱不得為空")
	}
	return &SheetLogger{svc: svc, sheetName: sheetName}, nil
}

// Log 附加一筆時間戳記的訊息。寫入失敗僅記錄警告，不影響主流程。
func (l *SheetLogger) Log(message string) {
	row := []interface{}{time.Now().Format("2006-01-02 15:04:05"), message}
	if err := l.svc.AppendRows(l.sheetName, [][]interface{}{row}); err != nil {
		log.Printf("警告：[SheetLogger] 寫入 log 分頁失敗: %v\n", err)
	}
}

// Clear 清空 log 分頁
func (l *SheetLogger) Clear() error {
	if err := l.svc.ClearDefinedRange(l.sheetName, 1, 1); err != nil {
		return fmt.Errorf("清空 log 分頁失敗: %w", err)
	}
	return nil
}
