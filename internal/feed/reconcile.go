package feed

import (
	"strings"

	"AiFeedOptimizer-admin/internal/models"
)

// Reconciliation 是單列原始資料與生成屬性合併後的結果
type Reconciliation struct {
	GeneratedTitle    string
	OriginalTemplate  Template
	GeneratedTemplate Template
	// GapKeys 依生成鍵序列的順序列出缺口屬性鍵
	GapKeys       []string
	GapAttributes map[string]string
}

// truthy 判斷儲存格值是否為有效內容
func truthy(v string) bool {
	return strings.TrimSpace(v) != ""
}

// IsGapAttribute 判斷生成鍵對該列而言是否為缺口：
// 該列沒有有效值，且（鍵不在原始標題範本中，或鍵有宣告於該列的欄位集合）。
// 後者是刻意的覆寫條件：已宣告但為空的欄位永遠視為可回填的缺口，
// 即使原始標題範本也引用了同一個鍵。
func IsGapAttribute(ctx models.RowContext, originalTemplate Template, key string) bool {
	if truthy(ctx.Value(key)) {
		return false
	}
	return !originalTemplate.Contains(key) || ctx.Has(key)
}

// Reconcile 合併原始列資料與生成屬性：原始值優先，
// 缺口屬性記入 GapAttributes，並依序組出生成標題。
func Reconcile(ctx models.RowContext, resp *TitleResponse) *Reconciliation {
	originalTemplate := Template(resp.OriginalTitleKeys)
	generatedTemplate := Template(resp.AttributeKeys)

	rec := &Reconciliation{
		OriginalTemplate:  originalTemplate,
		GeneratedTemplate: generatedTemplate,
		GapAttributes:     make(map[string]string),
	}

	titleFeatures := make([]string, 0, len(resp.AttributeKeys))
	for i, key := range resp.AttributeKeys {
		var generatedValue string
		if i < len(resp.AttributeValues) {
			generatedValue = resp.AttributeValues[i]
		}
		if IsGapAttribute(ctx, originalTemplate, key) {
			rec.GapAttributes[key] = generatedValue
			rec.GapKeys = append(rec.GapKeys, key)
		}
		if v := ctx.Value(key); truthy(v) {
			titleFeatures = append(titleFeatures, v)
		} else {
			titleFeatures = append(titleFeatures, generatedValue)
		}
	}
	rec.GeneratedTitle = strings.Join(titleFeatures, " ")
	return rec
}
