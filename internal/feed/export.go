package feed

import (
	"sort"

	"AiFeedOptimizer-admin/internal/models"
)

// InventedColumnPrefix 加在無中生有屬性的匯出欄位名之前
const InventedColumnPrefix = "new_"

// ExportTable 是核准列批次攤平後的固定寬度匯出表
type ExportTable struct {
	// GapKeys：曾宣告於任一列原始輸入的已回填屬性鍵，依首見順序
	GapKeys []string
	// InventedKeys：從未出現在任何列原始輸入的屬性鍵，依首見順序
	InventedKeys []string
	Headers      []string
	Rows         [][]string
}

// orderedSet 是保留插入順序的字串集合
type orderedSet struct {
	keys []string
	seen map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) Add(key string) {
	if !s.seen[key] {
		s.seen[key] = true
		s.keys = append(s.keys, key)
	}
}

func (s *orderedSet) Has(key string) bool { return s.seen[key] }

// rowGapKeys 依生成範本的鍵順序列出該列的缺口鍵；
// 不在範本中的缺口鍵（理論上不該出現）補在最後，排序以求穩定。
func rowGapKeys(rec *models.GeneratedRecord) []string {
	var keys []string
	covered := make(map[string]bool)
	for _, key := range ParseTemplate(rec.GeneratedTemplate) {
		if _, ok := rec.GapAttributes[key]; ok && !covered[key] {
			keys = append(keys, key)
			covered[key] = true
		}
	}
	var rest []string
	for key := range rec.GapAttributes {
		if !covered[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// BuildExport 對已核准的列批次重新推導缺口/新屬性欄位並攤平。
// 零列輸入回傳 nil，呼叫端視為不需任何寫入。
func BuildExport(records []*models.GeneratedRecord) *ExportTable {
	if len(records) == 0 {
		return nil
	}

	// 兩個保序集合：所有列曾回填的鍵、所有列原始輸入曾宣告的鍵
	filledIn := newOrderedSet()
	allInput := newOrderedSet()
	for _, rec := range records {
		for _, key := range rowGapKeys(rec) {
			filledIn.Add(key)
		}
		for key := range rec.OriginalInput {
			allInput.Add(key)
		}
	}

	table := &ExportTable{}
	for _, key := range filledIn.keys {
		if allInput.Has(key) {
			table.GapKeys = append(table.GapKeys, key)
		} else {
			table.InventedKeys = append(table.InventedKeys, key)
		}
	}

	table.Headers = []string{"id", "title", "description"}
	table.Headers = append(table.Headers, table.GapKeys...)
	for _, key := range table.InventedKeys {
		table.Headers = append(table.Headers, InventedColumnPrefix+key)
	}

	attributeColumns := append(append([]string{}, table.GapKeys...), table.InventedKeys...)
	for _, rec := range records {
		row := []string{rec.ItemID, rec.GeneratedTitle, rec.GeneratedDescription}
		for _, key := range attributeColumns {
			// 該列自己的缺口值優先，否則回退到該列的原始輸入快照
			if v, ok := rec.GapAttributes[key]; ok {
				row = append(row, v)
			} else {
				row = append(row, rec.OriginalInput.Value(key))
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
