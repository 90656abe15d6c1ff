package feed

import (
	"regexp"
	"strings"

	"AiFeedOptimizer-admin/internal/models"
)

// wordPattern 擷取引號片語的內容或一般單字 token
var wordPattern = regexp.MustCompile(`"([^"]+)"|[^\s"]+`)

// Tokenize 以 wordPattern 切出小寫單字集合用的 token
func Tokenize(s string) []string {
	matches := wordPattern.FindAllStringSubmatch(s, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		token := m[0]
		if m[1] != "" {
			token = m[1]
		}
		tokens = append(tokens, strings.ToLower(token))
	}
	return tokens
}

// InputWordSet 收集所有輸入儲存格值中出現過的小寫單字
func InputWordSet(ctx models.RowContext) map[string]bool {
	words := make(map[string]bool)
	for _, value := range ctx {
		for _, token := range Tokenize(value) {
			words[token] = true
		}
	}
	return words
}

// Metrics 是單列生成結果的品質信號
type Metrics struct {
	TitleChanged bool
	// AddedAttributes：生成鍵集合減去原始鍵集合，保留生成順序
	AddedAttributes []string
	// NewWords：生成標題中未出現於任何輸入值的單字
	NewWords []string
	// GapFilled / GapInvented：缺口鍵依是否宣告於列欄位集合二分
	GapFilled   []string
	GapInvented []string
	TotalScore  float64
}

// AddedAttributesDisplay 以 <key> token 空格串接呈現新增屬性
func (m *Metrics) AddedAttributesDisplay() string {
	return Template(m.AddedAttributes).Render()
}

// NewWordsDisplay 以 " | " 串接呈現新字
func (m *Metrics) NewWordsDisplay() string {
	return strings.Join(m.NewWords, " | ")
}

// Score 計算單列的綜合品質分數與輔助診斷。
// TotalScore 是五個布林指標的算術平均，固定落在 0 到 1 之間的五等分。
func Score(ctx models.RowContext, originalTitle string, rec *Reconciliation) *Metrics {
	m := &Metrics{
		TitleChanged: rec.GeneratedTitle != originalTitle,
	}

	for _, key := range rec.GeneratedTemplate {
		if !rec.OriginalTemplate.Contains(key) {
			m.AddedAttributes = append(m.AddedAttributes, key)
		}
	}

	inputWords := InputWordSet(ctx)
	seen := make(map[string]bool)
	for _, token := range Tokenize(rec.GeneratedTitle) {
		if !inputWords[token] && !seen[token] {
			m.NewWords = append(m.NewWords, token)
			seen[token] = true
		}
	}

	for _, key := range rec.GapKeys {
		if ctx.Has(key) {
			m.GapFilled = append(m.GapFilled, key)
		} else {
			m.GapInvented = append(m.GapInvented, key)
		}
	}

	indicators := []bool{
		len(m.AddedAttributes) > 0,
		m.TitleChanged,
		len(m.NewWords) == 0,
		len(m.GapFilled) > 0,
		len(m.GapInvented) > 0,
	}
	var hits int
	for _, ok := range indicators {
		if ok {
			hits++
		}
	}
	m.TotalScore = float64(hits) / float64(len(indicators))
	return m
}
