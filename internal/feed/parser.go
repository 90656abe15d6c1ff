package feed

import (
	"fmt"
	"strings"
)

// 模型標題階段回應的四行固定前綴，順序固定。
const (
	PrefixOriginalTitleKeys = "product attribute keys in original title:"
	PrefixCategory          = "product category:"
	PrefixAttributeKeys     = "product attribute keys:"
	PrefixAttributeValues   = "product attribute values:"
)

// Separator 是屬性清單的分隔字元
const Separator = "|"

// Segment 標示回應中的四個段落
type Segment string

const (
	SegmentOriginalTitleKeys Segment = "original-title-keys"
	SegmentCategory          Segment = "category"
	SegmentAttributeKeys     Segment = "attribute-keys"
	SegmentAttributeValues   Segment = "attribute-values"
)

// MissingSegmentError 表示回應缺少預期的段落行。
// 對單列而言是致命錯誤，由呼叫端捕捉並記錄為 Failed 狀態。
type MissingSegmentError struct {
	Segment Segment
}

func (e *MissingSegmentError) Error() string {
	return fmt.Sprintf("模型回應缺少段落: %s", e.Segment)
}

// SegmentPrefixError 表示段落行存在但前綴不符。
type SegmentPrefixError struct {
	Segment Segment
	Line    string
}

func (e *SegmentPrefixError) Error() string {
	return fmt.Sprintf("模型回應段落 %s 的前綴不符: %q", e.Segment, firstNChars(e.Line, 80))
}

// TitleResponse 是標題階段回應解析後的四個段落
type TitleResponse struct {
	OriginalTitleKeys []string
	Category          string
	AttributeKeys     []string
	AttributeValues   []string
}

type segmentSpec struct {
	segment Segment
	prefix  string
	isList  bool
}

// 四行的文法：固定順序、固定前綴，除 category 外皆為 | 分隔清單。
var titleSegments = []segmentSpec{
	{SegmentOriginalTitleKeys, PrefixOriginalTitleKeys, true},
	{SegmentCategory, PrefixCategory, false},
	{SegmentAttributeKeys, PrefixAttributeKeys, true},
	{SegmentAttributeValues, PrefixAttributeValues, true},
}

// ParseTitleResponse 解析模型標題階段的多行回應。
// 不做寬鬆容錯：缺行或前綴不符即回傳對應的錯誤變體。
func ParseTitleResponse(raw string) (*TitleResponse, error) {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	resp := &TitleResponse{}
	for i, spec := range titleSegments {
		if i >= len(lines) {
			return nil, &MissingSegmentError{Segment: spec.segment}
		}
		line := lines[i]
		if !strings.HasPrefix(line, spec.prefix) {
			return nil, &SegmentPrefixError{Segment: spec.segment, Line: line}
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, spec.prefix))
		switch spec.segment {
		case SegmentOriginalTitleKeys:
			resp.OriginalTitleKeys = splitList(rest)
		case SegmentCategory:
			resp.Category = rest
		case SegmentAttributeKeys:
			resp.AttributeKeys = splitList(rest)
		case SegmentAttributeValues:
			resp.AttributeValues = splitList(rest)
		}
	}
	return resp, nil
}

// splitList 以分隔字元切割、修剪並去除空白片段
func splitList(s string) []string {
	var out []string
	for _, piece := range strings.Split(s, Separator) {
		if trimmed := strings.TrimSpace(piece); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func firstNChars(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
