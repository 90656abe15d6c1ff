package feed

import (
	"strings"

	"AiFeedOptimizer-admin/internal/models"
)

// GeneratedTitleContextKey 是描述階段注入已生成標題時使用的固定鍵
const GeneratedTitleContextKey = "generated_title"

// renderContext 依標頭順序把列資料攤成 "key: value" 行
func renderContext(ctx models.RowContext, headers []string) string {
	var sb strings.Builder
	for _, header := range headers {
		if header == "" {
			continue
		}
		sb.WriteString(header)
		sb.WriteString(": ")
		sb.WriteString(ctx.Value(header))
		sb.WriteString("\n")
	}
	return sb.String()
}

// BuildTitlePrompt 組出標題階段的提示：設定的範本加上該列的欄位內容
func BuildTitlePrompt(promptTemplate string, ctx models.RowContext, headers []string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(promptTemplate))
	sb.WriteString("\n\n")
	sb.WriteString(renderContext(ctx, headers))
	return sb.String()
}

// BuildDescriptionPrompt 組出描述階段的提示。
// 已生成的標題會先以固定鍵注入列資料，再交給模型。
func BuildDescriptionPrompt(promptTemplate string, ctx models.RowContext, headers []string, generatedTitle string) string {
	augmented := make(models.RowContext, len(ctx)+1)
	for k, v := range ctx {
		augmented[k] = v
	}
	augmented[GeneratedTitleContextKey] = generatedTitle

	augmentedHeaders := append(append([]string{}, headers...), GeneratedTitleContextKey)

	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(promptTemplate))
	sb.WriteString("\n\n")
	sb.WriteString(renderContext(augmented, augmentedHeaders))
	return sb.String()
}
