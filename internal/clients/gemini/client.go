package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"AiFeedOptimizer-admin/internal/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client 結構用於與 Gemini API 互動
type Client struct {
	model      *genai.GenerativeModel
	retryCount int
	retryDelay time.Duration
}

// NewClient 建立一個 Gemini 客戶端實例
func NewClient(cfg config.GeminiClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API Key 不得為空")
	}
	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-1.5-flash-latest"
		log.Printf("警告：[Gemini Client] 未提供模型名稱，使用預設值: %s\n", modelName)
	}

	ctx := context.Background()
	genaiSDKClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("無法建立 Gemini GenAI SDK 客戶端: %w", err)
	}

	model := genaiSDKClient.GenerativeModel(modelName)
	model.GenerationConfig.SetTemperature(cfg.Params.Temperature)
	model.GenerationConfig.SetMaxOutputTokens(cfg.Params.MaxOutputTokens)
	model.GenerationConfig.SetTopK(cfg.Params.TopK)
	model.GenerationConfig.SetTopP(cfg.Params.TopP)
	log.Printf("資訊：[Gemini Client] 生成模型 '%s' 初始化成功 (temperature=%.2f, maxOutputTokens=%d, topK=%d, topP=%.2f)。\n",
		modelName, cfg.Params.Temperature, cfg.Params.MaxOutputTokens, cfg.Params.TopK, cfg.Params.TopP)

	retryCount := cfg.RetryCount
	if retryCount < 1 {
		retryCount = 1
	}

	return &Client{
		model:      model,
		retryCount: retryCount,
		retryDelay: 2 * time.Second,
	}, nil
}

// Predict 向 Gemini API 發送提示並回傳生成的純文字
func (c *Client) Predict(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("提示內容不得為空")
	}
	log.Printf("資訊：[Gemini Client] Predict - 正在發送請求 (提示前100字元): %s...\n", firstNChars(prompt, 100))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API GenerateContent 失敗: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("Gemini API 回應無效或為空 (nil response or no candidates)")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		if candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != genai.FinishReasonUnspecified {
			if candidate.SafetyRatings != nil {
				for _, rating := range candidate.SafetyRatings {
					log.Printf("警告：[Gemini Client] 安全評級 - Category: %s, Probability: %s\n", rating.Category, rating.Probability)
				}
			}
			return "", fmt.Errorf("Gemini API 回應內容被阻止，原因: %s", candidate.FinishReason.String())
		}
		return "", fmt.Errorf("Gemini API 回應無效或為空 (no content parts, FinishReason: %s)", candidate.FinishReason.String())
	}

	var responseTextBuilder strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseTextBuilder.WriteString(string(txt))
		} else {
			log.Printf("警告：[Gemini Client] Predict - 收到非預期的 Part 類型: %T\n", part)
		}
	}
	responseText := responseTextBuilder.String()
	if strings.TrimSpace(responseText) == "" {
		return "", fmt.Errorf("Gemini API 回傳的內容為空")
	}
	log.Printf("資訊：[Gemini Client] Predict - 收到回應 (長度: %d)。\n", len(responseText))
	return responseText, nil
}

// PredictWithRetry 是 Predict 的有界重試裝飾：固定次數，固定間隔。
// 重試耗盡後回傳最後一次的錯誤，由呼叫端決定該列的失敗處理。
func (c *Client) PredictWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retryCount; attempt++ {
		text, err := c.Predict(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		log.Printf("警告：[Gemini Client] 第 %d/%d 次呼叫失敗: %v\n", attempt, c.retryCount, err)
		if attempt < c.retryCount {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("重試期間 context 已取消: %w", ctx.Err())
			case <-time.After(c.retryDelay):
			}
		}
	}
	return "", fmt.Errorf("Gemini API 呼叫在 %d 次嘗試後仍失敗: %w", c.retryCount, lastErr)
}

// firstNChars 輔助函式
func firstNChars(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
