package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// PromptVersions 結構：同一類 Prompt 的多版本管理
type PromptVersions struct {
	CurrentVersion string            `mapstructure:"currentVersion"`
	Versions       map[string]string `mapstructure:"versions"`
}

// PromptConfig 結構：標題與描述兩階段各自的 Prompt 範本
type PromptConfig struct {
	TitleGeneration       PromptVersions `mapstructure:"titleGeneration"`
	DescriptionGeneration PromptVersions `mapstructure:"descriptionGeneration"`
}

// GenerationParams 結構：傳給模型的生成參數
type GenerationParams struct {
	Temperature     float32 `mapstructure:"temperature"`
	MaxOutputTokens int32   `mapstructure:"maxOutputTokens"`
	TopK            int32   `mapstructure:"topK"`
	TopP            float32 `mapstructure:"topP"`
}

// GeminiClientConfig 結構
type GeminiClientConfig struct {
	APIKey     string           `mapstructure:"apiKey"`
	ProjectID  string           `mapstructure:"projectID"`
	ModelName  string           `mapstructure:"modelName"`
	RetryCount int              `mapstructure:"retryCount"`
	Params     GenerationParams `mapstructure:"params"`
}

// SheetsConfig 結構：試算表各分頁名稱與資料起始列
// StartRow 之前的列視為標頭區，所有索引皆為 1-based。
type SheetsConfig struct {
	CredentialsFile string `mapstructure:"credentialsFile"`
	SpreadsheetID   string `mapstructure:"spreadsheetID"`
	InputSheet      string `mapstructure:"inputSheet"`
	GeneratedSheet  string `mapstructure:"generatedSheet"`
	OutputSheet     string `mapstructure:"outputSheet"`
	LogSheet        string `mapstructure:"logSheet"`
	StartRow        int    `mapstructure:"startRow"`
}

// SchedulerConfig 結構
type SchedulerConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	OptimizeCronSpec string `mapstructure:"optimizeCronSpec"`
}

// DatabaseConfig 結構（生成歷史稽核庫）
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbName"`
}

// Config 結構：啟動時一次注入，取代散落各處的逐欄位查詢
type Config struct {
	AppName      string             `mapstructure:"appName"`
	GeminiClient GeminiClientConfig `mapstructure:"geminiClient"`
	Sheets       SheetsConfig       `mapstructure:"sheets"`
	Prompts      PromptConfig       `mapstructure:"prompts"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Database     DatabaseConfig     `mapstructure:"database"`
}

// CurrentPrompt 取出目前版本的 Prompt 範本內容
func (pv PromptVersions) CurrentPrompt() (string, error) {
	tmpl, ok := pv.Versions[pv.CurrentVersion]
	if !ok || tmpl == "" {
		return "", fmt.Errorf("未設定有效的 Prompt 範本 (版本: %s)", pv.CurrentVersion)
	}
	return tmpl, nil
}

// Load 載入設定檔，缺漏欄位套用預設值，環境變數可覆寫
func Load(configPath string, configName string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 設定預設值
	v.SetDefault("appName", "AiFeedOptimizer-DefaultApp")
	v.SetDefault("geminiClient.modelName", "gemini-1.5-flash-latest")
	v.SetDefault("geminiClient.retryCount", 3)
	v.SetDefault("geminiClient.params.temperature", 0.2)
	v.SetDefault("geminiClient.params.maxOutputTokens", 1024)
	v.SetDefault("geminiClient.params.topK", 40)
	v.SetDefault("geminiClient.params.topP", 0.95)
	v.SetDefault("sheets.inputSheet", "Input Feed")
	v.SetDefault("sheets.generatedSheet", "Generated")
	v.SetDefault("sheets.outputSheet", "Output Feed")
	v.SetDefault("sheets.logSheet", "Log")
	v.SetDefault("sheets.startRow", 1)
	v.SetDefault("prompts.titleGeneration.currentVersion", "default-v1")
	v.SetDefault("prompts.titleGeneration.versions.default-v1",
		"請依下列產品資料重組一個更完整的產品標題，並依固定四行格式回覆。")
	v.SetDefault("prompts.descriptionGeneration.currentVersion", "default-v1")
	v.SetDefault("prompts.descriptionGeneration.versions.default-v1",
		"請依下列產品資料撰寫一段產品描述，直接輸出描述文字。")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.optimizeCronSpec", "0 */1 * * * *")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("警告：找不到設定檔，將使用預設值和環境變數。")
		} else {
			return nil, fmt.Errorf("讀取設定檔時發生錯誤: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("無法解析設定檔到結構: %w", err)
	}

	if cfg.GeminiClient.APIKey == "" {
		fmt.Println("警告：Gemini API Key 未設定！")
	}
	if cfg.Sheets.SpreadsheetID == "" {
		fmt.Println("警告：Spreadsheet ID 未設定！")
	}

	fmt.Println("資訊：設定載入成功。")
	return &cfg, nil
}
