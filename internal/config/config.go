package config

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/spf13/viper"
)

// Provider names accepted by AI_PROVIDER.
const (
	ProviderArk    = "ark"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Widget  WidgetConfig
	Contact ContactConfig
	Log     LogConfig
}

// Load 从 config.yaml（可选）与环境变量加载配置，环境变量优先。
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	explicit := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if explicit != "" {
		v.SetConfigFile(explicit)
	}

	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !stderrors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	server, err := loadServerConfig(v)
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig(v)
	if err != nil {
		return nil, err
	}

	widget, err := loadWidgetConfig(v)
	if err != nil {
		return nil, err
	}

	contact, err := loadContactConfig(v)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		AI:      ai,
		Widget:  widget,
		Contact: contact,
		Log: LogConfig{
			Level:  strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
			Format: strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("ai_provider", ProviderGemini)
	v.SetDefault("ark_base_url", "https://ark.cn-beijing.volces.com/api/v3")
	v.SetDefault("ark_region", "cn-beijing")
	v.SetDefault("widget_reply_delay", "1s")
	v.SetDefault("widget_suggestion_interval", "8s")
	v.SetDefault("relay_url", "http://localhost:8080")
	v.SetDefault("contact_endpoint", "https://formspree.io/f")
	v.SetDefault("contact_timeout", "10s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig(v *viper.Viper) (ServerConfig, error) {
	port := strings.TrimSpace(v.GetString("port"))
	if port == "" {
		port = "8080"
	}

	origins := splitList(v.GetString("cors_allowed_origins"))

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

// AIConfig 描述文本生成服务的配置。
type AIConfig struct {
	Provider    string
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	if c.Model == "" {
		return false
	}
	if c.Provider == ProviderArk {
		return c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != "")
	}
	return c.APIKey != ""
}

// NewChatModel 使用配置创建一个 Ark 模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if c.Provider != ProviderArk || !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + AI_MODEL 或 AK/SK 组合")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig(v *viper.Viper) (AIConfig, error) {
	provider := strings.ToLower(strings.TrimSpace(v.GetString("ai_provider")))
	switch provider {
	case ProviderArk, ProviderOpenAI, ProviderGemini:
	default:
		return AIConfig{}, fmt.Errorf("invalid AI_PROVIDER value %q", provider)
	}

	temperature, err := parseOptionalFloat(v, "ai_temperature")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloat(v, "ai_top_p")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalInt(v, "ai_max_tokens")
	if err != nil {
		return AIConfig{}, err
	}

	cfg := AIConfig{
		Provider:    provider,
		APIKey:      firstNonEmpty(v, "ai_api_key", providerKeyEnv(provider)),
		Model:       firstNonEmpty(v, "ai_model"),
		BaseURL:     firstNonEmpty(v, "ai_base_url"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}

	switch provider {
	case ProviderArk:
		cfg.AccessKey = firstNonEmpty(v, "ark_access_key")
		cfg.SecretKey = firstNonEmpty(v, "ark_secret_key")
		cfg.Region = firstNonEmpty(v, "ark_region")
		if cfg.BaseURL == "" {
			cfg.BaseURL = firstNonEmpty(v, "ark_base_url")
		}
	case ProviderOpenAI:
		if cfg.Model == "" {
			cfg.Model = "gpt-4o-mini"
		}
	case ProviderGemini:
		if cfg.Model == "" {
			cfg.Model = "gemini-pro"
		}
	}

	return cfg, nil
}

func providerKeyEnv(provider string) string {
	switch provider {
	case ProviderArk:
		return "ark_api_key"
	case ProviderOpenAI:
		return "openai_api_key"
	default:
		return "gemini_api_key"
	}
}

// WidgetConfig 描述终端聊天工具使用的组件参数。
type WidgetConfig struct {
	RelayURL           string
	ReplyDelay         time.Duration
	SuggestionInterval time.Duration
}

func loadWidgetConfig(v *viper.Viper) (WidgetConfig, error) {
	delay, err := parseDuration(v, "widget_reply_delay")
	if err != nil {
		return WidgetConfig{}, err
	}
	if delay < 0 {
		delay = 0
	}

	interval, err := parseDuration(v, "widget_suggestion_interval")
	if err != nil {
		return WidgetConfig{}, err
	}
	if interval <= 0 {
		return WidgetConfig{}, fmt.Errorf("WIDGET_SUGGESTION_INTERVAL must be > 0")
	}

	return WidgetConfig{
		RelayURL:           strings.TrimRight(strings.TrimSpace(v.GetString("relay_url")), "/"),
		ReplyDelay:         delay,
		SuggestionInterval: interval,
	}, nil
}

// ContactConfig 描述联系表单转发配置。
type ContactConfig struct {
	FormID   string
	Endpoint string
	Timeout  time.Duration
}

// Enabled 表示是否配置了表单 ID。
func (c ContactConfig) Enabled() bool {
	return c.FormID != ""
}

// URL 返回表单提交地址。
func (c ContactConfig) URL() string {
	return c.Endpoint + "/" + c.FormID
}

func loadContactConfig(v *viper.Viper) (ContactConfig, error) {
	timeout, err := parseDuration(v, "contact_timeout")
	if err != nil {
		return ContactConfig{}, err
	}

	return ContactConfig{
		FormID:   strings.TrimSpace(v.GetString("contact_form_id")),
		Endpoint: strings.TrimRight(strings.TrimSpace(v.GetString("contact_endpoint")), "/"),
		Timeout:  timeout,
	}, nil
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level  string
	Format string
}

func firstNonEmpty(v *viper.Viper, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(v.GetString(key)); value != "" {
			return value
		}
	}
	return ""
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", strings.ToUpper(key), raw, err)
	}
	return val, nil
}

func parseOptionalFloat(v *viper.Viper, key string) (*float64, error) {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", strings.ToUpper(key), value, err)
	}
	return &val, nil
}

func parseOptionalInt(v *viper.Viper, key string) (*int, error) {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", strings.ToUpper(key), value, err)
	}
	return &val, nil
}
