package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr           = ":8080"
	DefaultMaxUploadBytes = 32 << 20 // 32MB
	DefaultQuality        = 75
)

// Config はサービス全体の設定です。起動時に一度だけ読み込み、各コンポーネントへ注入します。
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Generator GeneratorConfig `yaml:"generator"`
	Output    OutputConfig    `yaml:"output"`
}

type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	// Model が空の場合は generator.DefaultModel が使われる。
	Model string `yaml:"model"`
	// Timeout が 0 の場合は SDK と HTTP サーバーのデフォルトに任せる。
	Timeout time.Duration `yaml:"timeout"`
}

type GeneratorConfig struct {
	CompressInputs     bool `yaml:"compress_inputs"`
	CompressionQuality int  `yaml:"compression_quality"`
}

type OutputConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Dir        string `yaml:"dir"`
	PerRequest bool   `yaml:"per_request"`
}

// Default はデフォルト値で埋めた Config を返します。
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           DefaultAddr,
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
		Generator: GeneratorConfig{
			CompressionQuality: DefaultQuality,
		},
		Output: OutputConfig{
			Enabled:    true,
			Dir:        ".",
			PerRequest: true,
		},
	}
}

// Load は path の YAML と環境変数から設定を読み込みます。path が空ならデフォルト値と環境変数のみを使います。
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

// LoadWithEnv は環境変数の取得関数を差し替えられる Load です。
func LoadWithEnv(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("設定ファイルの解析に失敗しました (%s): %w", path, err)
		}
	}

	cfg.applyEnv(getenv)
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if port := getenv("PORT"); port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	if key := firstNonEmpty(getenv("GOOGLE_AI_KEY"), getenv("GEMINI_API_KEY")); key != "" {
		c.Gemini.APIKey = key
	}
	if model := getenv("GEMINI_MODEL"); model != "" {
		c.Gemini.Model = model
	}
	if dir := getenv("OUTPUT_DIR"); dir != "" {
		c.Output.Dir = dir
	}
}

// Validate は必須項目と値の範囲を検証します。
func (c *Config) Validate() error {
	var errs []error
	if c.Gemini.APIKey == "" {
		errs = append(errs, errors.New("gemini.api_key (GOOGLE_AI_KEY) が未設定です"))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_bytes は正の値である必要があります: %d", c.Server.MaxUploadBytes))
	}
	if q := c.Generator.CompressionQuality; q < 1 || q > 100 {
		errs = append(errs, fmt.Errorf("generator.compression_quality は 1〜100 の範囲で指定してください: %d", q))
	}
	if c.Gemini.Timeout < 0 {
		errs = append(errs, fmt.Errorf("gemini.timeout は負の値にできません: %s", c.Gemini.Timeout))
	}
	return errors.Join(errs...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
