package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Defaults applied by WithDefaults when the corresponding field is unset.
// Engine values mirror the fixed load configuration of the runtime: the
// context window, batch size and sampler chain are not negotiated per call.
const (
	DefaultAddr          = ":8090"
	DefaultCtxWindow     = 2048
	DefaultBatchSize     = 512
	DefaultThreads       = 4
	DefaultTemperature   = 0.8
	DefaultTopK          = 40
	DefaultTopP          = 0.95
	DefaultTokenMargin   = 10
	DefaultMaxTokens     = 256
	DefaultIntentTimeout = 10_000 // ms
	DefaultTitleTimeout  = 15_000 // ms
	DefaultAnswerTimeout = 20_000 // ms
)

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr"`
	ModelPath string `json:"model_path" yaml:"model_path" toml:"model_path"`
	DataDir   string `json:"data_dir" yaml:"data_dir" toml:"data_dir"`

	// Engine load configuration (fixed at startup).
	CtxWindow   int     `json:"ctx_window" yaml:"ctx_window" toml:"ctx_window"`
	BatchSize   int     `json:"batch_size" yaml:"batch_size" toml:"batch_size"`
	Threads     int     `json:"threads" yaml:"threads" toml:"threads"`
	Temperature float64 `json:"temperature" yaml:"temperature" toml:"temperature"`
	TopK        int     `json:"top_k" yaml:"top_k" toml:"top_k"`
	TopP        float64 `json:"top_p" yaml:"top_p" toml:"top_p"`
	Seed        int     `json:"seed" yaml:"seed" toml:"seed"`
	// Headroom subtracted from the context window when clamping a request's
	// token budget. Tunable; the default leaves room for BOS/EOS and
	// estimator error.
	TokenMargin int `json:"token_margin" yaml:"token_margin" toml:"token_margin"`
	MaxTokens   int `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`

	// Per-call generation deadlines in milliseconds.
	IntentTimeoutMS int `json:"intent_timeout_ms" yaml:"intent_timeout_ms" toml:"intent_timeout_ms"`
	TitleTimeoutMS  int `json:"title_timeout_ms" yaml:"title_timeout_ms" toml:"title_timeout_ms"`
	AnswerTimeoutMS int `json:"answer_timeout_ms" yaml:"answer_timeout_ms" toml:"answer_timeout_ms"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// WithDefaults returns a copy with unset fields replaced by package defaults.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.DataDir == "" {
		c.DataDir = "~/.questd"
	}
	if c.CtxWindow <= 0 {
		c.CtxWindow = DefaultCtxWindow
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Threads <= 0 {
		c.Threads = DefaultThreads
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.TopP <= 0 {
		c.TopP = DefaultTopP
	}
	if c.TokenMargin <= 0 {
		c.TokenMargin = DefaultTokenMargin
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.IntentTimeoutMS <= 0 {
		c.IntentTimeoutMS = DefaultIntentTimeout
	}
	if c.TitleTimeoutMS <= 0 {
		c.TitleTimeoutMS = DefaultTitleTimeout
	}
	if c.AnswerTimeoutMS <= 0 {
		c.AnswerTimeoutMS = DefaultAnswerTimeout
	}
	return c
}
