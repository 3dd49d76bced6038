package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nmodel_path: /m/model.gguf\nctx_window: 1024\nthreads: 2\nmax_tokens: 64\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.ModelPath != "/m/model.gguf" || cfg.CtxWindow != 1024 || cfg.Threads != 2 || cfg.MaxTokens != 64 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","model_path":"/m/model.gguf","temperature":0.5,"top_k":20,"intent_timeout_ms":5000}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.ModelPath != "/m/model.gguf" || cfg.Temperature != 0.5 || cfg.TopK != 20 || cfg.IntentTimeoutMS != 5000 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nmodel_path=\"/x/model.gguf\"\nbatch_size=256\ntoken_margin=16\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.ModelPath != "/x/model.gguf" || cfg.BatchSize != 256 || cfg.TokenMargin != 16 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	if _, err := Load("/nonexistent/cfg.yaml"); err == nil {
		t.Fatalf("expected error on missing file")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.ini", "addr=:1\n")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error on unsupported extension")
	}
	bad := writeTempFile(t, d, "bad.json", "{not json")
	if _, err := Load(bad); err == nil {
		t.Fatalf("expected error on invalid JSON")
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if cfg.Addr != DefaultAddr {
		t.Fatalf("addr: %s", cfg.Addr)
	}
	if cfg.DataDir != "~/.questd" {
		t.Fatalf("data dir: %s", cfg.DataDir)
	}
	if cfg.CtxWindow != DefaultCtxWindow || cfg.BatchSize != DefaultBatchSize || cfg.Threads != DefaultThreads {
		t.Fatalf("engine defaults: %+v", cfg)
	}
	if cfg.Temperature != DefaultTemperature || cfg.TopK != DefaultTopK || cfg.TopP != DefaultTopP {
		t.Fatalf("sampler defaults: %+v", cfg)
	}
	if cfg.TokenMargin != DefaultTokenMargin || cfg.MaxTokens != DefaultMaxTokens {
		t.Fatalf("budget defaults: %+v", cfg)
	}
	if cfg.IntentTimeoutMS != DefaultIntentTimeout || cfg.TitleTimeoutMS != DefaultTitleTimeout || cfg.AnswerTimeoutMS != DefaultAnswerTimeout {
		t.Fatalf("timeout defaults: %+v", cfg)
	}
}

func TestWithDefaultsKeepsSetValues(t *testing.T) {
	in := Config{Addr: ":1234", CtxWindow: 4096, Threads: 8, Seed: 42}
	cfg := in.WithDefaults()
	if cfg.Addr != ":1234" || cfg.CtxWindow != 4096 || cfg.Threads != 8 {
		t.Fatalf("set values overwritten: %+v", cfg)
	}
	if cfg.Seed != 42 {
		t.Fatalf("seed overwritten: %+v", cfg)
	}
}
