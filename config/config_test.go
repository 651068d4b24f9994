package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	LLM           struct {
		APIKey  string        `mapstructure:"api_key"`
		Model   string        `mapstructure:"model"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"llm"`
	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development with debug", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" || !cfg.Debug {
			t.Errorf("unexpected defaults: env=%q debug=%v", cfg.Environment, cfg.Debug)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug logging in development, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug off", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if !cfg.IsProduction() {
			t.Error("expected IsProduction")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info logging, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"bad environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: lyrebird
environment: staging
llm:
  model: gpt-4o
  timeout: 90s
server:
  port: 8000
`)
	var cfg testConfig
	if err := LoadConfig("lyrebird", &cfg, WithConfigFile(path), WithEnvFile(filepath.Join(dir, "missing.env"))); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "lyrebird" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.LLM.Model != "gpt-4o" || cfg.LLM.Timeout != 90*time.Second {
		t.Errorf("unexpected llm config %+v", cfg.LLM)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestLoadConfig_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: lyrebird\nllm:\n  model: gpt-4o\nserver:\n  port: 8000\n")
	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	t.Setenv("SERVER_PORT", "9000")

	var cfg testConfig
	if err := LoadConfig("lyrebird", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected env override, got %q", cfg.LLM.Model)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected env port 9000, got %d", cfg.Server.Port)
	}
}

func TestLoadConfig_Aliases(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: lyrebird\n")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	var cfg testConfig
	err := LoadConfig("lyrebird", &cfg,
		WithConfigFile(path),
		WithEnvAliases(map[string]string{"OPENAI_API_KEY": "llm.api_key"}),
	)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("expected aliased api key, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: lyrebird\n")
	envPath := writeFile(t, dir, ".env", "LLM_API_KEY=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("LLM_API_KEY") })

	var cfg testConfig
	if err := LoadConfig("lyrebird", &cfg, WithConfigFile(path), WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.APIKey != "from-dotenv" {
		t.Errorf("expected key from .env, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadConfig_MissingFileIsNotAnError(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig("nonexistent", &cfg, WithConfigFile("/nonexistent/config.yml")); err != nil {
		t.Fatalf("expected success with missing file, got %v", err)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestResolver_SearchOrder(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/lyrebird/config.yml": true,
		"./config.yml":              true,
		"./.env":                    true,
	}}
	r := &Resolver{FileSystem: fs}
	files := r.ResolveFiles("lyrebird", LoaderConfig{})
	if files.ConfigFile != "./cmd/lyrebird/config.yml" {
		t.Errorf("expected cmd config first, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected ./.env, got %q", files.EnvFile)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("AUTH_JWT_SECRET")
	want := map[string]bool{"auth_jwt_secret": true, "auth.jwt.secret": true, "auth.jwt_secret": true}
	for _, v := range got {
		delete(want, v)
	}
	if len(want) != 0 {
		t.Errorf("missing variants %v in %v", want, got)
	}
}
