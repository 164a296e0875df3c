package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "transcribe"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if cfg.Logging.ServiceName != "transcribe" {
			t.Errorf("logging service name = %q", cfg.Logging.ServiceName)
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("logging level = %q, want info", cfg.Logging.Level)
		}
	})

	t.Run("debug lowers the log level", func(t *testing.T) {
		cfg := ServiceConfig{Name: "transcribe", Debug: true}
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "debug" {
			t.Errorf("logging level = %q, want debug", cfg.Logging.Level)
		}
	})

	t.Run("explicit level wins over debug", func(t *testing.T) {
		cfg := ServiceConfig{Name: "transcribe", Debug: true}
		cfg.Logging.Level = "warn"
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "warn" {
			t.Errorf("logging level = %q, want warn", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: "development"}, ""},
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

type pollSection struct {
	MaxAttempts int             `mapstructure:"max_attempts"`
	Schedule    []time.Duration `mapstructure:"schedule"`
	MaxJitter   time.Duration   `mapstructure:"max_jitter"`
}

type testConfig struct {
	ServiceConfig `mapstructure:",squash"`
	API           struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"api"`
	Polling pollSection `mapstructure:"polling"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadConfigWithYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: transcribe
environment: staging
api:
  base_url: https://api.example.com
  timeout: 12s
polling:
  max_attempts: 30
  schedule: [250ms, 1s]
  max_jitter: 100ms
`)

	var cfg testConfig
	if err := LoadConfig("transcribe", &cfg, WithConfigFile(path), WithEnvPrefix("TKTEST_YAML")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "transcribe" || cfg.Environment != "staging" {
		t.Errorf("service = %q/%q", cfg.Name, cfg.Environment)
	}
	if cfg.API.BaseURL != "https://api.example.com" || cfg.API.Timeout != 12*time.Second {
		t.Errorf("api = %+v", cfg.API)
	}
	want := []time.Duration{250 * time.Millisecond, time.Second}
	if cfg.Polling.MaxAttempts != 30 || !slices.Equal(cfg.Polling.Schedule, want) || cfg.Polling.MaxJitter != 100*time.Millisecond {
		t.Errorf("polling = %+v", cfg.Polling)
	}
}

func TestLoadConfigEnvOverridesYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: transcribe
polling:
  max_attempts: 30
`)
	t.Setenv("TKTEST_ENV_POLLING_MAX_ATTEMPTS", "7")
	t.Setenv("TKTEST_ENV_API_BASE_URL", "http://localhost:8080")
	t.Setenv("OTHER_API_BASE_URL", "http://ignored")

	var cfg testConfig
	if err := LoadConfig("transcribe", &cfg, WithConfigFile(path), WithEnvPrefix("TKTEST_ENV")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Polling.MaxAttempts != 7 {
		t.Errorf("max_attempts = %d, want 7", cfg.Polling.MaxAttempts)
	}
	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Errorf("base_url = %q", cfg.API.BaseURL)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: transcribe\n")
	envPath := writeFile(t, dir, ".env", "TKTEST_DOT_API_TIMEOUT=3s\n")

	// register cleanup, then leave the variable unset for godotenv
	t.Setenv("TKTEST_DOT_API_TIMEOUT", "")
	os.Unsetenv("TKTEST_DOT_API_TIMEOUT")

	var cfg testConfig
	err := LoadConfig("transcribe", &cfg, WithConfigFile(path), WithEnvFile(envPath), WithEnvPrefix("TKTEST_DOT"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", cfg.API.Timeout)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yml", "name: [unterminated\n")

	tests := []struct {
		name string
		opts []LoaderOption
	}{
		{"missing explicit file", []LoaderOption{WithConfigFile(filepath.Join(dir, "nope.yml"))}},
		{"missing explicit env file", []LoaderOption{WithEnvFile(filepath.Join(dir, ".env.nope"))}},
		{"malformed yaml", []LoaderOption{WithConfigFile(bad)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg testConfig
			if err := LoadConfig("transcribe", &cfg, tt.opts...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

type mockFS struct {
	files     map[string]bool
	configDir string
}

func (m *mockFS) Exists(path string) bool        { return m.files[path] }
func (m *mockFS) LoadEnv(string) error           { return nil }
func (m *mockFS) UserConfigDir() (string, error) { return m.configDir, nil }

func TestResolverSearchOrder(t *testing.T) {
	tests := []struct {
		name       string
		files      []string
		wantConfig string
		wantEnv    string
	}{
		{"nothing found", nil, "", ""},
		{"service file wins", []string{"./transcribe.yml", "./config.yml"}, "./transcribe.yml", ""},
		{"cmd dir", []string{"./cmd/transcribe/config.yml"}, "./cmd/transcribe/config.yml", ""},
		{"user config dir", []string{"/home/u/.config/transcribe/config.yml"}, "/home/u/.config/transcribe/config.yml", ""},
		{"service env wins", []string{".env", ".env.transcribe"}, "", ".env.transcribe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &mockFS{files: map[string]bool{}, configDir: "/home/u/.config"}
			for _, f := range tt.files {
				fs.files[f] = true
			}
			got := (&Resolver{FileSystem: fs}).ResolveFiles("transcribe", LoaderConfig{})
			if got.ConfigFile != tt.wantConfig || got.EnvFile != tt.wantEnv {
				t.Errorf("resolved %+v, want config=%q env=%q", got, tt.wantConfig, tt.wantEnv)
			}
		})
	}
}

func TestResolverExplicitPaths(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config.yml": true}}
	got := (&Resolver{FileSystem: fs}).ResolveFiles("transcribe", LoaderConfig{ConfigFile: "/etc/t.yml", EnvFile: "/etc/t.env"})
	if got.ConfigFile != "/etc/t.yml" || got.EnvFile != "/etc/t.env" {
		t.Errorf("resolved %+v", got)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("POLLING_MAX_ATTEMPTS")
	for _, want := range []string{"polling_max_attempts", "polling.max_attempts", "polling.max.attempts"} {
		if !slices.Contains(got, want) {
			t.Errorf("variants %v missing %q", got, want)
		}
	}
	if got := generateEnvKeyVariants("DEBUG"); !slices.Equal(got, []string{"debug"}) {
		t.Errorf("single word variants = %v", got)
	}
}

func TestEnvPrefix(t *testing.T) {
	if got := envPrefix("transcribe-cli"); got != "TRANSCRIBE_CLI" {
		t.Errorf("envPrefix = %q", got)
	}
}
