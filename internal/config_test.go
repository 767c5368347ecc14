package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/dailyfolder/internal/models"
	"github.com/starford/dailyfolder/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDailyConfig_TrimsRoot(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Daily.Root = "dailies/"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Daily.Root != "dailies" {
		t.Errorf("root = %q, want dailies", cfg.Daily.Root)
	}
}

func TestDailyConfig_InvalidTemplate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Daily.TemplatePath = "templates/daily.txt"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("template without .md should fail")
	}
	if !strings.Contains(err.Error(), "daily:") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDailyConfig_NestedRoot(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Daily.Root = "journal/daily/"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("nested root should fail")
	}
	if !strings.Contains(err.Error(), "root") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDailyConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Daily.Format != "YYYYMMDD" || !cfg.Daily.DescriptionEnabled {
		t.Errorf("defaults = %+v", cfg.Daily.Settings)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	t.Setenv("DAILY_ROOT", "journal")
	content := `app:
  log_level: debug
  http:
    port: 9090
vault:
  path: ./vault
sqlite:
  path: ./df.db
daily:
  format: YYYY-MM-DD
  root: ${DAILY_ROOT}/
  template: templates/daily.md
  description_enabled: false
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := config.Load(file, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Port != 9090 || cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("app = %+v", cfg.App)
	}
	want := models.Settings{Format: "YYYY-MM-DD", Root: "journal", TemplatePath: "templates/daily.md"}
	if cfg.Daily.Settings != want {
		t.Errorf("daily = %+v, want %+v", cfg.Daily.Settings, want)
	}
}
