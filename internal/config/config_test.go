package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("CTR_FALLBACK", "")
	t.Setenv("TARGET_RANK", "")

	cfg := Load()

	if cfg.ServerAddr != ":3000" {
		t.Errorf("ServerAddr = %q, want %q", cfg.ServerAddr, ":3000")
	}
	if cfg.CTRFallback != 0.001 {
		t.Errorf("CTRFallback = %v, want 0.001", cfg.CTRFallback)
	}
	if cfg.TargetRank != 3 {
		t.Errorf("TargetRank = %d, want 3", cfg.TargetRank)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CTR_FALLBACK", "0.01")
	t.Setenv("RATE_LIMIT_MAX", "250")
	t.Setenv("CATEGORY_REFRESH_INTERVAL", "1m")
	t.Setenv("TARGET_RANK", "not-a-number")

	cfg := Load()

	if cfg.CTRFallback != 0.01 {
		t.Errorf("CTRFallback = %v, want 0.01", cfg.CTRFallback)
	}
	if cfg.RateLimitMax != 250 {
		t.Errorf("RateLimitMax = %d, want 250", cfg.RateLimitMax)
	}
	if cfg.CategoryRefreshInterval != time.Minute {
		t.Errorf("CategoryRefreshInterval = %v, want 1m", cfg.CategoryRefreshInterval)
	}
	if cfg.TargetRank != 3 {
		t.Errorf("invalid TARGET_RANK should fall back to 3, got %d", cfg.TargetRank)
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSOrigins: "https://a.example.com, https://b.example.com,,"}
	got := cfg.AllowedOrigins()

	if len(got) != 2 || got[0] != "https://a.example.com" || got[1] != "https://b.example.com" {
		t.Errorf("AllowedOrigins() = %v", got)
	}
}

func TestIsAuthConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"nothing", Config{}, false},
		{"static token", Config{APIToken: "secret"}, true},
		{"oidc", Config{OIDCIssuer: "https://issuer.example.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsAuthConfigured(); got != tt.want {
				t.Errorf("IsAuthConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadYAMLConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
categories:
  - id: roofing
    name: Roofing
    avg_job_value: 9000
    conversion_rate: 0.02
  - id: dental
    name: Dental
    icon: smile
    avg_job_value: 800
    conversion_rate: 0.03
estimates:
  ctr_fallback: 0.01
  target_rank: 1
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	yc, err := LoadYAMLConfigFile(path)
	if err != nil {
		t.Fatalf("LoadYAMLConfigFile() error = %v", err)
	}

	cats := yc.GetCategories()
	if len(cats) != 2 {
		t.Fatalf("len(categories) = %d, want 2", len(cats))
	}
	if cats[0].Icon != "briefcase" {
		t.Errorf("default icon = %q, want briefcase", cats[0].Icon)
	}
	if cats[1].AvgJobValue != 800 {
		t.Errorf("AvgJobValue = %v, want 800", cats[1].AvgJobValue)
	}

	cfg := &Config{CTRFallback: 0.001, TargetRank: 3, DefaultAvgJobValue: 250}
	yc.ApplyTo(cfg)
	if cfg.CTRFallback != 0.01 || cfg.TargetRank != 1 || cfg.DefaultAvgJobValue != 250 {
		t.Errorf("ApplyTo() = %+v", cfg)
	}
}

func TestLoadYAMLConfigFile_Missing(t *testing.T) {
	yc, err := LoadYAMLConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil || yc != nil {
		t.Errorf("LoadYAMLConfigFile(missing) = %v, %v; want nil, nil", yc, err)
	}

	var nilCfg *YAMLConfig
	if nilCfg.GetCategories() != nil {
		t.Error("nil config should have no categories")
	}
}
