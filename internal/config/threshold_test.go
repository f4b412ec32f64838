package config

import (
	"errors"
	"testing"
	"time"
)

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		raw         string
		want        time.Duration
		wantEnabled bool
		wantErr     bool
	}{
		{"", 0, false, false},
		{"  ", 0, false, false},
		{"false", 0, false, false},
		{"disabled", 0, false, false},
		{"3600000", time.Hour, true, false},
		{"0", 0, true, false},
		{"604800000", 7 * 24 * time.Hour, true, false},
		{"90m", 90 * time.Minute, true, false},
		{"7d", 7 * 24 * time.Hour, true, false},
		{"7 days", 7 * 24 * time.Hour, true, false},
		{"2w", 14 * 24 * time.Hour, true, false},
		{"1 hour", time.Hour, true, false},
		{"1.5h", 90 * time.Minute, true, false},
		{"1h30m", 90 * time.Minute, true, false},
		{"500ms", 500 * time.Millisecond, true, false},
		{"-5", 0, false, true},
		{"soon", 0, false, true},
		{"3 fortnights", 0, false, true},
		{"-1h", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseThreshold(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseThreshold(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidThreshold) {
				t.Errorf("ParseThreshold(%q) error = %v, want ErrInvalidThreshold", tt.raw, err)
			}
			d, enabled := got.Get()
			if enabled != tt.wantEnabled {
				t.Errorf("ParseThreshold(%q) enabled = %v, want %v", tt.raw, enabled, tt.wantEnabled)
			}
			if d != tt.want {
				t.Errorf("ParseThreshold(%q) = %v, want %v", tt.raw, d, tt.want)
			}
		})
	}
}

func TestThresholdString(t *testing.T) {
	tests := []struct {
		threshold Threshold
		want      string
	}{
		{Disabled(), "disabled"},
		{Enabled(7 * 24 * time.Hour), "7 days"},
		{Enabled(36 * time.Hour), "2 days"},
		{Enabled(time.Hour), "1 hour"},
		{Enabled(10 * time.Minute), "10 minutes"},
		{Enabled(1500 * time.Millisecond), "2 seconds"},
		{Enabled(250 * time.Millisecond), "250 ms"},
	}

	for _, tt := range tests {
		if got := tt.threshold.String(); got != tt.want {
			t.Errorf("Threshold.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestPrefilterConfig_Thresholds(t *testing.T) {
	p := PrefilterConfig{ExcludeOlder: "2w", ExcludeRecentSearch: "whenever"}

	older, recent, err := p.Thresholds()
	if err == nil {
		t.Fatal("Thresholds() error = nil, want error for malformed exclude_recent_search")
	}
	if d, ok := older.Get(); !ok || d != 14*24*time.Hour {
		t.Errorf("excludeOlder = %v (enabled %v), want 336h enabled", d, ok)
	}
	if recent.IsEnabled() {
		t.Error("malformed excludeRecentSearch should resolve to disabled")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CROSSMATCH_PREFILTER_EXCLUDE_OLDER", "604800000")
	t.Setenv("CROSSMATCH_PREFILTER_INCLUDE_EPISODES", "true")
	t.Setenv("CROSSMATCH_DATABASE_PATH", "/tmp/x.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Prefilter.ExcludeOlder != "604800000" {
		t.Errorf("ExcludeOlder = %q, want %q", cfg.Prefilter.ExcludeOlder, "604800000")
	}
	if !cfg.Prefilter.IncludeEpisodes {
		t.Error("IncludeEpisodes = false, want true")
	}
	if cfg.Database.Path != "/tmp/x.db" {
		t.Errorf("Database.Path = %q, want /tmp/x.db", cfg.Database.Path)
	}
	if cfg.Prefilter.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Prefilter.Concurrency)
	}
	if cfg.Server.Address() != "127.0.0.1:2468" {
		t.Errorf("Address() = %q", cfg.Server.Address())
	}
}
