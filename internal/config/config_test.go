package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/subtrack/internal/model"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.General.ForecastMonths != 6 || cfg.Sort != model.DefaultSort() {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	budget := 80.0
	cfg.Budget.Monthly = &budget
	cfg.Sort = model.SortSettings{Field: model.SortByAmount, Direction: model.SortDesc}
	cfg.General.CurrencySymbol = "€"

	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Budget.Monthly == nil || *got.Budget.Monthly != 80 {
		t.Fatalf("Budget = %v", got.Budget.Monthly)
	}
	if got.Sort != cfg.Sort || got.General.CurrencySymbol != "€" {
		t.Fatalf("loaded = %+v", got)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[general]\nforecast_months = 40\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for forecast_months = 40")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvDB, "/tmp/custom.db")
	t.Setenv(EnvTheme, "tokyo-night")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath() != "/tmp/custom.db" {
		t.Fatalf("DBPath = %s", cfg.DBPath())
	}
	if cfg.Appearance.Theme != "tokyo-night" {
		t.Fatalf("Theme = %s", cfg.Appearance.Theme)
	}
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Set("sort.field", "due"); err != nil {
		t.Fatal(err)
	}
	if cfg.Sort.Field != model.SortByDate {
		t.Fatalf("Sort.Field = %s", cfg.Sort.Field)
	}
	if err := cfg.Set("server.poll_interval", "1m"); err != nil {
		t.Fatal(err)
	}
	if d, _ := cfg.PollInterval(); d != time.Minute {
		t.Fatalf("PollInterval = %v", d)
	}
	if err := cfg.Set("budget.monthly", "none"); err != nil || cfg.Budget.Monthly != nil {
		t.Fatalf("clear budget: %v, %v", err, cfg.Budget.Monthly)
	}
	if err := cfg.Set("sort.direction", "sideways"); err == nil {
		t.Fatal("expected error for bad direction")
	}
	if err := cfg.Set("nope", "x"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}
