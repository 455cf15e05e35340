package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test decode defaults
	if cfg.Decode.MaxFaces != 1<<22 {
		t.Errorf("expected max faces %d, got %d", 1<<22, cfg.Decode.MaxFaces)
	}
	if cfg.Decode.MaxPoints != 1<<22 {
		t.Errorf("expected max points %d, got %d", 1<<22, cfg.Decode.MaxPoints)
	}
	if cfg.Decode.MaxComponents != 16 {
		t.Errorf("expected max components 16, got %d", cfg.Decode.MaxComponents)
	}

	// Test output defaults
	if cfg.Output.Format != "text" {
		t.Errorf("expected format 'text', got %s", cfg.Output.Format)
	}
	if cfg.Output.Rows != 20 {
		t.Errorf("expected 20 rows, got %d", cfg.Output.Rows)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDecodeLimits(t *testing.T) {
	d := DecodeConfig{MaxFaces: 10, MaxPoints: 20, MaxComponents: 3}
	limits := d.Limits()
	if limits.MaxFaces != 10 || limits.MaxPoints != 20 || limits.MaxComponents != 3 {
		t.Errorf("unexpected limits %+v", limits)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
decode:
  max_faces: 1000
  max_points: 500
  max_components: 4

output:
  format: yaml
  rows: 0

logging:
  level: "debug"
  log_file: "dracotool.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Decode.MaxFaces != 1000 {
		t.Errorf("expected max faces 1000, got %d", cfg.Decode.MaxFaces)
	}
	if cfg.Decode.MaxPoints != 500 {
		t.Errorf("expected max points 500, got %d", cfg.Decode.MaxPoints)
	}
	if cfg.Decode.MaxComponents != 4 {
		t.Errorf("expected max components 4, got %d", cfg.Decode.MaxComponents)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("expected format yaml, got %s", cfg.Output.Format)
	}
	if cfg.Output.Rows != 0 {
		t.Errorf("expected 0 rows, got %d", cfg.Output.Rows)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "dracotool.log" {
		t.Errorf("expected log file 'dracotool.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	if err := os.WriteFile(configPath, []byte("decode:\n  max_faces: 7\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Decode.MaxFaces != 7 {
		t.Errorf("expected max faces 7, got %d", cfg.Decode.MaxFaces)
	}
	// Untouched keys keep their defaults
	if cfg.Decode.MaxPoints != 1<<22 {
		t.Errorf("expected default max points, got %d", cfg.Decode.MaxPoints)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected default format, got %s", cfg.Output.Format)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
decode:
  max_faces: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/dracotool.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "json"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "json") {
		t.Errorf("expected unknown format error, got %v", err)
	}

	cfg = Default()
	cfg.Decode.MaxPoints = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative limit")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !strings.HasSuffix(dir, "dracotool") {
		t.Errorf("ConfigDir should end in dracotool, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	// No config file exists - should return empty
	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte("output:\n  format: yaml\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", FileName)

	cfg := Default()
	cfg.Decode.MaxFaces = 42
	cfg.Output.Format = "yaml"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Decode.MaxFaces != 42 {
		t.Errorf("expected max faces 42, got %d", loaded.Decode.MaxFaces)
	}
	if loaded.Output.Format != "yaml" {
		t.Errorf("expected format yaml, got %s", loaded.Output.Format)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "log file flag",
			setup: func() {
				*flagLogFile = "out.log"
			},
			verify: func(cfg *Config) {
				if cfg.Logging.LogFile != "out.log" {
					t.Errorf("expected log file out.log, got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() {
				*flagLogFile = ""
			},
		},
		{
			name: "format flag",
			setup: func() {
				*flagFormat = "yaml"
			},
			verify: func(cfg *Config) {
				if cfg.Output.Format != "yaml" {
					t.Errorf("expected format yaml, got %s", cfg.Output.Format)
				}
			},
			teardown: func() {
				*flagFormat = ""
			},
		},
		{
			name: "rows flag",
			setup: func() {
				*flagRows = 0
			},
			verify: func(cfg *Config) {
				if cfg.Output.Rows != 0 {
					t.Errorf("expected 0 rows, got %d", cfg.Output.Rows)
				}
			},
			teardown: func() {
				*flagRows = -1
			},
		},
		{
			name: "limit flags",
			setup: func() {
				*flagMaxFaces = 100
				*flagMaxPoints = 50
			},
			verify: func(cfg *Config) {
				if cfg.Decode.MaxFaces != 100 {
					t.Errorf("expected max faces 100, got %d", cfg.Decode.MaxFaces)
				}
				if cfg.Decode.MaxPoints != 50 {
					t.Errorf("expected max points 50, got %d", cfg.Decode.MaxPoints)
				}
			},
			teardown: func() {
				*flagMaxFaces = 0
				*flagMaxPoints = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
decode:
  max_faces: 1600
  max_points: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagMaxFaces = 1920
	defer func() {
		*flagConfig = ""
		*flagMaxFaces = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Faces come from the flag, not the file
	if cfg.Decode.MaxFaces != 1920 {
		t.Errorf("expected max faces 1920 from flag, got %d", cfg.Decode.MaxFaces)
	}
	// Points come from the file since no flag overrides them
	if cfg.Decode.MaxPoints != 900 {
		t.Errorf("expected max points 900 from file, got %d", cfg.Decode.MaxPoints)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("output:\n  format: xml\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected validation error for xml format")
	}
}
