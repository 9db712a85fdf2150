package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	if cfg.Map.Width != 3.6 || cfg.Map.Height != 1.8 {
		t.Errorf("expected 3.6x1.8 plane, got %gx%g", cfg.Map.Width, cfg.Map.Height)
	}
	if cfg.Map.ZoomDuration != 2500*time.Millisecond {
		t.Errorf("expected zoom duration 2.5s, got %v", cfg.Map.ZoomDuration)
	}
	if cfg.Map.ZoomedScale != 10 || cfg.Map.MaxZoom != 10 {
		t.Errorf("expected zoomed/max scale 10, got %g/%g", cfg.Map.ZoomedScale, cfg.Map.MaxZoom)
	}

	if cfg.Markers.FalloffExponent != 15 {
		t.Errorf("expected falloff exponent 15, got %g", cfg.Markers.FalloffExponent)
	}
	if cfg.Cursor.Magnetization != 0.9 {
		t.Errorf("expected magnetization 0.9, got %g", cfg.Cursor.Magnetization)
	}
	if cfg.Interaction.SelectedHover != HoverInteractive {
		t.Errorf("expected interactive hover policy, got %s", cfg.Interaction.SelectedHover)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestMergeFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

map:
  zoom_duration: 1200ms
  zoomed_scale: 6

markers:
  reveal_duration: 2s

interaction:
  selected_hover: suppressed

data:
  markers_feed: "https://example.com/markers.json"
  heightmap: "img/world_height.jpg"

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := cfg.mergeFile(configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Map.ZoomDuration != 1200*time.Millisecond {
		t.Errorf("expected zoom duration 1.2s, got %v", cfg.Map.ZoomDuration)
	}
	if cfg.Map.ZoomedScale != 6 {
		t.Errorf("expected zoomed scale 6, got %g", cfg.Map.ZoomedScale)
	}
	// Untouched keys keep their defaults.
	if cfg.Map.MaxZoom != 10 {
		t.Errorf("expected max zoom default 10, got %g", cfg.Map.MaxZoom)
	}
	if cfg.Markers.RevealDuration != 2*time.Second {
		t.Errorf("expected reveal duration 2s, got %v", cfg.Markers.RevealDuration)
	}
	if cfg.Interaction.SelectedHover != HoverSuppressed {
		t.Errorf("expected suppressed hover policy, got %s", cfg.Interaction.SelectedHover)
	}
	if cfg.Data.MarkersFeed != "https://example.com/markers.json" {
		t.Errorf("unexpected markers feed %s", cfg.Data.MarkersFeed)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestMergeFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := cfg.mergeFile(configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestMergeFileMissing(t *testing.T) {
	cfg := Default()
	if err := cfg.mergeFile("/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero window", func(c *Config) { c.Graphics.Width = 0 }, true},
		{"max zoom below one", func(c *Config) { c.Map.MaxZoom = 0.5 }, true},
		{"non-positive min scale", func(c *Config) { c.Map.MinScale = 0 }, true},
		{"magnetization above one", func(c *Config) { c.Cursor.Magnetization = 1.2 }, true},
		{"unknown hover policy", func(c *Config) { c.Interaction.SelectedHover = "sometimes" }, true},
		{"suppressed hover policy", func(c *Config) { c.Interaction.SelectedHover = HoverSuppressed }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Map.ZoomedScale = 4
	cfg.Data.Heightmap = "height.png"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loaded.mergeFile(path); err != nil {
		t.Fatalf("mergeFile: %v", err)
	}
	if loaded.Map.ZoomedScale != 4 {
		t.Errorf("expected zoomed scale 4, got %g", loaded.Map.ZoomedScale)
	}
	if loaded.Map.ZoomDuration != cfg.Map.ZoomDuration {
		t.Errorf("zoom duration %v did not survive, got %v", cfg.Map.ZoomDuration, loaded.Map.ZoomDuration)
	}
	if loaded.Data.Heightmap != "height.png" {
		t.Errorf("expected heightmap height.png, got %s", loaded.Data.Heightmap)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "data flags",
			setup: func() {
				*flagMarkers = "feed.json"
				*flagHeightmap = "relief.webp"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Data.MarkersFeed != "feed.json" {
					t.Errorf("expected feed.json, got %s", cfg.Data.MarkersFeed)
				}
				if cfg.Data.Heightmap != "relief.webp" {
					t.Errorf("expected relief.webp, got %s", cfg.Data.Heightmap)
				}
			},
			teardown: func() {
				*flagMarkers = ""
				*flagHeightmap = ""
			},
		},
		{
			name:  "hover policy flag",
			setup: func() { *flagHoverPolicy = HoverSuppressed },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Interaction.SelectedHover != HoverSuppressed {
					t.Errorf("expected suppressed, got %s", cfg.Interaction.SelectedHover)
				}
			},
			teardown: func() { *flagHoverPolicy = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("map:\n  min_scale: -1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected validation error for negative min_scale")
	}
}

func TestMergeFileRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("map:\n  zoom_duraton: 1s\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := cfg.mergeFile(configPath); err == nil {
		t.Error("expected error for misspelt key")
	}
}

func TestMergeFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := cfg.mergeFile(configPath); err != nil {
		t.Fatalf("empty file should keep defaults: %v", err)
	}
	if cfg.Graphics.Width != Default().Graphics.Width {
		t.Errorf("expected default width, got %d", cfg.Graphics.Width)
	}
}

func TestLoadFromEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(configPath, []byte("map:\n  zoomed_scale: 7\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv(EnvConfig, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Map.ZoomedScale != 7 {
		t.Errorf("expected zoomed scale 7 from %s, got %g", EnvConfig, cfg.Map.ZoomedScale)
	}
}
