package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if cfg.Grid.Width != 40 || cfg.Grid.Height != 25 {
		t.Errorf("expected 40x25 grid, got %dx%d", cfg.Grid.Width, cfg.Grid.Height)
	}

	if cfg.Grid.EntranceRow != -1 || cfg.Grid.ExitRow != -1 {
		t.Error("expected anchor rows to be drawn from the seed by default")
	}

	if len(cfg.Server.WebSocket.AllowedOrigins) != 0 {
		t.Errorf("expected empty allowed origins by default, got %v", cfg.Server.WebSocket.AllowedOrigins)
	}

	if cfg.Archive.Driver != "sqlite" {
		t.Errorf("expected sqlite driver by default, got %s", cfg.Archive.Driver)
	}
}

func TestDefaultConfigNeedsNoClamping(t *testing.T) {
	cfg := DefaultConfig()
	if notes := cfg.Clamp(); len(notes) != 0 {
		t.Errorf("defaults should already be in range, got %v", notes)
	}
}

func TestDefaultMinRunFitsCarvedShafts(t *testing.T) {
	cfg := DefaultConfig()
	narrowest := min(cfg.Corridor.Width, cfg.Walk.BrushSize)
	if cfg.Platforms.MinRun > narrowest {
		t.Errorf("MinRun = %d, wider than the %d-wide shafts corridors and walks carve",
			cfg.Platforms.MinRun, narrowest)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/roomforge.yaml")

	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}

	if cfg.Rooms.TargetCount != 6 {
		t.Errorf("expected default target count 6, got %d", cfg.Rooms.TargetCount)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "roomforge.yaml")

	content := `
grid:
  width: 60
  height: 30
rooms:
  target_count: 4
jump:
  double_jump: true
server:
  websocket:
    allowed_origins:
      - "https://example.com"
    max_message_size: 8192
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Grid.Width != 60 || cfg.Grid.Height != 30 {
		t.Errorf("expected 60x30 grid, got %dx%d", cfg.Grid.Width, cfg.Grid.Height)
	}

	if cfg.Rooms.TargetCount != 4 {
		t.Errorf("expected target count 4, got %d", cfg.Rooms.TargetCount)
	}

	// Unspecified values keep their defaults
	if cfg.Corridor.Width != 2 {
		t.Errorf("expected default corridor width 2, got %d", cfg.Corridor.Width)
	}

	if !cfg.Jump.DoubleJump {
		t.Error("expected double jump enabled")
	}

	if cfg.Server.WebSocket.MaxMessageSize != 8192 {
		t.Errorf("expected max message size 8192, got %d", cfg.Server.WebSocket.MaxMessageSize)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "broken.yaml")

	if err := os.WriteFile(configPath, []byte("grid: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
	if cfg == nil {
		t.Fatal("expected defaults alongside the error")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ROOMFORGE_DB_DRIVER", "postgres")
	t.Setenv("ROOMFORGE_PG_HOST", "db.internal")
	t.Setenv("ROOMFORGE_PG_PORT", "6543")
	t.Setenv("ROOMFORGE_SQLITE_PATH", "/tmp/rooms.db")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Archive.Driver != "postgres" {
		t.Errorf("Driver = %s, want postgres", cfg.Archive.Driver)
	}
	if cfg.Archive.Postgres.Host != "db.internal" {
		t.Errorf("Host = %s, want db.internal", cfg.Archive.Postgres.Host)
	}
	if cfg.Archive.Postgres.Port != 6543 {
		t.Errorf("Port = %d, want 6543", cfg.Archive.Postgres.Port)
	}
	if cfg.Archive.SQLitePath != "/tmp/rooms.db" {
		t.Errorf("SQLitePath = %s", cfg.Archive.SQLitePath)
	}
}

func TestClampOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.Width = 3
	cfg.Partition.SplitRatioMin = 0.6
	cfg.Partition.SplitRatioMax = 0.2
	cfg.Platforms.MaxRepairDepth = 50
	cfg.Walk.HorizontalBias = 1.7
	cfg.Platforms.MinWidth = 5
	cfg.Platforms.MaxWidth = 2

	notes := cfg.Clamp()

	if cfg.Grid.Width != 16 {
		t.Errorf("Width = %d, want 16", cfg.Grid.Width)
	}
	if cfg.Partition.SplitRatioMin != 0.5 {
		t.Errorf("SplitRatioMin = %g, want 0.5", cfg.Partition.SplitRatioMin)
	}
	if cfg.Partition.SplitRatioMax < cfg.Partition.SplitRatioMin {
		t.Error("SplitRatioMax should not be below SplitRatioMin")
	}
	if cfg.Platforms.MaxRepairDepth != 10 {
		t.Errorf("MaxRepairDepth = %d, want 10", cfg.Platforms.MaxRepairDepth)
	}
	if cfg.Walk.HorizontalBias != 1 {
		t.Errorf("HorizontalBias = %g, want 1", cfg.Walk.HorizontalBias)
	}
	if cfg.Platforms.MaxWidth < cfg.Platforms.MinWidth {
		t.Error("MaxWidth should not be below MinWidth")
	}

	found := false
	for _, n := range notes {
		if strings.HasPrefix(n, "platforms.max_repair_depth") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a note for max_repair_depth, got %v", notes)
	}
}

func TestClampAnchorRows(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.EntranceRow = 0
	cfg.Grid.ExitRow = 100
	cfg.Clamp()

	if cfg.Grid.EntranceRow != 1 {
		t.Errorf("EntranceRow = %d, want 1", cfg.Grid.EntranceRow)
	}
	if cfg.Grid.ExitRow != 23 {
		t.Errorf("ExitRow = %d, want 23", cfg.Grid.ExitRow)
	}
}

func TestEffectiveJumpHeight(t *testing.T) {
	j := JumpConfig{Height: 3}
	if j.EffectiveHeight() != 3 {
		t.Errorf("single jump = %d, want 3", j.EffectiveHeight())
	}
	j.DoubleJump = true
	if j.EffectiveHeight() != 5 {
		t.Errorf("double jump = %d, want 5", j.EffectiveHeight())
	}
}

func TestFingerprint(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical configs should share a fingerprint")
	}

	// Non-generation settings do not change the fingerprint
	b.Server.Address = ":9999"
	b.Archive.Driver = "postgres"
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("server/archive settings should not affect the fingerprint")
	}

	b.Rooms.TargetCount = 3
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("generation settings should affect the fingerprint")
	}

	if len(a.Fingerprint()) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(a.Fingerprint()))
	}
}

func TestIsOriginAllowed_EmptyList_SameOrigin(t *testing.T) {
	cfg := WebSocketConfig{
		AllowedOrigins: []string{},
	}

	if !cfg.IsOriginAllowed("", "localhost:4480") {
		t.Error("expected empty origin to be allowed (same-origin)")
	}

	if !cfg.IsOriginAllowed("http://localhost:4480", "localhost:4480") {
		t.Error("expected matching origin to be allowed (same-origin)")
	}

	if cfg.IsOriginAllowed("http://evil.com", "localhost:4480") {
		t.Error("expected different origin to be rejected (same-origin policy)")
	}
}

func TestIsOriginAllowed_Lists(t *testing.T) {
	wildcard := WebSocketConfig{AllowedOrigins: []string{"*"}}
	if !wildcard.IsOriginAllowed("http://anything.com", "localhost:4480") {
		t.Error("expected wildcard to allow any origin")
	}

	exact := WebSocketConfig{AllowedOrigins: []string{"https://example.com"}}
	if !exact.IsOriginAllowed("https://example.com", "localhost:4480") {
		t.Error("expected exact match to be allowed")
	}
	if exact.IsOriginAllowed("https://example.com:8080", "localhost:4480") {
		t.Error("expected partial match to be rejected")
	}
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		origin      string
		requestHost string
		expected    bool
	}{
		{"", "localhost:4480", true},
		{"http://localhost:4480", "localhost:4480", true},
		{"https://localhost:4480/", "localhost:4480", true},
		{"http://localhost:3000", "localhost:4480", false},
		{"ws://localhost:4480", "localhost:4480", true},
	}

	for _, tt := range tests {
		if got := isSameOrigin(tt.origin, tt.requestHost); got != tt.expected {
			t.Errorf("isSameOrigin(%q, %q) = %v, want %v", tt.origin, tt.requestHost, got, tt.expected)
		}
	}
}
