// Package config holds every tunable of room generation plus the daemon and archive settings.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/roomforge/internal/logger"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"
)

// Config is the root of the roomforge YAML document.
// A `logging:` section may live in the same file; it is read by the logger package.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Partition PartitionConfig `yaml:"partition"`
	Rooms     RoomsConfig     `yaml:"rooms"`
	Graph     GraphConfig     `yaml:"graph"`
	Corridor  CorridorConfig  `yaml:"corridor"`
	Walk      WalkConfig      `yaml:"walk"`
	Jump      JumpConfig      `yaml:"jump"`
	Platforms PlatformConfig  `yaml:"platforms"`
	Spawns    SpawnConfig     `yaml:"spawns"`
	Special   SpecialConfig   `yaml:"special"`
	Server    ServerConfig    `yaml:"server"`
	Archive   ArchiveConfig   `yaml:"archive"`
}

// GridConfig holds the room dimensions and anchor rows.
type GridConfig struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	EdgePadding int `yaml:"edge_padding"`

	// EntranceRow and ExitRow pin the anchor rows. -1 draws them from the seed.
	EntranceRow int `yaml:"entrance_row"`
	ExitRow     int `yaml:"exit_row"`

	// TileSize is the world-space size of one cell, used for anchor broadcasts.
	TileSize float64 `yaml:"tile_size"`
}

// Interior returns the padded interior rectangle of the grid
func (g GridConfig) Interior() (x, y, w, h int) {
	return g.EdgePadding, g.EdgePadding, g.Width - 2*g.EdgePadding, g.Height - 2*g.EdgePadding
}

// PartitionConfig drives the binary space partition.
type PartitionConfig struct {
	MaxDepth      int     `yaml:"max_depth"`
	MinLeafSize   int     `yaml:"min_leaf_size"`
	SplitRatioMin float64 `yaml:"split_ratio_min"`
	SplitRatioMax float64 `yaml:"split_ratio_max"`

	// StopChance is the chance a node stays a leaf once the target leaf count is reached.
	StopChance float64 `yaml:"stop_chance"`
}

// RoomsConfig drives room placement and role classification.
type RoomsConfig struct {
	TargetCount  int     `yaml:"target_count"`
	FillRatio    float64 `yaml:"fill_ratio"`
	SizeJitter   float64 `yaml:"size_jitter"`
	Padding      int     `yaml:"padding"`
	MinSize      int     `yaml:"min_size"`
	RestCap      int     `yaml:"rest_cap"`
	ConnectorCap int     `yaml:"connector_cap"`
}

// GraphConfig drives the room graph.
type GraphConfig struct {
	// ExtraEdgeRatio is the share of non-backbone edges kept to form loops.
	ExtraEdgeRatio float64 `yaml:"extra_edge_ratio"`
}

// CorridorConfig drives corridor carving.
type CorridorConfig struct {
	Width        int     `yaml:"width"`
	LShapeChance float64 `yaml:"l_shape_chance"`
}

// WalkConfig drives the connectivity random walks.
type WalkConfig struct {
	BrushSize      int     `yaml:"brush_size"`
	HorizontalBias float64 `yaml:"horizontal_bias"`
}

// JumpConfig is the player's jump envelope.
type JumpConfig struct {
	Height       int  `yaml:"height"`
	Distance     int  `yaml:"distance"`
	DoubleJump   bool `yaml:"double_jump"`
	PlayerHeight int  `yaml:"player_height"`
}

// EffectiveHeight returns the highest climb a single jump sequence reaches
func (j JumpConfig) EffectiveHeight() int {
	if j.DoubleJump {
		return 2*j.Height - 1
	}
	return j.Height
}

// PlatformConfig drives platform injection.
type PlatformConfig struct {
	MaxCount        int `yaml:"max_count"`
	MinWidth        int `yaml:"min_width"`
	MaxWidth        int `yaml:"max_width"`
	ExclusionRadius int `yaml:"exclusion_radius"`
	MinRun          int `yaml:"min_run"`
	MaxRepairDepth  int `yaml:"max_repair_depth"`
}

// SpawnConfig drives spawn point analysis.
type SpawnConfig struct {
	MinGroundSpan int     `yaml:"min_ground_span"`
	Headroom      int     `yaml:"headroom"`
	MinAirHeight  int     `yaml:"min_air_height"`
	AirChance     float64 `yaml:"air_chance"`
	MaxEnemies    int     `yaml:"max_enemies"`
	MinDistance   float64 `yaml:"min_distance"`
	SafetyMargin  float64 `yaml:"safety_margin"`
	EdgePadding   int     `yaml:"edge_padding"`
}

// SpecialConfig drives the fixed entrance and boss archetypes.
type SpecialConfig struct {
	Width          int `yaml:"width"`
	Height         int `yaml:"height"`
	GroundLevel    int `yaml:"ground_level"`
	CorridorWidth  int `yaml:"corridor_width"`
	CorridorHeight int `yaml:"corridor_height"`
}

// ServerConfig holds the anchor broadcast daemon settings.
type ServerConfig struct {
	Address     string            `yaml:"address"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Connections ConnectionsConfig `yaml:"connections"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy. "*" allows all origins.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// isSameOrigin checks if the origin matches the request host.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // non-browser client
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections from a single IP. 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent connections. 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// ArchiveConfig selects where generated rooms are archived.
type ArchiveConfig struct {
	Driver     string         `yaml:"driver"` // "sqlite" or "postgres"
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`

	CacheMaxItems   int64 `yaml:"cache_max_items"`
	CacheTTLSeconds int   `yaml:"cache_ttl_seconds"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// DefaultConfig returns a Config with the stock tuning for a 40x25 room.
func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			Width:       40,
			Height:      25,
			EdgePadding: 1,
			EntranceRow: -1,
			ExitRow:     -1,
			TileSize:    16,
		},
		Partition: PartitionConfig{
			MaxDepth:      4,
			MinLeafSize:   5,
			SplitRatioMin: 0.35,
			SplitRatioMax: 0.65,
			StopChance:    0.3,
		},
		Rooms: RoomsConfig{
			TargetCount:  6,
			FillRatio:    0.7,
			SizeJitter:   0.15,
			Padding:      1,
			MinSize:      3,
			RestCap:      2,
			ConnectorCap: 3,
		},
		Graph: GraphConfig{
			ExtraEdgeRatio: 0.15,
		},
		Corridor: CorridorConfig{
			Width:        2,
			LShapeChance: 0.5,
		},
		Walk: WalkConfig{
			BrushSize:      2,
			HorizontalBias: 0.7,
		},
		Jump: JumpConfig{
			Height:       4,
			Distance:     5,
			DoubleJump:   false,
			PlayerHeight: 2,
		},
		Platforms: PlatformConfig{
			MaxCount:        24,
			MinWidth:        2,
			MaxWidth:        4,
			ExclusionRadius: 1,
			MinRun:          2,
			MaxRepairDepth:  10,
		},
		Spawns: SpawnConfig{
			MinGroundSpan: 3,
			Headroom:      3,
			MinAirHeight:  3,
			AirChance:     0.08,
			MaxEnemies:    8,
			MinDistance:   4,
			SafetyMargin:  5,
			EdgePadding:   2,
		},
		Special: SpecialConfig{
			Width:          20,
			Height:         10,
			GroundLevel:    2,
			CorridorWidth:  2,
			CorridorHeight: 3,
		},
		Server: ServerConfig{
			Address: ":4480",
			WebSocket: WebSocketConfig{
				AllowedOrigins: []string{}, // Same-origin only by default
				MaxMessageSize: 4096,
			},
			Connections: ConnectionsConfig{
				MaxPerIP: 3,
				MaxTotal: 100,
			},
		},
		Archive: ArchiveConfig{
			Driver:     "sqlite",
			SQLitePath: "data/roomforge.db",
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "disable",
			},
			CacheMaxItems:   256,
			CacheTTLSeconds: 900,
		},
	}
}

// LoadConfig loads configuration from a YAML file and applies environment overrides.
// A missing file yields the defaults. Out-of-range tunables are clamped, never rejected.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	for _, note := range cfg.Clamp() {
		logger.Warning("Config value clamped", "detail", note)
	}
	return cfg, nil
}

// applyEnv applies ROOMFORGE_* environment overrides to the archive settings
func (c *Config) applyEnv() {
	if v := os.Getenv("ROOMFORGE_DB_DRIVER"); v != "" {
		c.Archive.Driver = v
	}
	if v := os.Getenv("ROOMFORGE_SQLITE_PATH"); v != "" {
		c.Archive.SQLitePath = v
	}
	if v := os.Getenv("ROOMFORGE_PG_HOST"); v != "" {
		c.Archive.Postgres.Host = v
	}
	if v := os.Getenv("ROOMFORGE_PG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Archive.Postgres.Port = port
		}
	}
	if v := os.Getenv("ROOMFORGE_PG_USER"); v != "" {
		c.Archive.Postgres.User = v
	}
	if v := os.Getenv("ROOMFORGE_PG_PASSWORD"); v != "" {
		c.Archive.Postgres.Password = v
	}
	if v := os.Getenv("ROOMFORGE_PG_DATABASE"); v != "" {
		c.Archive.Postgres.Database = v
	}
	if v := os.Getenv("ROOMFORGE_PG_SSLMODE"); v != "" {
		c.Archive.Postgres.SSLMode = v
	}
}

// generationSections is the part of the config that influences the generated grid
type generationSections struct {
	Grid      GridConfig      `yaml:"grid"`
	Partition PartitionConfig `yaml:"partition"`
	Rooms     RoomsConfig     `yaml:"rooms"`
	Graph     GraphConfig     `yaml:"graph"`
	Corridor  CorridorConfig  `yaml:"corridor"`
	Walk      WalkConfig      `yaml:"walk"`
	Jump      JumpConfig      `yaml:"jump"`
	Platforms PlatformConfig  `yaml:"platforms"`
	Spawns    SpawnConfig     `yaml:"spawns"`
	Special   SpecialConfig   `yaml:"special"`
}

// Fingerprint returns a short stable hash of every generation tunable.
// Two configs with the same fingerprint generate identical rooms for the same seed.
func (c *Config) Fingerprint() string {
	data, err := yaml.Marshal(generationSections{
		Grid:      c.Grid,
		Partition: c.Partition,
		Rooms:     c.Rooms,
		Graph:     c.Graph,
		Corridor:  c.Corridor,
		Walk:      c.Walk,
		Jump:      c.Jump,
		Platforms: c.Platforms,
		Spawns:    c.Spawns,
		Special:   c.Special,
	})
	if err != nil {
		// Plain structs of scalars always marshal
		panic(fmt.Sprintf("config: fingerprint marshal: %v", err))
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
