package database

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lib/pq"
)

// =============================================================================
// Dialect Tests
// =============================================================================

func TestNewDialect(t *testing.T) {
	if _, ok := NewDialect(DialectSQLite).(*SQLiteDialect); !ok {
		t.Error("sqlite should give *SQLiteDialect")
	}
	if _, ok := NewDialect(DialectPostgres).(*PostgresDialect); !ok {
		t.Error("postgres should give *PostgresDialect")
	}
	// Unknown dialect should default to SQLite
	if _, ok := NewDialect("unknown").(*SQLiteDialect); !ok {
		t.Error("unknown should default to *SQLiteDialect")
	}
}

func TestSQLiteDialect(t *testing.T) {
	d := &SQLiteDialect{}
	if got := d.DriverName(); got != "sqlite" {
		t.Errorf("DriverName() = %q, want %q", got, "sqlite")
	}
	for _, pos := range []int{1, 2, 10} {
		if got := d.Placeholder(pos); got != "?" {
			t.Errorf("Placeholder(%d) = %q, want ?", pos, got)
		}
	}
	if !d.SupportsLastInsertID() {
		t.Error("SupportsLastInsertID() = false, want true")
	}
	if got := d.ReturningClause("id"); got != "" {
		t.Errorf("ReturningClause() = %q, want empty string", got)
	}
	if got := len(d.InitStatements()); got != 3 {
		t.Errorf("len(InitStatements()) = %d, want 3", got)
	}
	if got := d.BlobType(); got != "BLOB" {
		t.Errorf("BlobType() = %q, want BLOB", got)
	}
}

func TestSQLiteDialect_IsDuplicateKeyError(t *testing.T) {
	d := &SQLiteDialect{}
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("some random error"), false},
		{errors.New("UNIQUE constraint failed: rooms.seed, rooms.kind, rooms.fingerprint"), true},
		{errors.New("FOREIGN KEY constraint failed"), false},
	}
	for _, tt := range tests {
		if got := d.IsDuplicateKeyError(tt.err); got != tt.want {
			t.Errorf("IsDuplicateKeyError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestPostgresDialect(t *testing.T) {
	d := &PostgresDialect{}
	if got := d.DriverName(); got != "postgres" {
		t.Errorf("DriverName() = %q, want %q", got, "postgres")
	}
	for _, pos := range []int{1, 2, 10} {
		want := fmt.Sprintf("$%d", pos)
		if got := d.Placeholder(pos); got != want {
			t.Errorf("Placeholder(%d) = %q, want %q", pos, got, want)
		}
	}
	if d.SupportsLastInsertID() {
		t.Error("SupportsLastInsertID() = true, want false")
	}
	if got := d.ReturningClause("id"); got != " RETURNING id" {
		t.Errorf("ReturningClause() = %q, want %q", got, " RETURNING id")
	}
	if got := d.InitStatements(); got != nil {
		t.Errorf("InitStatements() = %v, want nil", got)
	}
	if got := d.BlobType(); got != "BYTEA" {
		t.Errorf("BlobType() = %q, want BYTEA", got)
	}
}

func TestPostgresDialect_IsDuplicateKeyError(t *testing.T) {
	d := &PostgresDialect{}
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("some random error"), false},
		{&pq.Error{Code: "23505"}, true},
		{fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
		{&pq.Error{Code: "23503"}, false},
		{errors.New("duplicate key value violates unique constraint"), true},
	}
	for _, tt := range tests {
		if got := d.IsDuplicateKeyError(tt.err); got != tt.want {
			t.Errorf("IsDuplicateKeyError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

// =============================================================================
// QueryBuilder Tests
// =============================================================================

func TestQueryBuilder_Build(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{"sqlite unchanged", &SQLiteDialect{}, "SELECT * FROM rooms WHERE seed = ? AND kind = ?", "SELECT * FROM rooms WHERE seed = ? AND kind = ?"},
		{"postgres numbered", &PostgresDialect{}, "SELECT * FROM rooms WHERE seed = ? AND kind = ?", "SELECT * FROM rooms WHERE seed = $1 AND kind = $2"},
		{"postgres no params", &PostgresDialect{}, "SELECT COUNT(*) FROM rooms", "SELECT COUNT(*) FROM rooms"},
		{"postgres quoted literal", &PostgresDialect{}, "SELECT '?' FROM rooms WHERE id = ?", "SELECT '?' FROM rooms WHERE id = $1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qb := NewQueryBuilder(tt.dialect)
			if got := qb.Build(tt.query); got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQueryBuilder_BuildWithReturning(t *testing.T) {
	query := "INSERT INTO rooms (seed) VALUES (?)"

	if got := NewQueryBuilder(&SQLiteDialect{}).BuildWithReturning(query, "id"); got != query {
		t.Errorf("SQLite BuildWithReturning() = %q, want %q", got, query)
	}

	want := "INSERT INTO rooms (seed) VALUES ($1) RETURNING id"
	if got := NewQueryBuilder(&PostgresDialect{}).BuildWithReturning(query, "id"); got != want {
		t.Errorf("Postgres BuildWithReturning() = %q, want %q", got, want)
	}
}

// =============================================================================
// Config Tests
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("data/rooms.db")
	if cfg.Driver != "sqlite" {
		t.Errorf("Driver = %q, want sqlite", cfg.Driver)
	}
	if cfg.SQLitePath != "data/rooms.db" {
		t.Errorf("SQLitePath = %q, want data/rooms.db", cfg.SQLitePath)
	}
}

func TestDefaultPostgresConfig(t *testing.T) {
	cfg := DefaultPostgresConfig()
	if cfg.Port != 5432 {
		t.Errorf("Port = %d, want 5432", cfg.Port)
	}
	if cfg.MaxOpenConns != 25 || cfg.MaxIdleConns != 5 {
		t.Errorf("pool = %d/%d, want 25/5", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want %v", cfg.ConnMaxLifetime, 5*time.Minute)
	}
}

func TestPostgresConfig_DSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5433, User: "forge", Password: "pw", Database: "rooms", SSLMode: "require"}
	want := "host=db port=5433 user=forge password=pw dbname=rooms sslmode=require"
	if got := p.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestConfigFromArchive(t *testing.T) {
	ac := config.ArchiveConfig{
		Driver:     "postgres",
		SQLitePath: "ignored.db",
		Postgres:   config.PostgresConfig{Host: "pg", Port: 6543, User: "u", Password: "p", Database: "d"},
	}
	cfg := ConfigFromArchive(ac)
	if cfg.Driver != "postgres" || cfg.Postgres.Host != "pg" || cfg.Postgres.Port != 6543 {
		t.Errorf("ConfigFromArchive = %+v", cfg)
	}
	// Empty SSL mode keeps the default
	if cfg.Postgres.SSLMode != "disable" {
		t.Errorf("SSLMode = %q, want disable", cfg.Postgres.SSLMode)
	}
	if cfg.Postgres.MaxOpenConns != 25 {
		t.Errorf("MaxOpenConns = %d, want pool default 25", cfg.Postgres.MaxOpenConns)
	}
}

func TestDialect_InterfaceCompliance(t *testing.T) {
	var _ Dialect = (*SQLiteDialect)(nil)
	var _ Dialect = (*PostgresDialect)(nil)
}
