package database

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lawnchairsociety/roomforge/internal/generator"
	"github.com/lawnchairsociety/roomforge/internal/grid"
	"github.com/lawnchairsociety/roomforge/internal/rooms"
	"github.com/lawnchairsociety/roomforge/internal/spawn"
)

// ErrRoomNotFound is returned when a room lookup fails.
var ErrRoomNotFound = errors.New("room not found")

// ErrRoomExists is returned when the same seed, kind and fingerprint is archived twice.
var ErrRoomExists = errors.New("room already archived")

// RegionRecord is an archived sub-room.
type RegionRecord struct {
	ID     int
	Bounds grid.Rect
	Role   rooms.Role
}

// RoomRecord is an archived room with its regions and spawn points.
type RoomRecord struct {
	ID          int64
	Seed        string
	Kind        generator.Kind
	Fingerprint string
	Grid        *grid.Grid
	Regions     []RegionRecord
	Spawns      []spawn.SpawnPoint
	Platforms   int
	Unresolved  int
	CreatedAt   time.Time
}

// RoomSummary is a row of ListRooms.
type RoomSummary struct {
	ID          int64
	Seed        string
	Kind        string
	Fingerprint string
	Width       int
	Height      int
	Platforms   int
	CreatedAt   time.Time
}

// RecordFromResult converts a generation result to its archived form
func RecordFromResult(res *generator.Result) *RoomRecord {
	rec := &RoomRecord{
		Seed:        res.Seed,
		Kind:        res.Kind,
		Fingerprint: res.Fingerprint,
		Grid:        res.Grid,
		Spawns:      res.Spawns.Spawns,
		Platforms:   res.Platforms.Count(),
		Unresolved:  len(res.Diagnostics.Unresolved),
	}
	for _, r := range res.Regions() {
		rec.Regions = append(rec.Regions, RegionRecord{ID: r.ID, Bounds: r.Bounds, Role: r.Role})
	}
	return rec
}

// SaveRoom archives a generation result and returns its row id.
func (d *Database) SaveRoom(res *generator.Result) (int64, error) {
	return d.ImportRoom(RecordFromResult(res))
}

// ImportRoom archives a record, typically one loaded from another archive.
// ID and CreatedAt are assigned by the database.
func (d *Database) ImportRoom(rec *RoomRecord) (int64, error) {
	cells, err := encodeCells(rec.Grid)
	if err != nil {
		return 0, err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	g := rec.Grid
	query := d.qb.BuildWithReturning(`
		INSERT INTO rooms (seed, kind, fingerprint, width, height, entrance_x, entrance_y, exit_x, exit_y, cells, platforms, unresolved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, "id")
	args := []any{rec.Seed, rec.Kind.String(), rec.Fingerprint, g.Width, g.Height,
		g.Entrance.X, g.Entrance.Y, g.Exit.X, g.Exit.Y, cells,
		rec.Platforms, rec.Unresolved}

	var roomID int64
	if d.dialect.SupportsLastInsertID() {
		result, err := tx.Exec(query, args...)
		if err != nil {
			return 0, d.insertError(err)
		}
		if roomID, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to get room ID: %w", err)
		}
	} else if err := tx.QueryRow(query, args...).Scan(&roomID); err != nil {
		return 0, d.insertError(err)
	}

	regionQuery := d.qb.Build(`INSERT INTO regions (room_id, region_id, x, y, w, h, role) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for _, r := range rec.Regions {
		b := r.Bounds
		if _, err := tx.Exec(regionQuery, roomID, r.ID, b.X, b.Y, b.W, b.H, r.Role.String()); err != nil {
			return 0, fmt.Errorf("failed to insert region: %w", err)
		}
	}

	spawnQuery := d.qb.Build(`INSERT INTO spawn_points (room_id, x, y, kind, role, span, height) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for _, sp := range rec.Spawns {
		if _, err := tx.Exec(spawnQuery, roomID, sp.Pos.X, sp.Pos.Y, sp.Kind.String(), sp.Role.String(), sp.Span, sp.Height); err != nil {
			return 0, fmt.Errorf("failed to insert spawn point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return roomID, nil
}

func (d *Database) insertError(err error) error {
	if d.dialect.IsDuplicateKeyError(err) {
		return ErrRoomExists
	}
	return fmt.Errorf("failed to insert room: %w", err)
}

// LoadRoom retrieves an archived room by id.
func (d *Database) LoadRoom(id int64) (*RoomRecord, error) {
	var rec RoomRecord
	var kind string
	var width, height int
	var entrance, exit grid.Point
	var cells []byte

	err := d.db.QueryRow(d.qb.Build(`
		SELECT id, seed, kind, fingerprint, width, height, entrance_x, entrance_y, exit_x, exit_y,
		       cells, platforms, unresolved, created_at
		FROM rooms WHERE id = ?`), id,
	).Scan(&rec.ID, &rec.Seed, &kind, &rec.Fingerprint, &width, &height,
		&entrance.X, &entrance.Y, &exit.X, &exit.Y,
		&cells, &rec.Platforms, &rec.Unresolved, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if rec.Kind, err = generator.ParseKind(kind); err != nil {
		return nil, fmt.Errorf("room %d: %w", id, err)
	}
	if rec.Grid, err = decodeCells(cells, width, height); err != nil {
		return nil, fmt.Errorf("room %d: %w", id, err)
	}
	rec.Grid.Entrance = entrance
	rec.Grid.Exit = exit

	if rec.Regions, err = d.loadRegions(id); err != nil {
		return nil, err
	}
	if rec.Spawns, err = d.loadSpawns(id); err != nil {
		return nil, err
	}

	return &rec, nil
}

func (d *Database) loadRegions(roomID int64) ([]RegionRecord, error) {
	rows, err := d.db.Query(d.qb.Build(`
		SELECT region_id, x, y, w, h, role FROM regions WHERE room_id = ? ORDER BY region_id`), roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query regions: %w", err)
	}
	defer rows.Close()

	var regions []RegionRecord
	for rows.Next() {
		var r RegionRecord
		var role string
		if err := rows.Scan(&r.ID, &r.Bounds.X, &r.Bounds.Y, &r.Bounds.W, &r.Bounds.H, &role); err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		var ok bool
		if r.Role, ok = rooms.ParseRole(role); !ok {
			return nil, fmt.Errorf("region %d: unknown role %q", r.ID, role)
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

func (d *Database) loadSpawns(roomID int64) ([]spawn.SpawnPoint, error) {
	rows, err := d.db.Query(d.qb.Build(`
		SELECT x, y, kind, role, span, height FROM spawn_points WHERE room_id = ? ORDER BY id`), roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query spawn points: %w", err)
	}
	defer rows.Close()

	var spawns []spawn.SpawnPoint
	for rows.Next() {
		sp := spawn.SpawnPoint{Valid: true}
		var kind, role string
		if err := rows.Scan(&sp.Pos.X, &sp.Pos.Y, &kind, &role, &sp.Span, &sp.Height); err != nil {
			return nil, fmt.Errorf("failed to scan spawn point: %w", err)
		}
		var ok bool
		if sp.Kind, ok = spawn.ParseKind(kind); !ok {
			return nil, fmt.Errorf("spawn point %v: unknown kind %q", sp.Pos, kind)
		}
		if sp.Role, ok = spawn.ParseRole(role); !ok {
			return nil, fmt.Errorf("spawn point %v: unknown role %q", sp.Pos, role)
		}
		spawns = append(spawns, sp)
	}
	return spawns, rows.Err()
}

// FindRoom retrieves the archived room for a seed, kind and config fingerprint.
func (d *Database) FindRoom(seed string, kind generator.Kind, fingerprint string) (*RoomRecord, error) {
	var id int64
	err := d.db.QueryRow(d.qb.Build(
		"SELECT id FROM rooms WHERE seed = ? AND kind = ? AND fingerprint = ?"),
		seed, kind.String(), fingerprint,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return d.LoadRoom(id)
}

// ListRooms returns up to limit rooms, newest first. A non-positive limit lists all.
func (d *Database) ListRooms(limit int) ([]RoomSummary, error) {
	query := `
		SELECT id, seed, kind, fingerprint, width, height, platforms, created_at
		FROM rooms ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := d.db.Query(d.qb.Build(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	var out []RoomSummary
	for rows.Next() {
		var s RoomSummary
		if err := rows.Scan(&s.ID, &s.Seed, &s.Kind, &s.Fingerprint, &s.Width, &s.Height, &s.Platforms, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteRoom removes an archived room; regions and spawn points cascade.
func (d *Database) DeleteRoom(id int64) error {
	result, err := d.db.Exec(d.qb.Build("DELETE FROM rooms WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// encodeCells stores one byte per cell, row-major from the bottom row, gzip-compressed.
func encodeCells(g *grid.Grid) ([]byte, error) {
	cells := g.Cells()
	raw := make([]byte, len(cells))
	for i, c := range cells {
		raw[i] = byte(c)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("failed to compress cells: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress cells: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeCells(data []byte, width, height int) (*grid.Grid, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress cells: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress cells: %w", err)
	}

	cells := make([]grid.Cell, len(raw))
	for i, b := range raw {
		cells[i] = grid.Cell(b)
	}
	return grid.FromCells(width, height, cells)
}
