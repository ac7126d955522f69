// migrate-to-postgres copies a SQLite room archive into PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/roomforge.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user roomforge \
//	    -pg-password roomforge \
//	    -pg-database roomforge
//
// Rooms already present in the target (same seed, kind and fingerprint) are skipped,
// so the copy can be re-run.
package main

import (
	"errors"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/lawnchairsociety/roomforge/internal/database"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/roomforge.db", "Path to SQLite archive")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "roomforge", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "roomforge", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "roomforge", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	_ = godotenv.Load(".env")

	log.Println("SQLite to PostgreSQL Archive Migration")
	log.Println("======================================")

	log.Printf("Opening SQLite archive: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite archive: %v", err)
	}
	defer src.Close()

	rooms, err := src.ListRooms(0)
	if err != nil {
		log.Fatalf("Failed to list rooms: %v", err)
	}
	log.Printf("Found %d rooms", len(rooms))

	if *dryRun {
		for _, r := range rooms {
			log.Printf("  would copy room %d (%s %q)", r.ID, r.Kind, r.Seed)
		}
		log.Println("DRY RUN - No changes were made")
		return
	}

	pg := database.DefaultPostgresConfig()
	pg.Host = *pgHost
	pg.Port = *pgPort
	pg.User = *pgUser
	pg.Password = *pgPassword
	pg.Database = *pgDatabase
	pg.SSLMode = *pgSSLMode

	log.Printf("Opening PostgreSQL archive: %s@%s:%d/%s", pg.User, pg.Host, pg.Port, pg.Database)
	dst, err := database.OpenWithConfig(database.Config{Driver: string(database.DialectPostgres), Postgres: pg})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL archive: %v", err)
	}
	defer dst.Close()

	var copied, skipped int
	// Oldest first keeps the target's ids in the same order
	for i := len(rooms) - 1; i >= 0; i-- {
		rec, err := src.LoadRoom(rooms[i].ID)
		if err != nil {
			log.Fatalf("Failed to load room %d: %v", rooms[i].ID, err)
		}
		if _, err := dst.ImportRoom(rec); err != nil {
			if errors.Is(err, database.ErrRoomExists) {
				skipped++
				continue
			}
			log.Fatalf("Failed to copy room %d: %v", rec.ID, err)
		}
		copied++
	}

	log.Println("======================================")
	log.Printf("Migration complete! Copied %d rooms, skipped %d already present", copied, skipped)
}
