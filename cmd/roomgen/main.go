package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/database"
	"github.com/lawnchairsociety/roomforge/internal/export"
	"github.com/lawnchairsociety/roomforge/internal/generator"
	"github.com/lawnchairsociety/roomforge/internal/logger"
)

func main() {
	configFile := flag.String("config", "data/roomforge.yaml", "Path to generator config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	seedText := flag.String("seed", "", "Room seed (default: random based on current time)")
	kindName := flag.String("kind", "standard", "Room kind: standard, entrance or boss")
	outFile := flag.String("out", "", "Write the room as YAML to this file")
	showASCII := flag.Bool("ascii", true, "Print the room as ASCII with a legend")
	dbFile := flag.String("db", "", "Archive the room in this SQLite file")
	useArchive := flag.Bool("archive", false, "Archive the room using the config's archive section")
	list := flag.Int("list", 0, "List the N newest archived rooms and exit")
	load := flag.Int64("load", 0, "Print an archived room by ID and exit")
	flag.Parse()

	// A missing .env is fine
	_ = godotenv.Load(".env")

	logConfig, _ := logger.LoadConfig(*loggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging setup failed: %v\n", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	var db *database.Database
	if *dbFile != "" || *useArchive || *list > 0 || *load > 0 {
		db, err = openArchive(cfg, *dbFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	switch {
	case *list > 0:
		if err := listRooms(db, *list); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	case *load > 0:
		if err := printRoom(db, *load); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	kind, err := generator.ParseKind(*kindName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seed := *seedText
	if seed == "" {
		seed = strconv.FormatInt(time.Now().UnixNano(), 36)
		logger.Info("Room seed selected", "seed", seed, "random", true)
	}

	res, err := generator.Generate(cfg, seed, kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: generation failed: %v\n", err)
		os.Exit(1)
	}

	if *showASCII {
		fmt.Print(export.RenderASCII(res, true))
	}
	fmt.Printf("seed=%q kind=%s rooms=%d platforms=%d spawns=%d unresolved=%d sealed=%d\n",
		res.Seed, res.Kind, len(res.Regions()), res.Platforms.Count(), len(res.Spawns.Spawns),
		len(res.Diagnostics.Unresolved), res.Diagnostics.SealedCells)

	if *outFile != "" {
		if err := export.WriteRoomFile(*outFile, res); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *outFile)
	}

	if db != nil {
		id, err := db.SaveRoom(res)
		switch {
		case errors.Is(err, database.ErrRoomExists):
			fmt.Println("Room already archived")
		case err != nil:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		default:
			fmt.Printf("Archived as room %d\n", id)
		}
	}
}

// openArchive opens the SQLite file given on the command line, or the config's archive
func openArchive(cfg *config.Config, sqlitePath string) (*database.Database, error) {
	if sqlitePath != "" {
		return database.Open(sqlitePath)
	}
	return database.OpenWithConfig(database.ConfigFromArchive(cfg.Archive))
}

func listRooms(db *database.Database, limit int) error {
	rooms, err := db.ListRooms(limit)
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		fmt.Println("No archived rooms")
		return nil
	}
	fmt.Printf("%-6s %-9s %-7s %-9s %s\n", "ID", "KIND", "SIZE", "PLATFORMS", "SEED")
	for _, r := range rooms {
		fmt.Printf("%-6d %-9s %-7s %-9d %q\n", r.ID, r.Kind, fmt.Sprintf("%dx%d", r.Width, r.Height), r.Platforms, r.Seed)
	}
	return nil
}

func printRoom(db *database.Database, id int64) error {
	rec, err := db.LoadRoom(id)
	if err != nil {
		return fmt.Errorf("room %d: %w", id, err)
	}
	fmt.Print(export.RenderGrid(rec.Grid))
	fmt.Printf("id=%d seed=%q kind=%s regions=%d spawns=%d platforms=%d archived=%s\n",
		rec.ID, rec.Seed, rec.Kind, len(rec.Regions), len(rec.Spawns), rec.Platforms,
		rec.CreatedAt.Format(time.RFC3339))
	return nil
}
