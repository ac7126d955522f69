package server

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/roomforge/internal/anchors"
	"github.com/lawnchairsociety/roomforge/internal/database"
	"github.com/lawnchairsociety/roomforge/internal/generator"
	"github.com/lawnchairsociety/roomforge/internal/logger"
)

const helpText = "commands: generate <standard|entrance|boss> [seed], help, quit"

// handleCommand runs one command line. It returns false when the client asked to leave.
func (s *Server) handleCommand(client Client, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch strings.ToLower(fields[0]) {
	case "generate", "gen":
		s.cmdGenerate(client, fields[1:])
	case "help", "?":
		client.WriteLine(helpText)
	case "quit", "exit":
		client.WriteLine("bye")
		return false
	default:
		client.WriteLine(fmt.Sprintf("error: unknown command %q (%s)", fields[0], helpText))
	}
	return true
}

func (s *Server) cmdGenerate(client Client, args []string) {
	if len(args) == 0 {
		client.WriteLine("error: usage: generate <standard|entrance|boss> [seed]")
		return
	}

	kind, err := generator.ParseKind(strings.ToLower(args[0]))
	if err != nil {
		client.WriteLine("error: " + err.Error())
		return
	}

	seedText := strings.Join(args[1:], " ")
	if seedText == "" {
		seedText = strconv.FormatUint(rand.Uint64(), 36)
	}

	res, hit, err := s.generate(seedText, kind)
	if err != nil {
		logger.Error("Generation failed", "seed", seedText, "kind", kind.String(), "error", err)
		client.WriteLine("error: " + err.Error())
		return
	}

	if s.archive != nil {
		if _, err := s.archive.SaveRoom(res); err != nil && !errors.Is(err, database.ErrRoomExists) {
			logger.Error("Failed to archive room", "seed", seedText, "error", err)
		}
	}

	client.WriteLine(summary(res, hit))

	if err := s.Publish(anchors.FromResult(res, s.cfg.Grid.TileSize)); err != nil {
		logger.Warning("Anchor publisher failed", "seed", seedText, "error", err)
	}
}

func (s *Server) generate(seedText string, kind generator.Kind) (*generator.Result, bool, error) {
	if s.cache != nil {
		return s.cache.Generate(s.cfg, seedText, kind)
	}
	res, err := generator.Generate(s.cfg, seedText, kind)
	return res, false, err
}

// summary is the one-line reply to a generate command
func summary(res *generator.Result, cached bool) string {
	g := res.Grid
	return fmt.Sprintf("room %s seed=%q size=%dx%d rooms=%d platforms=%d spawns=%d unresolved=%d entrance=(%d,%d) exit=(%d,%d) cached=%t",
		res.Kind, res.Seed, g.Width, g.Height,
		len(res.Regions()), res.Platforms.Count(), len(res.Spawns.Spawns), len(res.Diagnostics.Unresolved),
		g.Entrance.X, g.Entrance.Y, g.Exit.X, g.Exit.Y, cached)
}
