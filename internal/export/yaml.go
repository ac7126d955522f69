// Package export writes generated rooms as YAML documents and ASCII maps.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/roomforge/internal/generator"
	"github.com/lawnchairsociety/roomforge/internal/grid"
)

// RoomDoc is a room in YAML form
type RoomDoc struct {
	Seed        string        `yaml:"seed"`
	Kind        string        `yaml:"kind"`
	Fingerprint string        `yaml:"fingerprint"`
	Width       int           `yaml:"width"`
	Height      int           `yaml:"height"`
	Entrance    PointDoc      `yaml:"entrance,flow"`
	Exit        PointDoc      `yaml:"exit,flow"`
	Map         yaml.Node     `yaml:"map"` // Glyph rows, top row first, as a literal block
	Regions     []RegionDoc   `yaml:"regions,omitempty"`
	Platforms   []PlatformDoc `yaml:"platforms,omitempty"`
	Spawns      []SpawnDoc    `yaml:"spawns,omitempty"`
	Unresolved  []PointDoc    `yaml:"unresolved,omitempty,flow"`
}

// PointDoc is a grid cell
type PointDoc struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// RegionDoc is a placed sub-room
type RegionDoc struct {
	ID   int    `yaml:"id"`
	Role string `yaml:"role"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	W    int    `yaml:"w"`
	H    int    `yaml:"h"`
}

// PlatformDoc is one placed platform; X is its left tile
type PlatformDoc struct {
	Source string `yaml:"source"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
}

// SpawnDoc is a selected spawn point
type SpawnDoc struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Kind   string `yaml:"kind"`
	Role   string `yaml:"role"`
	Span   int    `yaml:"span,omitempty"`
	Height int    `yaml:"height,omitempty"`
}

func pointDoc(p grid.Point) PointDoc {
	return PointDoc{X: p.X, Y: p.Y}
}

// FromResult builds the document for a generated room
func FromResult(res *generator.Result) *RoomDoc {
	g := res.Grid
	doc := &RoomDoc{
		Seed:        res.Seed,
		Kind:        res.Kind.String(),
		Fingerprint: res.Fingerprint,
		Width:       g.Width,
		Height:      g.Height,
		Entrance:    pointDoc(g.Entrance),
		Exit:        pointDoc(g.Exit),
		Map:         mapNode(g.Marked().Rows()),
	}

	for _, r := range res.Regions() {
		b := r.Bounds
		doc.Regions = append(doc.Regions, RegionDoc{ID: r.ID, Role: r.Role.String(), X: b.X, Y: b.Y, W: b.W, H: b.H})
	}
	for _, p := range res.Platforms.Placements {
		if len(p.Tiles) == 0 {
			continue
		}
		doc.Platforms = append(doc.Platforms, PlatformDoc{
			Source: p.Source.String(),
			X:      p.Tiles[0].X,
			Y:      p.Tiles[0].Y,
			Width:  len(p.Tiles),
		})
	}
	for _, sp := range res.Spawns.Spawns {
		doc.Spawns = append(doc.Spawns, SpawnDoc{
			X: sp.Pos.X, Y: sp.Pos.Y,
			Kind: sp.Kind.String(), Role: sp.Role.String(),
			Span: sp.Span, Height: sp.Height,
		})
	}
	for _, p := range res.Diagnostics.Unresolved {
		doc.Unresolved = append(doc.Unresolved, pointDoc(p))
	}
	return doc
}

// mapNode renders rows as a literal block scalar so the map stays readable in the file
func mapNode(rows []string) yaml.Node {
	return yaml.Node{
		Kind:  yaml.ScalarNode,
		Style: yaml.LiteralStyle,
		Tag:   "!!str",
		Value: strings.Join(rows, "\n") + "\n",
	}
}

// Rows returns the glyph rows of the map, top row first
func (d *RoomDoc) Rows() []string {
	return strings.Split(strings.TrimRight(d.Map.Value, "\n"), "\n")
}

// Grid rebuilds the tile grid. Anchors come from the entrance and exit fields.
func (d *RoomDoc) Grid() (*grid.Grid, error) {
	g, err := grid.ParseRows(d.Rows())
	if err != nil {
		return nil, fmt.Errorf("invalid map: %w", err)
	}
	if g.Width != d.Width || g.Height != d.Height {
		return nil, fmt.Errorf("map is %dx%d, document says %dx%d", g.Width, g.Height, d.Width, d.Height)
	}
	g.Entrance = grid.Point{X: d.Entrance.X, Y: d.Entrance.Y}
	g.Exit = grid.Point{X: d.Exit.X, Y: d.Exit.Y}
	return g, nil
}

// WriteRoomYAML writes the document with a comment header
func WriteRoomYAML(w io.Writer, doc *RoomDoc) error {
	fmt.Fprintf(w, "# %s room %dx%d\n", doc.Kind, doc.Width, doc.Height)
	fmt.Fprintf(w, "# Generated with seed: %q\n", doc.Seed)
	fmt.Fprintf(w, "# Regions: %d, platforms: %d, spawns: %d\n\n", len(doc.Regions), len(doc.Platforms), len(doc.Spawns))

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteRoomFile writes the room document for res to path
func WriteRoomFile(path string, res *generator.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := WriteRoomYAML(f, FromResult(res)); err != nil {
		return err
	}
	return f.Close()
}

// ReadRoomYAML parses a document written by WriteRoomYAML
func ReadRoomYAML(r io.Reader) (*RoomDoc, error) {
	var doc RoomDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode YAML: %w", err)
	}
	if doc.Map.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("map must be a block of glyph rows")
	}
	return &doc, nil
}
