package northlands

import (
	"math/rand"
)

// TileType is the kind of terrain in a map cell
type TileType int

const (
	Grass1 TileType = iota
	Grass2
	Grass3
	Grass4
)

// Custom is a tile whose sprite isn't one of the known grass cells
const Custom TileType = -1

const numTileTypes = 4

// numSpawnTypes is how many grass types random maps draw from. Grass4 has an
// atlas cell & is recognised when loading maps, but is never generated.
const numSpawnTypes = 3

func (t TileType) String() string {
	switch t {
	case Grass1:
		return "grass1"
	case Grass2:
		return "grass2"
	case Grass3:
		return "grass3"
	case Grass4:
		return "grass4"
	case Custom:
		return "custom"
	}
	return "unknown"
}

// RandomTileType picks one of Grass1, Grass2 or Grass3, each equally likely.
func RandomTileType(rng *rand.Rand) TileType {
	return TileType(rng.Intn(numSpawnTypes))
}

// Tile is a single map cell. Index is the sprite index of the cell's image
// on the world atlas.
type Tile struct {
	Type  TileType
	Index int
}

// AtlasIndex turns (x,y) on a sprite sheet `columns` cells wide into a linear
// sprite index.
func AtlasIndex(columns, x, y int) int {
	return y*columns + x
}

// Tileset maps tile types to atlas cells for a given world sheet.
type Tileset struct {
	columns int
	cells   []Cell
}

// NewTileset returns the tileset described by the config's world sheet & grass cells.
func NewTileset(cfg *Config) *Tileset {
	return &Tileset{columns: cfg.World.Columns, cells: cfg.Grass}
}

// TileFor returns the tile for the given type. Types without an atlas cell
// give a Custom tile at index 0.
func (ts *Tileset) TileFor(t TileType) Tile {
	if t < 0 || int(t) >= len(ts.cells) {
		return Tile{Type: Custom}
	}
	c := ts.cells[t]
	return Tile{Type: t, Index: AtlasIndex(ts.columns, c.X, c.Y)}
}

// TypeOf returns the tile type whose atlas cell is `index`, or Custom.
func (ts *Tileset) TypeOf(index int) TileType {
	for i, c := range ts.cells {
		if AtlasIndex(ts.columns, c.X, c.Y) == index {
			return TileType(i)
		}
	}
	return Custom
}

// TileAt returns the tile for a sprite index.
func (ts *Tileset) TileAt(index int) Tile {
	return Tile{Type: ts.TypeOf(index), Index: index}
}

// Random returns a random grass tile.
func (ts *Tileset) Random(rng *rand.Rand) Tile {
	return ts.TileFor(RandomTileType(rng))
}
