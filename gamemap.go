package northlands

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrOutOfBounds is returned when a cell or index lies outside a map or atlas
	ErrOutOfBounds = errors.New("out of bounds")
)

// GameMap is a grid of tiles, stored row by row starting at (0,0).
type GameMap struct {
	Width  int
	Height int
	Seed   int64
	Tiles  []Tile

	props *Properties
}

// NewGameMap returns a map sized by `cfg` where every cell holds a random
// grass tile. If rng is nil one is seeded from cfg.Seed (or the clock if
// that's unset).
func NewGameMap(cfg *Config, rng *rand.Rand) *GameMap {
	seed := cfg.Seed
	if rng == nil {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	ts := NewTileset(cfg)
	m := EmptyGameMap(cfg.MapWidth, cfg.MapHeight)
	m.Seed = seed
	for i := range m.Tiles {
		m.Tiles[i] = ts.Random(rng)
	}

	m.props.SetInt(PropSeed, int(seed))
	return m
}

// EmptyGameMap returns a map of the given size with zero tiles.
func EmptyGameMap(width, height int) *GameMap {
	return &GameMap{
		Width:  width,
		Height: height,
		Tiles:  make([]Tile, width*height),
		props:  NewProperties(),
	}
}

// Size returns the map width & height in tiles
func (m *GameMap) Size() (int, int) {
	return m.Width, m.Height
}

// MapIndex returns the index into Tiles of (x, y).
func (m *GameMap) MapIndex(x, y int) int {
	return y*m.Width + x
}

// IndexToMap is the reverse of MapIndex.
func (m *GameMap) IndexToMap(index int) (int, int) {
	return index % m.Width, index / m.Width
}

// InBounds returns if (x, y) is a cell of the map.
func (m *GameMap) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// At returns the tile at (x, y).
func (m *GameMap) At(x, y int) (Tile, error) {
	if !m.InBounds(x, y) {
		return Tile{}, errors.Wrapf(ErrOutOfBounds, "cell (%d,%d) on %dx%d map", x, y, m.Width, m.Height)
	}
	return m.Tiles[m.MapIndex(x, y)], nil
}

// Set the tile at (x, y).
func (m *GameMap) Set(x, y int, t Tile) error {
	if !m.InBounds(x, y) {
		return errors.Wrapf(ErrOutOfBounds, "cell (%d,%d) on %dx%d map", x, y, m.Width, m.Height)
	}
	m.Tiles[m.MapIndex(x, y)] = t
	return nil
}

// Each calls fn for every cell in index order.
func (m *GameMap) Each(fn func(x, y int, t Tile)) {
	for i, t := range m.Tiles {
		x, y := m.IndexToMap(i)
		fn(x, y, t)
	}
}

// Properties returns properties set on the map itself
func (m *GameMap) Properties() *Properties {
	if m.props == nil {
		m.props = NewProperties()
	}
	return m.props
}

// SetProperties replaces the map's properties
func (m *GameMap) SetProperties(p *Properties) {
	m.props = p
}
