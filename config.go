package northlands

import (
	"io/ioutil"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Cell is a (column, row) position on a sprite sheet.
type Cell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// SheetConfig describes a sprite sheet laid out as a regular grid.
type SheetConfig struct {
	// relative to the asset root
	Image string `yaml:"image"`

	// in cells
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// CreatureConfig describes the animated creature sprite.
type CreatureConfig struct {
	Sheet SheetConfig `yaml:"sheet"`

	// the two sheet indices the animation flips between
	First int `yaml:"first"`
	Last  int `yaml:"last"`

	FrameDuration time.Duration `yaml:"frame_duration"`
}

// Config includes settings for the game, its map and its sprite sheets.
type Config struct {
	Title string `yaml:"title"`

	// in pixels
	ScreenWidth  int `yaml:"screen_width"`
	ScreenHeight int `yaml:"screen_height"`
	TileSize     int `yaml:"tile_size"`

	// in tiles
	MapWidth  int `yaml:"map_width"`
	MapHeight int `yaml:"map_height"`

	// random seed for map generation, 0 picks one from the clock
	Seed int64 `yaml:"seed"`

	// where assets live, TextureDir is loaded as a group relative to it
	AssetRoot  string `yaml:"asset_root"`
	TextureDir string `yaml:"texture_dir"`

	World SheetConfig `yaml:"world"`

	// atlas cells of the grass tiles, in TileType order
	Grass []Cell `yaml:"grass"`

	Creature CreatureConfig `yaml:"creature"`
}

// DefaultConfig returns a config with default settings.
func DefaultConfig() *Config {
	return &Config{
		Title:        "Northlands",
		ScreenWidth:  1024,
		ScreenHeight: 768,
		TileSize:     24,
		MapWidth:     40,
		MapHeight:    30,
		AssetRoot:    "assets",
		TextureDir:   "textures",
		World: SheetConfig{
			Image:   "textures/world.png",
			Columns: 55,
			Rows:    39,
		},
		Grass: []Cell{
			{X: 28, Y: 33},
			{X: 29, Y: 33},
			{X: 30, Y: 33},
			{X: 31, Y: 33},
		},
		Creature: CreatureConfig{
			Sheet: SheetConfig{
				Image:   "textures/creatures.png",
				Columns: 18,
				Rows:    22,
			},
			First:         0,
			Last:          1,
			FrameDuration: 500 * time.Millisecond,
		},
	}
}

// LoadConfig reads a YAML config from `path` over the defaults.
// A leading ~ is expanded to the user's home dir. If the file does not exist
// the defaults are returned.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	fpath, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "expanding config path %s", path)
	}

	data, err := ioutil.ReadFile(fpath)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", fpath)
	}

	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", fpath)
	}

	return cfg, cfg.Validate()
}

// Validate returns an error if the config can't describe a playable map.
func (c *Config) Validate() error {
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return errors.Errorf("screen size must be positive, got %dx%d", c.ScreenWidth, c.ScreenHeight)
	}
	if c.TileSize <= 0 {
		return errors.Errorf("tile size must be positive, got %d", c.TileSize)
	}
	if c.MapWidth <= 0 || c.MapHeight <= 0 {
		return errors.Errorf("map size must be positive, got %dx%d", c.MapWidth, c.MapHeight)
	}
	if c.World.Columns <= 0 || c.World.Rows <= 0 {
		return errors.Errorf("world sheet must have cells, got %dx%d", c.World.Columns, c.World.Rows)
	}
	if len(c.Grass) != numTileTypes {
		return errors.Errorf("expected %d grass cells, got %d", numTileTypes, len(c.Grass))
	}
	for _, g := range c.Grass {
		if g.X < 0 || g.X >= c.World.Columns || g.Y < 0 || g.Y >= c.World.Rows {
			return errors.Errorf("grass cell (%d,%d) is outside the %dx%d world sheet", g.X, g.Y, c.World.Columns, c.World.Rows)
		}
	}

	cs := c.Creature.Sheet
	if cs.Columns <= 0 || cs.Rows <= 0 {
		return errors.Errorf("creature sheet must have cells, got %dx%d", cs.Columns, cs.Rows)
	}
	for _, i := range []int{c.Creature.First, c.Creature.Last} {
		if i < 0 || i >= cs.Columns*cs.Rows {
			return errors.Errorf("creature index %d is outside the %dx%d sheet", i, cs.Columns, cs.Rows)
		}
	}
	if c.Creature.FrameDuration < 0 {
		return errors.Errorf("creature frame duration must not be negative")
	}
	return nil
}
