package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/voidshard/northlands"
)

const desc = `Generates a random grass map (or loads one from a map database) and writes it out
as a .png image and/or a .tmx map (doc.mapeditor.org/en/stable/) that Tiled can open.

Maps can be saved to & loaded from an sqlite map database by name.`

type options struct {
	Config string `short:"c" default:"~/.northlands.yaml" help:"config file (yaml), defaults used if missing"`

	// map generation; zero values keep the config's settings
	Seed   int64 `short:"s" help:"map seed (0 picks from the clock)"`
	Width  int   `help:"map width in tiles"`
	Height int   `help:"map height in tiles"`

	// outputs
	Output string `short:"o" help:"write the map as a .png here"`
	Scale  int    `default:"1" help:"scale the .png by this factor"`
	TMX    string `short:"t" help:"write the map as a .tmx here"`
	Assets string `short:"a" help:"asset root dir, where the world sheet is read from (overrides config)"`

	// map database
	DB     string `help:"sqlite map database file"`
	Save   string `help:"save the map to the database under this name"`
	Load   string `help:"load this map from the database instead of generating one"`
	Delete string `help:"delete this map from the database"`
	List   bool   `help:"list maps in the database"`

	// set properties on the map
	Props map[string]string `short:"p" help:"set props on resulting map"`

	Debug bool `help:"debug logging"`
}

var cli options

func main() {
	kong.Parse(&cli, kong.Name("map-render"), kong.Description(desc))

	if cli.Debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx); err != nil {
		log.Fatal("map-render failed", "err", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := northlands.LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	if cli.Seed != 0 {
		cfg.Seed = cli.Seed
	}
	if cli.Width > 0 {
		cfg.MapWidth = cli.Width
	}
	if cli.Height > 0 {
		cfg.MapHeight = cli.Height
	}
	if cli.Assets != "" {
		cfg.AssetRoot = cli.Assets
	}

	var store *northlands.Store
	if cli.DB != "" {
		store, err = northlands.OpenStore(cli.DB)
		if err != nil {
			return err
		}
		defer store.Close()
	} else if cli.Save != "" || cli.Load != "" || cli.Delete != "" || cli.List {
		return errors.New("--db is required to save, load, delete or list maps")
	}

	if cli.List {
		names, err := store.List(ctx)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	}
	if cli.Delete != "" {
		log.Info("deleting map", "name", cli.Delete, "db", store.Filename())
		return store.Delete(ctx, cli.Delete)
	}

	var m *northlands.GameMap
	if cli.Load != "" {
		m, err = store.Load(ctx, cli.Load)
		if err != nil {
			return err
		}
		log.Info("loaded map", "name", cli.Load, "width", m.Width, "height", m.Height, "seed", m.Seed)
	} else {
		m = northlands.NewGameMap(cfg, nil)
		log.Info("generated map", "width", m.Width, "height", m.Height, "seed", m.Seed)
	}

	props := m.Properties()
	for k, v := range cli.Props {
		props.Parse(k, v)
	}

	if cli.Save != "" {
		if err := store.Save(ctx, cli.Save, m); err != nil {
			return err
		}
		log.Info("saved map", "name", cli.Save, "db", store.Filename())
	}

	if cli.TMX != "" {
		if err := m.WriteTMX(cli.TMX, northlands.NewTMXOptions(cfg)); err != nil {
			return err
		}
		log.Info("wrote tmx", "path", cli.TMX)
	}

	if cli.Output != "" {
		if err := renderPNG(ctx, cfg, m); err != nil {
			return err
		}
		log.Info("wrote png", "path", cli.Output, "scale", cli.Scale)
	}

	return nil
}

// renderPNG draws the map from the world sheet & writes it to cli.Output
func renderPNG(ctx context.Context, cfg *northlands.Config, m *northlands.GameMap) error {
	assets := northlands.NewAssetServer(cfg.AssetRoot)
	h := assets.Load(ctx, cfg.World.Image)
	if err := assets.Wait(ctx); err != nil {
		return err
	}

	img, ok := assets.Image(h)
	if !ok {
		cause := assets.Err(h)
		if cause == nil {
			cause = errors.Errorf("asset is %s", assets.LoadState(h))
		}
		return errors.Wrapf(cause, "loading world sheet %s", filepath.Join(cfg.AssetRoot, cfg.World.Image))
	}

	atlas, err := northlands.NewAtlasFromSheet(img, cfg.TileSize, cfg.World)
	if err != nil {
		return err
	}

	out, err := northlands.RenderMap(m, atlas, northlands.NewLayout(cfg))
	if err != nil {
		return err
	}

	return northlands.SavePNG(cli.Output, northlands.Scale(out, cli.Scale))
}
