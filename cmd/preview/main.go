package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/voidshard/northlands"
	"github.com/voidshard/northlands/preview"
)

const desc = `Shows a random grass map & the animated creature in the terminal. Esc or q quits.`

type options struct {
	Config string `short:"c" default:"~/.northlands.yaml" help:"config file (yaml), defaults used if missing"`
	Seed   int64  `short:"s" help:"map seed (overrides config, 0 picks from the clock)"`

	// load a saved map instead of generating one
	DB   string `help:"sqlite map database file"`
	Load string `help:"name of the map to load from --db"`
}

var cli options

func main() {
	kong.Parse(&cli, kong.Name("preview"), kong.Description(desc))

	if err := run(); err != nil {
		log.Fatal("preview failed", "err", err)
	}
}

func run() error {
	if cli.Load != "" && cli.DB == "" {
		return errors.New("--db is required to load a map")
	}

	cfg, err := northlands.LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	if cli.Seed != 0 {
		cfg.Seed = cli.Seed
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var m *northlands.GameMap
	if cli.Load != "" {
		store, err := northlands.OpenStore(cli.DB)
		if err != nil {
			return err
		}
		m, err = store.Load(ctx, cli.Load)
		store.Close()
		if err != nil {
			return err
		}
	} else {
		m = northlands.NewGameMap(cfg, nil)
	}

	c := cfg.Creature
	anim := northlands.NewTwoFrame(northlands.AnimationIndices{First: c.First, Last: c.Last}, c.FrameDuration)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	return preview.New(screen, m, anim).Run(ctx)
}
