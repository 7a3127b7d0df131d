package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/pkg/profile"

	"github.com/voidshard/northlands"
	"github.com/voidshard/northlands/game"
)

const desc = `Opens the northlands window on one of the prototype scenes.

map      a random grass map, centred on screen
creature a single creature sprite flipping between two frames`

var cli struct {
	Config string `short:"c" default:"~/.northlands.yaml" help:"config file (yaml), defaults used if missing"`

	Scene string `arg default:"map" help:"scene to show: map or creature"`

	Assets string `short:"a" help:"asset root dir (overrides config)"`
	Seed   int64  `short:"s" help:"map seed (overrides config, 0 picks from the clock)"`

	Debug   bool   `help:"debug logging"`
	Profile string `help:"profile the run: cpu or mem"`
}

func main() {
	kong.Parse(
		&cli,
		kong.Name("northlands"),
		kong.Description(desc),
	)

	if cli.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if err := run(); err != nil {
		log.Fatal("game ended", "err", err)
	}
	log.Info("bye")
}

func run() error {
	if stop := startProfile(cli.Profile); stop != nil {
		defer stop()
	}

	cfg, err := northlands.LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	if cli.Assets != "" {
		cfg.AssetRoot = cli.Assets
	}
	if cli.Seed != 0 {
		cfg.Seed = cli.Seed
	}

	scene, err := game.NewScene(cli.Scene, cfg, nil)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	assets := northlands.NewAssetServer(cfg.AssetRoot)
	app := game.NewApp(ctx, cfg, assets, scene, log.Default())

	log.Info("starting", "scene", cli.Scene, "assets", cfg.AssetRoot, "seed", cfg.Seed)
	return game.Run(app)
}

// startProfile starts the requested profiler & returns a func to stop it
func startProfile(kind string) func() {
	switch kind {
	case "":
		return nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop
	}
	log.Warn("unknown profile kind, not profiling", "profile", kind)
	return nil
}
