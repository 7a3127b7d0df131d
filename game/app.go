// Package game runs northlands scenes in a window on top of ebiten.
package game

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"

	"github.com/voidshard/northlands"
)

// AppState is where the app is in its lifecycle
type AppState int

const (
	// Setup waits for the texture folder to load
	Setup AppState = iota
	// Finished runs the scene
	Finished
)

func (s AppState) String() string {
	if s == Finished {
		return "finished"
	}
	return "setup"
}

// Scene is something the app can show once assets are loaded
type Scene interface {
	// Setup is called once, when all textures are loaded
	Setup(assets *northlands.AssetServer) error

	// Update advances the scene by dt
	Update(dt time.Duration) error

	// Draw the scene to the screen
	Draw(screen *ebiten.Image)
}

// App implements ebiten.Game. It loads the texture folder, waits for it to
// finish loading, then hands over to its scene.
type App struct {
	ctx    context.Context
	cfg    *northlands.Config
	assets *northlands.AssetServer
	scene  Scene
	logger *log.Logger

	state   AppState
	handles []northlands.Handle
}

// NewApp returns an app that will show `scene`.
func NewApp(ctx context.Context, cfg *northlands.Config, assets *northlands.AssetServer, scene Scene, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	return &App{
		ctx:    ctx,
		cfg:    cfg,
		assets: assets,
		scene:  scene,
		logger: logger,
		state:  Setup,
	}
}

// State returns the current app state
func (a *App) State() AppState {
	return a.state
}

// Update implements ebiten.Game
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if err := a.ctx.Err(); err != nil {
		return ebiten.Termination
	}
	return a.step(tickDuration())
}

// step advances the app by one tick of length dt.
func (a *App) step(dt time.Duration) error {
	switch a.state {
	case Setup:
		if a.handles == nil {
			return a.loadTextures()
		}
		return a.checkTextures()
	case Finished:
		return a.scene.Update(dt)
	}
	return nil
}

// loadTextures starts loading every image in the texture folder
func (a *App) loadTextures() error {
	handles, err := a.assets.LoadFolder(a.ctx, a.cfg.TextureDir)
	if err != nil {
		return err
	}
	a.handles = handles
	a.logger.Debug("loading textures", "dir", a.cfg.TextureDir, "count", len(handles))
	return nil
}

// checkTextures moves to Finished once the whole texture group is loaded
func (a *App) checkTextures() error {
	switch a.assets.GroupLoadState(a.handles) {
	case northlands.Loaded:
		return a.enter(Finished)
	case northlands.Failed:
		for _, h := range a.handles {
			if err := a.assets.Err(h); err != nil {
				return errors.Wrapf(err, "loading %s", h)
			}
		}
		return errors.New("loading textures failed")
	}
	return nil
}

// enter switches state, running the scene's setup on the way into Finished
func (a *App) enter(s AppState) error {
	a.logger.Info("app state", "from", a.state, "to", s)
	a.state = s
	if s == Finished {
		return a.scene.Setup(a.assets)
	}
	return nil
}

// Draw implements ebiten.Game
func (a *App) Draw(screen *ebiten.Image) {
	if a.state != Finished {
		ebitenutil.DebugPrint(screen, "loading ...")
		return
	}
	a.scene.Draw(screen)
}

// Layout implements ebiten.Game. The logical screen is always the
// configured size.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.ScreenWidth, a.cfg.ScreenHeight
}

// Run opens the window & blocks until the game ends.
func Run(app *App) error {
	ebiten.SetWindowSize(app.cfg.ScreenWidth, app.cfg.ScreenHeight)
	ebiten.SetWindowTitle(app.cfg.Title)

	err := ebiten.RunGame(app)
	if err == ebiten.Termination {
		return nil
	}
	return err
}

// tickDuration is the game time that passes each Update
func tickDuration() time.Duration {
	return time.Second / time.Duration(ebiten.TPS())
}
