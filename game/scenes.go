package game

import (
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"

	"github.com/voidshard/northlands"
)

// sprite is one image placed at a screen position
type sprite struct {
	img  *ebiten.Image
	x, y float64
}

func (s *sprite) draw(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(s.x, s.y)
	screen.DrawImage(s.img, op)
}

// loadAtlas turns a loaded sheet into an atlas of ebiten images
func loadAtlas(assets *northlands.AssetServer, tileSize int, sheet northlands.SheetConfig) (*northlands.Atlas, error) {
	h := assets.Handle(sheet.Image)
	img, ok := assets.Image(h)
	if !ok {
		return nil, errors.Errorf("sheet %s is not loaded (%s)", h, assets.LoadState(h))
	}
	return northlands.NewAtlasFromSheet(ebiten.NewImageFromImage(img), tileSize, sheet)
}

// ebitenSprite cuts sprite `index` from an atlas of ebiten images
func ebitenSprite(atlas *northlands.Atlas, index int) (*ebiten.Image, error) {
	img, err := atlas.Sprite(index)
	if err != nil {
		return nil, err
	}
	eimg, ok := img.(*ebiten.Image)
	if !ok {
		return nil, errors.Errorf("sprite %d is %T, not an ebiten image", index, img)
	}
	return eimg, nil
}

// MapScene shows a random grass map centred on screen.
type MapScene struct {
	cfg *northlands.Config
	rng *rand.Rand

	gmap    *northlands.GameMap
	sprites []*sprite
}

// NewMapScene returns a map scene; rng may be nil to seed from the config.
func NewMapScene(cfg *northlands.Config, rng *rand.Rand) *MapScene {
	return &MapScene{cfg: cfg, rng: rng}
}

// Map returns the map being shown (nil before Setup)
func (s *MapScene) Map() *northlands.GameMap {
	return s.gmap
}

// Setup implements Scene
func (s *MapScene) Setup(assets *northlands.AssetServer) error {
	atlas, err := loadAtlas(assets, s.cfg.TileSize, s.cfg.World)
	if err != nil {
		return err
	}

	s.gmap = northlands.NewGameMap(s.cfg, s.rng)
	layout := northlands.NewLayout(s.cfg)

	s.sprites = make([]*sprite, 0, len(s.gmap.Tiles))
	s.gmap.Each(func(x, y int, t northlands.Tile) {
		if err != nil {
			return
		}
		var img *ebiten.Image
		img, err = ebitenSprite(atlas, t.Index)
		if err != nil {
			return
		}
		sx, sy := layout.Screen(x, y, s.cfg.ScreenWidth, s.cfg.ScreenHeight)
		s.sprites = append(s.sprites, &sprite{img: img, x: sx, y: sy})
	})
	return err
}

// Update implements Scene. The map is static.
func (s *MapScene) Update(dt time.Duration) error {
	return nil
}

// Draw implements Scene
func (s *MapScene) Draw(screen *ebiten.Image) {
	for _, sp := range s.sprites {
		sp.draw(screen)
	}
}

// CreatureScene shows one creature flipping between two frames.
type CreatureScene struct {
	cfg *northlands.Config

	anim   *northlands.TwoFrame
	frames map[int]*ebiten.Image
	x, y   float64
}

// NewCreatureScene returns a creature scene
func NewCreatureScene(cfg *northlands.Config) *CreatureScene {
	c := cfg.Creature
	return &CreatureScene{
		cfg:  cfg,
		anim: northlands.NewTwoFrame(northlands.AnimationIndices{First: c.First, Last: c.Last}, c.FrameDuration),
	}
}

// Animation returns the creature's animation
func (s *CreatureScene) Animation() *northlands.TwoFrame {
	return s.anim
}

// Setup implements Scene
func (s *CreatureScene) Setup(assets *northlands.AssetServer) error {
	atlas, err := loadAtlas(assets, s.cfg.TileSize, s.cfg.Creature.Sheet)
	if err != nil {
		return err
	}

	s.frames = map[int]*ebiten.Image{}
	for _, i := range []int{s.anim.Indices.First, s.anim.Indices.Last} {
		img, err := ebitenSprite(atlas, i)
		if err != nil {
			return err
		}
		s.frames[i] = img
	}

	half := float64(s.cfg.TileSize) / 2
	s.x = float64(s.cfg.ScreenWidth)/2 - half
	s.y = float64(s.cfg.ScreenHeight)/2 - half
	return nil
}

// Update implements Scene
func (s *CreatureScene) Update(dt time.Duration) error {
	s.anim.Update(dt)
	return nil
}

// frame returns the current animation frame placed on screen, false
// before Setup.
func (s *CreatureScene) frame() (*sprite, bool) {
	img, ok := s.frames[s.anim.Index]
	if !ok {
		return nil, false
	}
	return &sprite{img: img, x: s.x, y: s.y}, true
}

// Draw implements Scene
func (s *CreatureScene) Draw(screen *ebiten.Image) {
	if sp, ok := s.frame(); ok {
		sp.draw(screen)
	}
}

// NewScene returns the scene called `name` ("map" or "creature").
func NewScene(name string, cfg *northlands.Config, rng *rand.Rand) (Scene, error) {
	switch name {
	case "map":
		return NewMapScene(cfg, rng), nil
	case "creature":
		return NewCreatureScene(cfg), nil
	}
	return nil, errors.Errorf("unknown scene %q", name)
}
