package game

import (
	"context"
	"image"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/northlands"
)

type fakeScene struct {
	setups  int
	updates []time.Duration
}

func (f *fakeScene) Setup(assets *northlands.AssetServer) error {
	f.setups++
	return nil
}

func (f *fakeScene) Update(dt time.Duration) error {
	f.updates = append(f.updates, dt)
	return nil
}

func (f *fakeScene) Draw(screen *ebiten.Image) {}

func writePNG(t *testing.T, fpath string, w, h int) {
	require.Nil(t, os.MkdirAll(filepath.Dir(fpath), 0755))
	f, err := os.Create(fpath)
	require.Nil(t, err)
	defer f.Close()
	require.Nil(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func newTestApp(t *testing.T, root string, scene Scene) (*App, *northlands.AssetServer) {
	cfg := northlands.DefaultConfig()
	cfg.AssetRoot = root
	assets := northlands.NewAssetServer(root)
	return NewApp(context.Background(), cfg, assets, scene, log.New(ioutil.Discard)), assets
}

func TestAppSetupToFinished(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "textures", "world.png"), 48, 48)
	writePNG(t, filepath.Join(root, "textures", "creatures.png"), 48, 48)

	scene := &fakeScene{}
	app, assets := newTestApp(t, root, scene)

	assert.Equal(t, Setup, app.State())
	require.Nil(t, app.step(time.Millisecond)) // starts loading
	require.Nil(t, assets.Wait(context.Background()))

	require.Nil(t, app.step(time.Millisecond)) // sees the group is loaded
	assert.Equal(t, Finished, app.State())
	assert.Equal(t, 1, scene.setups)
	assert.Empty(t, scene.updates)

	require.Nil(t, app.step(20*time.Millisecond))
	assert.Equal(t, []time.Duration{20 * time.Millisecond}, scene.updates)
	assert.Equal(t, 1, scene.setups)
}

func TestAppMissingTextureFolder(t *testing.T) {
	app, _ := newTestApp(t, t.TempDir(), &fakeScene{})

	err := app.step(time.Millisecond)

	assert.NotNil(t, err)
	assert.Equal(t, Setup, app.State())
}

func TestAppFailedTexture(t *testing.T) {
	root := t.TempDir()
	require.Nil(t, os.MkdirAll(filepath.Join(root, "textures"), 0755))
	require.Nil(t, ioutil.WriteFile(filepath.Join(root, "textures", "broken.png"), []byte("nope"), 0644))

	scene := &fakeScene{}
	app, assets := newTestApp(t, root, scene)

	require.Nil(t, app.step(time.Millisecond))
	require.Nil(t, assets.Wait(context.Background()))

	err := app.step(time.Millisecond)
	assert.NotNil(t, err)
	assert.Equal(t, Setup, app.State())
	assert.Equal(t, 0, scene.setups)
}

func TestAppLayout(t *testing.T) {
	app, _ := newTestApp(t, t.TempDir(), &fakeScene{})

	w, h := app.Layout(10, 10)

	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
}

func TestNewScene(t *testing.T) {
	cfg := northlands.DefaultConfig()

	s, err := NewScene("map", cfg, nil)
	require.Nil(t, err)
	assert.IsType(t, &MapScene{}, s)

	s, err = NewScene("creature", cfg, nil)
	require.Nil(t, err)
	assert.IsType(t, &CreatureScene{}, s)

	_, err = NewScene("dungeon", cfg, nil)
	assert.NotNil(t, err)
}

func TestCreatureSceneFlips(t *testing.T) {
	cfg := northlands.DefaultConfig()
	cfg.Creature.First = 3
	cfg.Creature.Last = 7
	cfg.Creature.FrameDuration = 100 * time.Millisecond

	s := NewCreatureScene(cfg)
	assert.Equal(t, 3, s.Animation().Index)

	require.Nil(t, s.Update(60*time.Millisecond))
	assert.Equal(t, 3, s.Animation().Index)

	require.Nil(t, s.Update(60*time.Millisecond))
	assert.Equal(t, 7, s.Animation().Index)

	require.Nil(t, s.Update(100*time.Millisecond))
	assert.Equal(t, 3, s.Animation().Index)
}
