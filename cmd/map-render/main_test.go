package main

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/northlands"
)

// writeSheet writes a blank world sheet sized for the default config
func writeSheet(t *testing.T, root string) {
	cfg := northlands.DefaultConfig()
	fpath := filepath.Join(root, cfg.World.Image)
	require.Nil(t, os.MkdirAll(filepath.Dir(fpath), 0755))

	f, err := os.Create(fpath)
	require.Nil(t, err)
	defer f.Close()

	img := image.NewRGBA(image.Rect(0, 0, cfg.World.Columns*cfg.TileSize, cfg.World.Rows*cfg.TileSize))
	require.Nil(t, png.Encode(f, img))
}

func TestRunNeedsDB(t *testing.T) {
	dir := t.TempDir()
	for _, o := range []options{
		{Save: "m"},
		{Load: "m"},
		{Delete: "m"},
		{List: true},
	} {
		o.Config = filepath.Join(dir, "missing.yaml")
		o.Scale = 1
		cli = o

		err := run(context.Background())
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "--db is required")
	}
}

func TestRunMissingWorldSheet(t *testing.T) {
	dir := t.TempDir()
	cli = options{
		Config: filepath.Join(dir, "missing.yaml"),
		Assets: dir,
		Output: filepath.Join(dir, "out.png"),
		Scale:  1,
		Width:  3,
		Height: 2,
	}

	err := run(context.Background())

	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "loading world sheet")
	assert.True(t, os.IsNotExist(errors.Cause(err)), "%v", err)
}

func TestRunRendersAndSaves(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir)

	cli = options{
		Config: filepath.Join(dir, "missing.yaml"),
		Assets: dir,
		Seed:   5,
		Width:  3,
		Height: 2,
		Output: filepath.Join(dir, "out.png"),
		Scale:  2,
		TMX:    filepath.Join(dir, "out.tmx"),
		DB:     filepath.Join(dir, "maps.db"),
		Save:   "home",
	}
	require.Nil(t, run(context.Background()))

	f, err := os.Open(cli.Output)
	require.Nil(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.Nil(t, err)
	assert.Equal(t, 3*24*2, cfg.Width)
	assert.Equal(t, 2*24*2, cfg.Height)

	m, err := northlands.OpenTMX(cli.TMX, northlands.NewTileset(northlands.DefaultConfig()))
	require.Nil(t, err)
	assert.Equal(t, int64(5), m.Seed)

	store, err := northlands.OpenStore(cli.DB)
	require.Nil(t, err)
	defer store.Close()
	saved, err := store.Load(context.Background(), "home")
	require.Nil(t, err)
	assert.Equal(t, m.Tiles, saved.Tiles)
}
