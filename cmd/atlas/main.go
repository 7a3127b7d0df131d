package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/nfnt/resize"

	"github.com/voidshard/northlands"
)

const desc = `Cuts a sprite sheet into one .png per cell.

Cells are numbered row by row from the top left, the same sprite index the game uses, and
written as <name>.<index>.png. Sheets that aren't an exact multiple of the tile size can be
resized to the nearest whole number of tiles first.`

var cli struct {
	// input sheet to cut cells out from
	Input string `short:"i" required:"" help:"input sprite sheet"`

	// where to write cells & what to call them
	Output string `short:"o" default:"." help:"output dir"`
	Name   string `short:"n" default:"cell" help:"output name prefix"`

	// tell us it's ok to overwrite existing stuff (default: no)
	Overwrite bool `help:"overwrite existing file(s) if found"`

	TileWidth  int `default:"24" help:"width of each cell in px"`
	TileHeight int `default:"24" help:"height of each cell in px"`

	// only cut these indices, all if empty
	Only []int `help:"only cut out these sprite indices"`

	Fit   bool `help:"resize the sheet to the nearest whole number of cells first"`
	Scale int  `default:"1" help:"scale each cell by this factor"`

	// don't write anything
	DryRun bool `help:"print out what you're planning"`
}

// fileExists checks if file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}

// sizeToTiles forces input image to be of a width, height of some multiple(s)
// of given input tx,ty (tile x,y size in pixels).
// We default to 1 tile high/wide. Image will be resized to the nearest full
// tile (resized either up or down)
func sizeToTiles(in image.Image, tx, ty int) image.Image {
	width := in.Bounds().Dx()
	height := in.Bounds().Dy()

	fitx := width / tx
	fity := height / ty

	// if we're more than half a tile short, make the image bigger
	// to fit, otherwise we'll resize downwards, shrinking the image
	if width%tx > tx/2 {
		fitx++
	}
	if height%ty > ty/2 {
		fity++
	}

	if fitx < 1 {
		fitx = 1
	}
	if fity < 1 {
		fity = 1
	}

	return resize.Resize(
		uint(fitx*tx),
		uint(fity*ty),
		in,
		resize.Lanczos3,
	)
}

func main() {
	kong.Parse(
		&cli,
		kong.Name("atlas"),
		kong.Description(desc),
	)

	if err := run(context.Background()); err != nil {
		log.Fatal("atlas failed", "err", err)
	}
}

func run(ctx context.Context) error {
	dir, file := filepath.Split(cli.Input)
	assets := northlands.NewAssetServer(dir)
	h := assets.Load(ctx, file)
	if err := assets.Wait(ctx); err != nil {
		return err
	}
	in, ok := assets.Image(h)
	if !ok {
		return assets.Err(h)
	}

	if cli.Fit {
		in = sizeToTiles(in, cli.TileWidth, cli.TileHeight)
	}

	columns := in.Bounds().Dx() / cli.TileWidth
	rows := in.Bounds().Dy() / cli.TileHeight
	atlas, err := northlands.NewAtlas(in, cli.TileWidth, cli.TileHeight, columns, rows, image.Point{}, image.Point{})
	if err != nil {
		return err
	}

	indices := cli.Only
	if len(indices) == 0 {
		for i := 0; i < atlas.Len(); i++ {
			indices = append(indices, i)
		}
	}

	log.Info("cutting sheet", "input", cli.Input, "columns", columns, "rows", rows, "cells", len(indices))
	if cli.DryRun {
		log.Info("dry-run detected: doing nothing")
		return nil
	}

	if err := os.MkdirAll(cli.Output, 0755); err != nil {
		return err
	}

	written := 0
	for _, i := range indices {
		cell, err := atlas.Sprite(i)
		if err != nil {
			return err
		}

		fname := filepath.Join(cli.Output, fmt.Sprintf("%s.%d.png", cli.Name, i))
		if fileExists(fname) && !cli.Overwrite {
			log.Warn("skipping, file exists", "path", fname)
			continue
		}

		if err := northlands.SavePNG(fname, northlands.Scale(cell, cli.Scale)); err != nil {
			return err
		}
		written++
	}

	log.Info("done", "written", written, "dir", cli.Output)
	return nil
}
