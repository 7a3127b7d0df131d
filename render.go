package northlands

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// RenderMap draws every cell of `g` onto a new image the size of the map,
// taking each cell's sprite from the atlas. Row 0 is drawn at the bottom, as
// it appears in game.
func RenderMap(g Grid, atlas *Atlas, l Layout) (image.Image, error) {
	w, h := g.Size()
	l.MapWidth, l.MapHeight = w, h

	pw, ph := l.PixelSize()
	dc := gg.NewContext(pw, ph)
	dc.SetColor(color.Black)
	dc.Clear()

	var err error
	g.Each(func(x, y int, t Tile) {
		if err != nil {
			return
		}

		sprite, serr := atlas.Sprite(t.Index)
		if serr != nil {
			err = errors.Wrapf(serr, "cell (%d,%d)", x, y)
			return
		}

		// sub images keep their position on the sheet
		b := sprite.Bounds()
		cx, cy := l.Canvas(x, y)
		dc.DrawImage(sprite, cx-b.Min.X, cy-b.Min.Y)
	})
	if err != nil {
		return nil, err
	}

	return dc.Image(), nil
}

// Scale resizes an image by an integer factor. Nearest neighbour keeps
// pixel art crisp.
func Scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	return resize.Resize(uint(b.Dx()*factor), uint(b.Dy()*factor), img, resize.NearestNeighbor)
}

// SavePNG writes an image to disk
func SavePNG(fpath string, img image.Image) error {
	return errors.Wrapf(gg.SavePNG(fpath, img), "saving %s", fpath)
}
