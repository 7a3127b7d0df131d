package northlands

import (
	"image"

	"github.com/pkg/errors"
)

// subImager is implemented by most image types in the std lib (and by
// ebiten.Image, though that returns an image.Image of its own type)
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Atlas cuts a sprite sheet into a grid of equally sized cells, numbered
// row by row from the top left.
type Atlas struct {
	Image image.Image

	TileWidth  int
	TileHeight int
	Columns    int
	Rows       int

	// gap between cells & offset of the first cell, in pixels
	Padding image.Point
	Offset  image.Point
}

// NewAtlas returns an atlas over `img` with the given cell size & grid.
// Cells are `padding` apart and the first starts at `offset` (both in pixels).
func NewAtlas(img image.Image, tileWidth, tileHeight, columns, rows int, padding, offset image.Point) (*Atlas, error) {
	if tileWidth <= 0 || tileHeight <= 0 || columns <= 0 || rows <= 0 {
		return nil, errors.Errorf("invalid atlas grid %dx%d of %dx%d cells", columns, rows, tileWidth, tileHeight)
	}
	if padding.X < 0 || padding.Y < 0 || offset.X < 0 || offset.Y < 0 {
		return nil, errors.Errorf("invalid atlas padding %v or offset %v", padding, offset)
	}
	return &Atlas{
		Image:      img,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		Columns:    columns,
		Rows:       rows,
		Padding:    padding,
		Offset:     offset,
	}, nil
}

// NewAtlasFromSheet builds an unpadded atlas from a sheet config with square tiles.
func NewAtlasFromSheet(img image.Image, tileSize int, sheet SheetConfig) (*Atlas, error) {
	return NewAtlas(img, tileSize, tileSize, sheet.Columns, sheet.Rows, image.Point{}, image.Point{})
}

// Len is the number of cells in the atlas.
func (a *Atlas) Len() int {
	return a.Columns * a.Rows
}

// Rect returns the pixel rectangle of the cell at `index`.
func (a *Atlas) Rect(index int) (image.Rectangle, error) {
	if index < 0 || index >= a.Len() {
		return image.Rectangle{}, errors.Wrapf(ErrOutOfBounds, "sprite %d of %d", index, a.Len())
	}

	col := index % a.Columns
	row := index / a.Columns

	x := a.Offset.X + col*(a.TileWidth+a.Padding.X)
	y := a.Offset.Y + row*(a.TileHeight+a.Padding.Y)

	r := image.Rect(x, y, x+a.TileWidth, y+a.TileHeight)
	if a.Image != nil {
		r = r.Add(a.Image.Bounds().Min)
	}
	return r, nil
}

// Sprite returns the image of the cell at `index`.
func (a *Atlas) Sprite(index int) (image.Image, error) {
	r, err := a.Rect(index)
	if err != nil {
		return nil, err
	}
	if a.Image == nil {
		return nil, errors.New("atlas has no image")
	}
	if !r.In(a.Image.Bounds()) {
		return nil, errors.Wrapf(ErrOutOfBounds, "sprite %d at %v outside image %v", index, r, a.Image.Bounds())
	}

	si, ok := a.Image.(subImager)
	if ok {
		return si.SubImage(r), nil
	}

	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for dy := r.Min.Y; dy < r.Max.Y; dy++ {
		for dx := r.Min.X; dx < r.Max.X; dx++ {
			out.Set(dx-r.Min.X, dy-r.Min.Y, a.Image.At(dx, dy))
		}
	}
	return out, nil
}
