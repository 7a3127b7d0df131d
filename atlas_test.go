package northlands

import (
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cellColor is the colour testSheet fills cell `index` with
func cellColor(index int) color.RGBA {
	return color.RGBA{R: uint8(index * 10), G: 200, B: 0, A: 255}
}

// testSheet returns a sheet of columns x rows cells, each filled with a
// colour unique to its index
func testSheet(tile, columns, rows int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, tile*columns, tile*rows))
	for i := 0; i < columns*rows; i++ {
		x0 := (i % columns) * tile
		y0 := (i / columns) * tile
		for y := y0; y < y0+tile; y++ {
			for x := x0; x < x0+tile; x++ {
				img.Set(x, y, cellColor(i))
			}
		}
	}
	return img
}

func TestAtlasRect(t *testing.T) {
	a, err := NewAtlas(testSheet(2, 3, 2), 2, 2, 3, 2, image.Point{}, image.Point{})
	require.Nil(t, err)

	assert.Equal(t, 6, a.Len())

	r, err := a.Rect(0)
	assert.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), r)

	r, err = a.Rect(4)
	assert.Nil(t, err)
	assert.Equal(t, image.Rect(2, 2, 4, 4), r)

	_, err = a.Rect(6)
	assert.Equal(t, ErrOutOfBounds, errors.Cause(err))
	_, err = a.Rect(-1)
	assert.Equal(t, ErrOutOfBounds, errors.Cause(err))
}

func TestAtlasPaddingOffset(t *testing.T) {
	a, err := NewAtlas(nil, 4, 4, 5, 5, image.Pt(1, 2), image.Pt(3, 3))
	require.Nil(t, err)
	assert.Equal(t, image.Pt(1, 2), a.Padding)
	assert.Equal(t, image.Pt(3, 3), a.Offset)

	r, err := a.Rect(6) // column 1, row 1
	assert.Nil(t, err)
	assert.Equal(t, image.Rect(8, 9, 12, 13), r)
}

func TestAtlasPaddedSprite(t *testing.T) {
	// 2x1 cells of 2px, 1px gap between them & a 1px border
	img := image.NewRGBA(image.Rect(0, 0, 7, 4))
	for y := 1; y < 3; y++ {
		img.Set(1, y, cellColor(0))
		img.Set(2, y, cellColor(0))
		img.Set(4, y, cellColor(1))
		img.Set(5, y, cellColor(1))
	}

	a, err := NewAtlas(img, 2, 2, 2, 1, image.Pt(1, 0), image.Pt(1, 1))
	require.Nil(t, err)

	for i := 0; i < a.Len(); i++ {
		s, err := a.Sprite(i)
		require.Nil(t, err)
		b := s.Bounds()
		assert.Equal(t, cellColor(i), color.RGBAModel.Convert(s.At(b.Min.X, b.Min.Y)))
		assert.Equal(t, cellColor(i), color.RGBAModel.Convert(s.At(b.Max.X-1, b.Max.Y-1)))
	}
}

func TestAtlasSprite(t *testing.T) {
	a, err := NewAtlas(testSheet(2, 3, 2), 2, 2, 3, 2, image.Point{}, image.Point{})
	require.Nil(t, err)

	for i := 0; i < a.Len(); i++ {
		s, err := a.Sprite(i)
		require.Nil(t, err)

		b := s.Bounds()
		assert.Equal(t, 2, b.Dx())
		assert.Equal(t, 2, b.Dy())
		assert.Equal(t, cellColor(i), color.RGBAModel.Convert(s.At(b.Min.X, b.Min.Y)))
		assert.Equal(t, cellColor(i), color.RGBAModel.Convert(s.At(b.Max.X-1, b.Max.Y-1)))
	}
}

func TestAtlasSpriteOutsideImage(t *testing.T) {
	// grid claims more rows than the image has
	a, err := NewAtlas(testSheet(2, 3, 2), 2, 2, 3, 3, image.Point{}, image.Point{})
	require.Nil(t, err)

	_, err = a.Sprite(7)
	assert.Equal(t, ErrOutOfBounds, errors.Cause(err))
}

func TestNewAtlasInvalid(t *testing.T) {
	_, err := NewAtlas(nil, 0, 2, 3, 3, image.Point{}, image.Point{})
	assert.NotNil(t, err)

	_, err = NewAtlas(nil, 2, 2, 3, 3, image.Pt(-1, 0), image.Point{})
	assert.NotNil(t, err)

	_, err = NewAtlasFromSheet(nil, 24, SheetConfig{Columns: 0, Rows: 3})
	assert.NotNil(t, err)
}
