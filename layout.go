package northlands

// Layout places map cells in pixel space.
//
// World coordinates are y-up with the camera (and the map's centre) at the
// origin; a cell's world position is the centre of its sprite. Screen and
// canvas coordinates are y-down with (0,0) at the top left, so row 0 of the
// map is drawn at the bottom.
type Layout struct {
	TileSize  int
	MapWidth  int
	MapHeight int
}

// NewLayout returns the layout for the map & tile size in `cfg`.
func NewLayout(cfg *Config) Layout {
	return Layout{TileSize: cfg.TileSize, MapWidth: cfg.MapWidth, MapHeight: cfg.MapHeight}
}

func (l Layout) halfTile() float64 {
	return float64(l.TileSize) / 2
}

// HalfMapPixelWidth is half the width of the whole map in pixels.
func (l Layout) HalfMapPixelWidth() float64 {
	return float64(l.MapWidth) * float64(l.TileSize) / 2
}

// HalfMapPixelHeight is half the height of the whole map in pixels.
func (l Layout) HalfMapPixelHeight() float64 {
	return float64(l.MapHeight) * float64(l.TileSize) / 2
}

// WidthCenterOffset shifts column 0 so the map is centred horizontally.
func (l Layout) WidthCenterOffset() float64 {
	return l.HalfMapPixelWidth() - l.halfTile()
}

// HeightCenterOffset shifts row 0 so the map is centred vertically.
func (l Layout) HeightCenterOffset() float64 {
	return l.HalfMapPixelHeight() - l.halfTile()
}

// World returns the centre of cell (x, y) in world space.
func (l Layout) World(x, y int) (float64, float64) {
	ts := float64(l.TileSize)
	return float64(x)*ts - l.WidthCenterOffset(), float64(y)*ts - l.HeightCenterOffset()
}

// Screen returns the top left pixel of cell (x, y) on a screen of the given
// size with the camera at the screen centre.
func (l Layout) Screen(x, y, screenWidth, screenHeight int) (float64, float64) {
	wx, wy := l.World(x, y)
	return float64(screenWidth)/2 + wx - l.halfTile(), float64(screenHeight)/2 - wy - l.halfTile()
}

// Canvas returns the top left pixel of cell (x, y) on an image exactly the
// size of the map.
func (l Layout) Canvas(x, y int) (int, int) {
	return x * l.TileSize, (l.MapHeight - 1 - y) * l.TileSize
}

// PixelSize is the size of the whole map in pixels.
func (l Layout) PixelSize() (int, int) {
	return l.MapWidth * l.TileSize, l.MapHeight * l.TileSize
}
