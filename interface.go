package northlands

// Grid represents something laid out as tiles that we can draw
type Grid interface {
	// Size in tiles (width, height)
	Size() (int, int)

	// Each calls fn for every cell, row by row from (0,0)
	Each(fn func(x, y int, t Tile))
}

var _ Grid = (*GameMap)(nil)
