package northlands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.2" orientation="orthogonal" renderorder="right-down" width="3" height="2" tilewidth="24" tileheight="24">
 <properties>
  <property name="name" value="meadow"/>
  <property name="seed" value="99" type="int"/>
 </properties>
 <tileset firstgid="1" name="world" tilewidth="24" tileheight="24" tilecount="2145" columns="55">
  <image source="textures/world.png" width="1320" height="936"/>
 </tileset>
 <layer id="1" name="0" width="3" height="2">
  <data encoding="csv">
1844,1845,1,
1846,1847,1844
</data>
 </layer>
</map>`

func testMap() *GameMap {
	ts := NewTileset(DefaultConfig())
	m := EmptyGameMap(3, 2)
	for i := range m.Tiles {
		m.Tiles[i] = ts.TileFor(TileType(i % 4))
	}
	m.Seed = 7
	m.Properties().SetInt(PropSeed, 7)
	m.Properties().SetString("biome", "tundra")
	m.Properties().SetBool("wild", true)
	return m
}

func TestEncodeTMX(t *testing.T) {
	buf := bytes.Buffer{}
	err := testMap().EncodeTMX(&buf, NewTMXOptions(DefaultConfig()))
	require.Nil(t, err)

	out := buf.String()
	// top row (y=1) first: types 3,0,1 then bottom row types 0,1,2
	assert.Contains(t, out, "\n1847,1844,1845,\n1844,1845,1846\n")
	assert.Contains(t, out, `<tileset firstgid="1" name="world" tilewidth="24" tileheight="24" tilecount="2145" columns="55">`)
	assert.Contains(t, out, `<image source="textures/world.png" width="1320" height="936">`)
	assert.Contains(t, out, `<property name="seed" value="7" type="int">`)
	assert.Contains(t, out, `<property name="wild" value="true" type="bool">`)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
}

func TestDecodeTMX(t *testing.T) {
	m, err := DecodeTMX(strings.NewReader(smallTMX), NewTileset(DefaultConfig()))
	require.Nil(t, err)

	assert.Equal(t, 3, m.Width)
	assert.Equal(t, 2, m.Height)
	assert.Equal(t, int64(99), m.Seed)

	name, ok := m.Properties().String("name")
	assert.True(t, ok)
	assert.Equal(t, "meadow", name)

	// first csv row is the top of the map
	// and gids are sprite index + firstgid
	top, _ := m.At(0, 1)
	assert.Equal(t, Tile{Type: Grass1, Index: 1843}, top)
	custom, _ := m.At(2, 1)
	assert.Equal(t, Tile{Type: Custom, Index: 0}, custom)
	bottom, _ := m.At(1, 0)
	assert.Equal(t, Tile{Type: Grass4, Index: 1846}, bottom)
	corner, _ := m.At(0, 0)
	assert.Equal(t, Tile{Type: Grass3, Index: 1845}, corner)
}

func TestTMXFile(t *testing.T) {
	cfg := DefaultConfig()
	fname := filepath.Join(t.TempDir(), "map.tmx")
	in := testMap()

	require.Nil(t, in.WriteTMX(fname, NewTMXOptions(cfg)))
	out, err := OpenTMX(fname, NewTileset(cfg))
	require.Nil(t, err)

	assert.Equal(t, in.Tiles, out.Tiles)
	assert.Equal(t, in.Seed, out.Seed)
	wild, _ := out.Properties().Bool("wild")
	assert.True(t, wild)
}

func TestDecodeTMXErrors(t *testing.T) {
	ts := NewTileset(DefaultConfig())

	cases := map[string]string{
		"two tilesets": strings.Replace(smallTMX, "<layer", `<tileset firstgid="3000" name="x"/><layer`, 1),
		"short layer":  strings.Replace(smallTMX, "1846,1847,1844", "1846,1847", 1),
		"empty tile":   strings.Replace(smallTMX, "1846,1847,1844", "1846,0,1844", 1),
		"base64":       strings.Replace(smallTMX, `encoding="csv"`, `encoding="base64"`, 1),
		"no layers":    smallTMX[:strings.Index(smallTMX, "<layer")] + "</map>",
		"not xml":      "{}",
	}

	for name, doc := range cases {
		_, err := DecodeTMX(strings.NewReader(doc), ts)
		assert.NotNil(t, err, name)
	}
}
