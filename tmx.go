/* this file reads & writes game maps as TMX (doc.mapeditor.org/en/stable/) so
they can be opened & edited in Tiled.

We only need a small part of the feature set of TMX:
- one tileset, backed by a single atlas image cut into a grid
- one tile layer named "0" using CSV data, no compression
- the 'orthogonal' orientation
*/
package northlands

import (
	"bytes"
	"encoding/xml"
	"io"
	"io/ioutil"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	tmxVersion    = "1.2"
	tmxLayerName  = "0"
	tmxFirstGID   = 1
	tmxEncoding   = "csv"
	tmxOrthogonal = "orthogonal"
)

// tmxMap is a TMX file structure representing the map as a whole.
type tmxMap struct {
	XMLName        xml.Name      `xml:"map"`
	Version        string        `xml:"version,attr"`
	Orientation    string        `xml:"orientation,attr"`
	RenderOrder    string        `xml:"renderorder,attr"`
	Width          int           `xml:"width,attr"`      // in tiles
	Height         int           `xml:"height,attr"`     // in tiles
	TileWidth      int           `xml:"tilewidth,attr"`  // in pixels
	TileHeight     int           `xml:"tileheight,attr"` // in pixels
	RootProperties []*Property   `xml:"properties>property"`
	Tilesets       []*tmxTileset `xml:"tileset"`
	TileLayers     []*tmxLayer   `xml:"layer"`
}

// tmxTileset is a tileset cut from one atlas image
type tmxTileset struct {
	FirstGID   int       `xml:"firstgid,attr"`
	Name       string    `xml:"name,attr"`
	TileWidth  int       `xml:"tilewidth,attr"`
	TileHeight int       `xml:"tileheight,attr"`
	TileCount  int       `xml:"tilecount,attr"`
	Columns    int       `xml:"columns,attr"`
	Image      *tmxImage `xml:"image"`
}

// Property is a TMX file structure which holds a Tiled property.
type Property struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
	Type  string `xml:"type,attr,omitempty"` // string (default), int, bool + other (we don't use)
}

// tmxImage is an image file in TMX
type tmxImage struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

// tmxLayer is a TMX tile layer
type tmxLayer struct {
	ID     int     `xml:"id,attr"`
	Name   string  `xml:"name,attr"`
	Width  int     `xml:"width,attr"`
	Height int     `xml:"height,attr"`
	Data   tmxData `xml:"data"`
}

// tmxData is a TMX file structure holding layer data.
type tmxData struct {
	Encoding    string `xml:"encoding,attr"`
	Compression string `xml:"compression,attr,omitempty"`
	RawData     []byte `xml:",innerxml"`
}

// TMXOptions describe the atlas the exported tileset points at.
type TMXOptions struct {
	TileSize int
	Sheet    SheetConfig
}

// NewTMXOptions returns options pointing at the world sheet in `cfg`.
func NewTMXOptions(cfg *Config) TMXOptions {
	return TMXOptions{TileSize: cfg.TileSize, Sheet: cfg.World}
}

// EncodeTMX writes the map as TMX XML to `w`.
// TMX rows run top to bottom, so the first row written is our top row
// (y = height-1).
func (m *GameMap) EncodeTMX(w io.Writer, opts TMXOptions) error {
	ids := make([]int, len(m.Tiles))
	for i, t := range m.Tiles {
		x, y := m.IndexToMap(i)
		row := m.Height - 1 - y
		ids[row*m.Width+x] = t.Index + tmxFirstGID
	}

	ts := opts.TileSize
	doc := &tmxMap{
		Version:        tmxVersion,
		Orientation:    tmxOrthogonal,
		RenderOrder:    "right-down",
		Width:          m.Width,
		Height:         m.Height,
		TileWidth:      ts,
		TileHeight:     ts,
		RootProperties: m.Properties().toList(),
		Tilesets: []*tmxTileset{{
			FirstGID:   tmxFirstGID,
			Name:       strings.TrimSuffix(path.Base(opts.Sheet.Image), path.Ext(opts.Sheet.Image)),
			TileWidth:  ts,
			TileHeight: ts,
			TileCount:  opts.Sheet.Columns * opts.Sheet.Rows,
			Columns:    opts.Sheet.Columns,
			Image: &tmxImage{
				Source: opts.Sheet.Image,
				Width:  opts.Sheet.Columns * ts,
				Height: opts.Sheet.Rows * ts,
			},
		}},
		TileLayers: []*tmxLayer{{
			ID:     1,
			Name:   tmxLayerName,
			Width:  m.Width,
			Height: m.Height,
			Data: tmxData{
				Encoding: tmxEncoding,
				RawData:  encodeCSV(m.Width, m.Height, ids),
			},
		}},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	return enc.Encode(doc)
}

// DecodeTMX reads a TMX map written by EncodeTMX (or Tiled, within the
// subset we support). Tile types are recovered from `tileset`; sprites that
// aren't known grass cells become Custom tiles.
func DecodeTMX(r io.Reader, tileset *Tileset) (*GameMap, error) {
	doc := &tmxMap{}
	if err := xml.NewDecoder(r).Decode(doc); err != nil {
		return nil, errors.Wrap(err, "decoding tmx")
	}

	if len(doc.Tilesets) != 1 {
		return nil, errors.Errorf("only 1 tileset is supported, got %d", len(doc.Tilesets))
	}
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, errors.Errorf("invalid map size %dx%d", doc.Width, doc.Height)
	}

	var layer *tmxLayer
	for _, l := range doc.TileLayers {
		if l.Name == tmxLayerName {
			layer = l
			break
		}
	}
	if layer == nil && len(doc.TileLayers) > 0 {
		layer = doc.TileLayers[0]
	}
	if layer == nil {
		return nil, errors.New("map has no tile layers")
	}
	if layer.Data.Encoding != tmxEncoding || layer.Data.Compression != "" {
		return nil, errors.Errorf("unsupported layer encoding %q (compression %q)", layer.Data.Encoding, layer.Data.Compression)
	}

	gids, err := decodeCSV(layer.Data.RawData)
	if err != nil {
		return nil, err
	}
	if len(gids) != doc.Width*doc.Height {
		return nil, errors.Errorf("layer has %d tiles, expected %d", len(gids), doc.Width*doc.Height)
	}

	first := doc.Tilesets[0].FirstGID
	m := EmptyGameMap(doc.Width, doc.Height)
	for i, gid := range gids {
		if gid < first {
			return nil, errors.Errorf("empty or foreign tile %d at position %d", gid, i)
		}
		x := i % doc.Width
		y := doc.Height - 1 - i/doc.Width
		m.Tiles[m.MapIndex(x, y)] = tileset.TileAt(gid - first)
	}

	m.SetProperties(newPropertiesFromList(doc.RootProperties))
	if seed, ok := m.Properties().Int(PropSeed); ok {
		m.Seed = int64(seed)
	}
	return m, nil
}

// OpenTMX reads a TMX map from disk
func OpenTMX(fname string, tileset *Tileset) (*GameMap, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeTMX(f, tileset)
}

// WriteTMX writes the map to disk as TMX
func (m *GameMap) WriteTMX(fname string, opts TMXOptions) error {
	buff := bytes.Buffer{}
	err := m.EncodeTMX(&buff, opts)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fname, buff.Bytes(), 0644)
}

// encodeCSV turns our list of tile ids into csv format, one row per line
func encodeCSV(width, height int, in []int) []byte {
	values := make([]string, height)

	for row := 0; row < height; row++ {
		csvrow := make([]string, width)
		for col := 0; col < width; col++ {
			csvrow[col] = strconv.Itoa(in[row*width+col])
		}
		values[row] = strings.Join(csvrow, ",")
	}

	return []byte("\n" + strings.Join(values, ",\n") + "\n")
}

// decodeCSV reads csv encoded tile data
func decodeCSV(raw []byte) ([]int, error) {
	cleaner := func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' {
			return r
		}
		return -1
	}

	rawDataClean := strings.Map(cleaner, string(raw))
	if rawDataClean == "" {
		return []int{}, nil
	}

	str := strings.Split(rawDataClean, ",")

	gids := make([]int, len(str))
	for i, s := range str {
		d, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "reading tile %d", i)
		}
		gids[i] = int(d)
	}
	return gids, nil
}
