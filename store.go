package northlands

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var (
	// ErrMapNotFound is returned when the store has no map by a name
	ErrMapNotFound = errors.New("map not found")
)

const (
	sqlUpsertMap = `INSERT INTO maps (name, width, height, seed, properties) VALUES (:name, :width, :height, :seed, :properties)
	    ON CONFLICT (name) DO UPDATE SET width=EXCLUDED.width, height=EXCLUDED.height, seed=EXCLUDED.seed, properties=EXCLUDED.properties;`
	sqlUpsertTiles = `INSERT INTO tiles (id, map, x, y, kind, idx) VALUES (:id, :map, :x, :y, :kind, :idx)
	    ON CONFLICT (id) DO UPDATE SET kind=EXCLUDED.kind, idx=EXCLUDED.idx;`
	sqlGetMap    = `SELECT name, width, height, seed, properties FROM maps WHERE name=?;`
	sqlGetTiles  = `SELECT id, map, x, y, kind, idx FROM tiles WHERE map=?;`
	sqlListMaps  = `SELECT name FROM maps ORDER BY name;`
	sqlDelTiles  = `DELETE FROM tiles WHERE map=?;`
	sqlDelMap    = `DELETE FROM maps WHERE name=?;`
	sqlTruncRows = `DELETE FROM tiles WHERE map=:map AND (x>=:width OR y>=:height);`

	// sqlite caps bound parameters per statement, so tiles go in batches
	tileBatchSize = 128
)

// Store keeps generated maps in an sqlite database on disk.
type Store struct {
	filename string
	db       *sqlx.DB
}

// OpenStore given it's filename (database file) on disk.
// Will create if it doesn't exist.
func OpenStore(fname string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", fname)
	if err != nil {
		return nil, errors.Wrapf(err, "opening store %s", fname)
	}

	s := &Store{db: db, filename: fname}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Filename returns the path to the database on disk
func (s *Store) Filename() string {
	return s.filename
}

// Close the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save the map under `name`, replacing any map already saved by that name.
func (s *Store) Save(ctx context.Context, name string, m *GameMap) error {
	props, err := json.Marshal(m.Properties())
	if err != nil {
		return err
	}

	txn, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	row := dbMap{Name: name, Width: m.Width, Height: m.Height, Seed: m.Seed, Properties: string(props)}
	if _, err = txn.NamedExecContext(ctx, sqlUpsertMap, row); err != nil {
		txn.Rollback()
		return errors.Wrapf(err, "saving map %s", name)
	}

	// drop tiles left over from a larger map saved under the same name
	if _, err = txn.NamedExecContext(ctx, sqlTruncRows, map[string]interface{}{
		"map": name, "width": m.Width, "height": m.Height,
	}); err != nil {
		txn.Rollback()
		return errors.Wrapf(err, "trimming map %s", name)
	}

	batch := make([]dbTile, 0, tileBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := txn.NamedExecContext(ctx, sqlUpsertTiles, batch)
		batch = batch[:0]
		return err
	}

	for i, t := range m.Tiles {
		x, y := m.IndexToMap(i)
		batch = append(batch, newDBTile(name, x, y, t))
		if len(batch) == tileBatchSize {
			if err = flush(); err != nil {
				txn.Rollback()
				return errors.Wrapf(err, "saving tiles of %s", name)
			}
		}
	}
	if err = flush(); err != nil {
		txn.Rollback()
		return errors.Wrapf(err, "saving tiles of %s", name)
	}

	return txn.Commit()
}

// Load the map saved under `name`.
func (s *Store) Load(ctx context.Context, name string) (*GameMap, error) {
	row := dbMap{}
	err := s.db.GetContext(ctx, &row, sqlGetMap, name)
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(ErrMapNotFound, name)
	} else if err != nil {
		return nil, errors.Wrapf(err, "loading map %s", name)
	}

	tiles := []dbTile{}
	if err := s.db.SelectContext(ctx, &tiles, sqlGetTiles, name); err != nil {
		return nil, errors.Wrapf(err, "loading tiles of %s", name)
	}

	m := EmptyGameMap(row.Width, row.Height)
	m.Seed = row.Seed
	for _, t := range tiles {
		if err := m.Set(t.X, t.Y, Tile{Type: TileType(t.Kind), Index: t.Index}); err != nil {
			return nil, errors.Wrapf(err, "map %s", name)
		}
	}

	if row.Properties != "" {
		props := NewProperties()
		if err := json.Unmarshal([]byte(row.Properties), props); err != nil {
			return nil, errors.Wrapf(err, "reading properties of %s", name)
		}
		m.SetProperties(props)
	}

	return m, nil
}

// List the names of all saved maps
func (s *Store) List(ctx context.Context) ([]string, error) {
	names := []string{}
	err := s.db.SelectContext(ctx, &names, sqlListMaps)
	return names, err
}

// Delete the map saved as `name` (if any)
func (s *Store) Delete(ctx context.Context, name string) error {
	txn, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := txn.ExecContext(ctx, sqlDelTiles, name); err != nil {
		txn.Rollback()
		return err
	}
	if _, err := txn.ExecContext(ctx, sqlDelMap, name); err != nil {
		txn.Rollback()
		return err
	}
	return txn.Commit()
}

// init creates some DB tables for us if they don't exist
func (s *Store) init() error {
	createMaps := `CREATE TABLE IF NOT EXISTS maps(
		name TEXT PRIMARY KEY,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		properties TEXT
	    );`
	_, err := s.db.Exec(createMaps)
	if err != nil {
		return err
	}

	createTiles := `CREATE TABLE IF NOT EXISTS tiles(
		id TEXT PRIMARY KEY,
		map TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		kind INTEGER NOT NULL,
		idx INTEGER NOT NULL
	    );`
	_, err = s.db.Exec(createTiles)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS tiles_by_map ON tiles (map);`)
	return err
}

// dbMap is the header row of a saved map
type dbMap struct {
	Name       string `db:"name"`
	Width      int    `db:"width"`
	Height     int    `db:"height"`
	Seed       int64  `db:"seed"`
	Properties string `db:"properties"`
}

// dbTile object encodes a single tile.
// The ID here is used to insert/update on a unique tile by it's (map,x,y)
// with a more straight forward query.
type dbTile struct {
	ID    string `db:"id"`
	Map   string `db:"map"`
	X     int    `db:"x"`
	Y     int    `db:"y"`
	Kind  int    `db:"kind"`
	Index int    `db:"idx"`
}

// newDBTile crafts a dbTile struct given it's inputs
func newDBTile(name string, x, y int, t Tile) dbTile {
	return dbTile{ID: fmt.Sprintf("%s/%d-%d", name, x, y), Map: name, X: x, Y: y, Kind: int(t.Type), Index: t.Index}
}
