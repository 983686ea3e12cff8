// Package catalog stores decoded EXIF tag tables in an SQLite database,
// keyed by source path.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go4.org/syncutil"
	_ "modernc.org/sqlite"

	"greg-hacke/jpeg-exif/formats"
	"greg-hacke/jpeg-exif/meta"
	"greg-hacke/jpeg-exif/tags"
)

// ErrNotFound is returned by Get for a path that was never stored.
var ErrNotFound = errors.New("catalog: path not found")

// Catalog is an open catalog database.
type Catalog struct {
	file string
	db   *sql.DB

	// serializes writers; SQLite allows one at a time
	gate *syncutil.Gate

	now func() time.Time
}

// Entry is what the catalog knows about one path. Tags is nil when the
// path failed to decode; ErrorKind then names the failure.
type Entry struct {
	Path      string
	Format    formats.Format
	ErrorKind string
	Error     string
	ScannedAt time.Time
	Tags      *formats.Table
}

// Summary is one row of List.
type Summary struct {
	Path      string
	Format    formats.Format
	ErrorKind string
	NumTags   int
}

// Open opens the catalog in file, creating it if needed.
func Open(ctx context.Context, file string) (*Catalog, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, err
	}
	c := &Catalog{
		file: file,
		db:   db,
		gate: syncutil.NewGate(1),
		now:  time.Now,
	}
	if err := c.ensureTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not initialize catalog at %s: %w", file, err)
	}
	version, err := c.SchemaVersion(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error getting catalog schema version: %w", err)
	}
	if version != requiredSchemaVersion {
		db.Close()
		return nil, fmt.Errorf("catalog schema version is %d; expect %d", version, requiredSchemaVersion)
	}
	return c, nil
}

func (c *Catalog) ensureTables(ctx context.Context) error {
	for _, stmt := range SQLCreateTables() {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	_, err := c.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO meta (metakey, value) VALUES ('version', ?)",
		strconv.Itoa(requiredSchemaVersion))
	return err
}

// SchemaVersion reports the schema version recorded in the database.
func (c *Catalog) SchemaVersion(ctx context.Context) (version int, err error) {
	err = c.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE metakey='version'").Scan(&version)
	return
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Put stores md under md.Source, replacing anything stored there.
func (c *Catalog) Put(ctx context.Context, md *meta.Metadata) error {
	if md.Source == "" {
		return errors.New("catalog: metadata has no source path")
	}
	return c.write(ctx, func(tx *sql.Tx) error {
		if err := c.putFile(ctx, tx, md.Source, md.Format, "", ""); err != nil {
			return err
		}
		if md.Tags == nil {
			return nil
		}
		for pos, f := range md.Tags.Fields() {
			var (
				text     sql.NullString
				num, den sql.NullInt64
			)
			switch v := f.Value.(type) {
			case formats.Text:
				text = sql.NullString{String: string(v), Valid: true}
			case formats.UInt16:
				num = sql.NullInt64{Int64: int64(v), Valid: true}
			case formats.UInt32:
				num = sql.NullInt64{Int64: int64(v), Valid: true}
			case formats.Rational:
				num = sql.NullInt64{Int64: int64(v.Numerator), Valid: true}
				den = sql.NullInt64{Int64: int64(v.Denominator), Valid: true}
			default:
				return fmt.Errorf("catalog: cannot store %s value of type %T", f.Key, f.Value)
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO tags (path, position, name, type, text, num, den) VALUES (?, ?, ?, ?, ?, ?, ?)",
				md.Source, pos, f.Key, int(f.Value.Type()), text, num, den)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// PutFailure records that path could not be decoded. The failure is
// stored by its kind name when it has one.
func (c *Catalog) PutFailure(ctx context.Context, path string, failure error) error {
	kind := "Other"
	if k, ok := formats.KindOf(failure); ok {
		kind = k.String()
	}
	return c.write(ctx, func(tx *sql.Tx) error {
		return c.putFile(ctx, tx, path, formats.FormatUnknown, kind, failure.Error())
	})
}

func (c *Catalog) putFile(ctx context.Context, tx *sql.Tx, path string, format formats.Format, kind, msg string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE path = ?", path); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO files (path, format, error_kind, error_msg, scanned_at) VALUES (?, ?, ?, ?, ?)",
		path, string(format), kind, msg, c.now().Unix())
	return err
}

func (c *Catalog) write(ctx context.Context, fn func(*sql.Tx) error) error {
	c.gate.Start()
	defer c.gate.Done()
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Get returns what is stored for path, or ErrNotFound.
func (c *Catalog) Get(ctx context.Context, path string) (*Entry, error) {
	e := &Entry{Path: path}
	var (
		format  string
		scanned int64
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT format, error_kind, error_msg, scanned_at FROM files WHERE path = ?", path).
		Scan(&format, &e.ErrorKind, &e.Error, &scanned)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Format = formats.Format(format)
	e.ScannedAt = time.Unix(scanned, 0)
	if e.ErrorKind != "" {
		return e, nil
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT name, type, text, num, den FROM tags WHERE path = ? ORDER BY position", path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	e.Tags = formats.NewTable()
	for rows.Next() {
		var (
			name     string
			typ      int
			text     sql.NullString
			num, den sql.NullInt64
		)
		if err := rows.Scan(&name, &typ, &text, &num, &den); err != nil {
			return nil, err
		}
		v, err := rebuildValue(tags.Type(typ), text, num, den)
		if err != nil {
			return nil, fmt.Errorf("catalog: tag %s of %s: %w", name, path, err)
		}
		e.Tags.Set(name, v)
	}
	return e, rows.Err()
}

func rebuildValue(typ tags.Type, text sql.NullString, num, den sql.NullInt64) (formats.Value, error) {
	switch typ {
	case tags.ASCII:
		return formats.Text(text.String), nil
	case tags.SHORT:
		return formats.UInt16(num.Int64), nil
	case tags.LONG:
		return formats.UInt32(num.Int64), nil
	case tags.RATIONAL:
		return formats.NewRational(uint32(num.Int64), uint32(den.Int64)), nil
	}
	return nil, fmt.Errorf("unsupported stored type %v", typ)
}

// List summarizes every stored path, ordered by path.
func (c *Catalog) List(ctx context.Context) ([]Summary, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT f.path, f.format, f.error_kind, COUNT(t.path)
 FROM files f LEFT JOIN tags t ON t.path = f.path
 GROUP BY f.path ORDER BY f.path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Summary
	for rows.Next() {
		var (
			s      Summary
			format string
		)
		if err := rows.Scan(&s.Path, &format, &s.ErrorKind, &s.NumTags); err != nil {
			return nil, err
		}
		s.Format = formats.Format(format)
		list = append(list, s)
	}
	return list, rows.Err()
}
