package table

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"
	"github.com/hupe1980/lshgo/hash"
	_ "modernc.org/sqlite" // SQLite driver
)

// Compile-time check to ensure SQLite satisfies the HashTables interface.
var _ HashTables = (*SQLite)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS indexes (
	index_id   TEXT PRIMARY KEY,
	n_tables   INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS points (
	index_id TEXT NOT NULL,
	idx      INTEGER NOT NULL,
	vec      BLOB NOT NULL,
	PRIMARY KEY (index_id, idx)
);

CREATE INDEX IF NOT EXISTS points_by_vec ON points (index_id, vec);

CREATE TABLE IF NOT EXISTS buckets (
	index_id  TEXT NOT NULL,
	table_id  INTEGER NOT NULL,
	signature BLOB NOT NULL,
	idx       INTEGER NOT NULL,
	PRIMARY KEY (index_id, table_id, signature, idx)
);`

// SQLite is the durable storage backend. Buckets and points live in a
// SQLite database file, so an index survives the process and its structure
// can be inspected with any sqlite client. Several indexes can share one
// database file; each is namespaced by a generated index id.
type SQLite struct {
	db      *sql.DB
	indexID string
	nTables int
	nextIdx uint32
}

// NewSQLite creates a fresh index namespace with nTables hash tables in the
// database at path, creating the file and schema as needed.
func NewSQLite(path string, nTables int) (*SQLite, error) {
	db, err := openSQLiteDB(path)
	if err != nil {
		return nil, err
	}

	indexID := uuid.NewString()
	if _, err := db.Exec(`INSERT INTO indexes (index_id, n_tables) VALUES (?, ?)`, indexID, nTables); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("register index: %w", err)
	}

	return &SQLite{db: db, indexID: indexID, nTables: nTables}, nil
}

// OpenSQLite reattaches to an existing index namespace in the database at
// path. The point store's next index is recovered from the stored points.
func OpenSQLite(path, indexID string) (*SQLite, error) {
	db, err := openSQLiteDB(path)
	if err != nil {
		return nil, err
	}

	var nTables int
	if err := db.QueryRow(`SELECT n_tables FROM indexes WHERE index_id = ?`, indexID).Scan(&nTables); err != nil {
		_ = db.Close()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no index with id %q", indexID)
		}
		return nil, fmt.Errorf("load index metadata: %w", err)
	}

	var nextIdx uint32
	if err := db.QueryRow(`SELECT COALESCE(MAX(idx)+1, 0) FROM points WHERE index_id = ?`, indexID).Scan(&nextIdx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("recover point count: %w", err)
	}

	return &SQLite{db: db, indexID: indexID, nTables: nTables, nextIdx: nextIdx}, nil
}

func openSQLiteDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// The index assumes a single writer; a second connection would only
	// add lock contention inside sqlite.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}

// IndexID returns the namespace id of this index within the database file.
func (s *SQLite) IndexID() string { return s.indexID }

// Close closes the underlying database connection.
func (s *SQLite) Close() error { return s.db.Close() }

// Put inserts a point index into the bucket for sig in table tableID.
func (s *SQLite) Put(sig hash.Signature, idx uint32, tableID int) error {
	if tableID < 0 || tableID >= s.nTables {
		return &ErrTableOutOfRange{TableID: tableID, NumTables: s.nTables}
	}

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO buckets (index_id, table_id, signature, idx) VALUES (?, ?, ?, ?)`,
		s.indexID, tableID, []byte(sig.Key()), idx,
	)
	if err != nil {
		return fmt.Errorf("put: %w", err)
	}

	return nil
}

// QueryBucket returns the bucket membership for sig in table tableID.
func (s *SQLite) QueryBucket(sig hash.Signature, tableID int) (*roaring.Bitmap, error) {
	if tableID < 0 || tableID >= s.nTables {
		return nil, &ErrTableOutOfRange{TableID: tableID, NumTables: s.nTables}
	}

	rows, err := s.db.Query(
		`SELECT idx FROM buckets WHERE index_id = ? AND table_id = ? AND signature = ?`,
		s.indexID, tableID, []byte(sig.Key()),
	)
	if err != nil {
		return nil, fmt.Errorf("query bucket: %w", err)
	}
	defer rows.Close()

	bucket := roaring.New()
	for rows.Next() {
		var idx uint32
		if err := rows.Scan(&idx); err != nil {
			return nil, fmt.Errorf("scan bucket row: %w", err)
		}
		bucket.Add(idx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bucket rows: %w", err)
	}

	if bucket.IsEmpty() {
		return nil, ErrBucketNotFound
	}

	return bucket, nil
}

// Delete removes the point's index from the bucket for sig in table tableID.
func (s *SQLite) Delete(sig hash.Signature, point []float32, tableID int) error {
	if tableID < 0 || tableID >= s.nTables {
		return &ErrTableOutOfRange{TableID: tableID, NumTables: s.nTables}
	}

	var idx uint32
	err := s.db.QueryRow(
		`SELECT idx FROM points WHERE index_id = ? AND vec = ? ORDER BY idx LIMIT 1`,
		s.indexID, encodeVector(point),
	).Scan(&idx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup point: %w", err)
	}

	_, err = s.db.Exec(
		`DELETE FROM buckets WHERE index_id = ? AND table_id = ? AND signature = ? AND idx = ?`,
		s.indexID, tableID, []byte(sig.Key()), idx,
	)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

// IncreaseStorage is a no-op: sqlite does not benefit from pre-allocation.
func (s *SQLite) IncreaseStorage(int) {}

// Append adds a point to the global point store and returns its index.
func (s *SQLite) Append(point []float32) (uint32, error) {
	idx := s.nextIdx

	_, err := s.db.Exec(
		`INSERT INTO points (index_id, idx, vec) VALUES (?, ?, ?)`,
		s.indexID, idx, encodeVector(point),
	)
	if err != nil {
		return 0, fmt.Errorf("append point: %w", err)
	}

	s.nextIdx++

	return idx, nil
}

// IndexToPoint resolves a global point index back to its vector.
func (s *SQLite) IndexToPoint(idx uint32) ([]float32, error) {
	var blob []byte
	err := s.db.QueryRow(
		`SELECT vec FROM points WHERE index_id = ? AND idx = ?`,
		s.indexID, idx,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &ErrPointNotFound{Index: idx}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve point: %w", err)
	}

	return decodeVector(blob)
}

// NumTables returns the number of hash tables.
func (s *SQLite) NumTables() int { return s.nTables }

// Describe returns a human-readable summary of table occupancy.
func (s *SQLite) Describe() (string, error) {
	stats := make([]tableStats, s.nTables)

	rows, err := s.db.Query(
		`SELECT table_id, COUNT(DISTINCT signature), COUNT(*) FROM buckets WHERE index_id = ? GROUP BY table_id`,
		s.indexID,
	)
	if err != nil {
		return "", fmt.Errorf("describe: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tableID, buckets, entries int
		if err := rows.Scan(&tableID, &buckets, &entries); err != nil {
			return "", fmt.Errorf("scan describe row: %w", err)
		}
		if tableID >= 0 && tableID < len(stats) {
			stats[tableID] = tableStats{Buckets: buckets, Entries: entries}
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate describe rows: %w", err)
	}

	var points int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM points WHERE index_id = ?`, s.indexID).Scan(&points); err != nil {
		return "", fmt.Errorf("count points: %w", err)
	}

	return formatDescription(fmt.Sprintf("sqlite (index %s)", s.indexID), points, stats), nil
}
