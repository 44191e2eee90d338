package metastore

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/npillmayer/scorekit/internal/metastore/migrations"
	"github.com/npillmayer/scorekit/segment"
	_ "modernc.org/sqlite"
)

// cborEncMode encodes metadata canonically, so equal metadata gives equal
// blobs.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("metastore: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// EncodeMetadata serializes metadata to canonical CBOR.
func EncodeMetadata(md segment.Metadata) ([]byte, error) {
	return cborEncMode.Marshal(&md)
}

// DecodeMetadata deserializes metadata from CBOR.
func DecodeMetadata(data []byte) (segment.Metadata, error) {
	var md segment.Metadata
	if err := cbor.Unmarshal(data, &md); err != nil {
		return md, fmt.Errorf("metastore: decode metadata: %w", err)
	}
	return md, nil
}

// Build is an entry of the build ledger: one successful save of a segment.
type Build struct {
	ID           string
	Segment      string
	FirstMeasure int
	MeasureCount int
	CreatedAt    time.Time
}

// SQLStore keeps segment metadata in an SQLite database. Every save is
// recorded as a build with its own ID.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLStore)(nil)

// OpenSQLStore opens (or creates) the database at path and applies the
// embedded migrations.
func OpenSQLStore(path string) (*SQLStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	tracer().Infof("metadata database %s opened", path)
	return &SQLStore{db: db, now: time.Now}, nil
}

// Load reads the metadata of a segment.
func (s *SQLStore) Load(name string) (segment.Metadata, error) {
	if err := checkName(name); err != nil {
		return segment.Metadata{}, err
	}
	var blob []byte
	err := s.db.QueryRow(`SELECT metadata FROM segment_metadata WHERE name = ?`, name).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return segment.Metadata{}, fmt.Errorf("segment %s: %w", name, ErrNotFound)
	} else if err != nil {
		return segment.Metadata{}, fmt.Errorf("segment %s: %w", name, err)
	}
	return DecodeMetadata(blob)
}

// Save stores the metadata of a segment and records a build.
func (s *SQLStore) Save(name string, md segment.Metadata) error {
	_, err := s.SaveBuild(name, md)
	return err
}

// SaveBuild stores the metadata of a segment and returns the ID of the
// recorded build.
func (s *SQLStore) SaveBuild(name string, md segment.Metadata) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	blob, err := EncodeMetadata(md)
	if err != nil {
		return "", fmt.Errorf("segment %s: encode metadata: %w", name, err)
	}
	id := uuid.NewString()
	at := s.now().UTC().UnixMilli()
	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	if _, err := tx.Exec(`INSERT INTO segment_metadata (name, build_id, metadata, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
		    build_id = excluded.build_id,
		    metadata = excluded.metadata,
		    updated_at = excluded.updated_at`,
		name, id, blob, at); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("segment %s: store metadata: %w", name, err)
	}
	if _, err := tx.Exec(`INSERT INTO segment_builds (build_id, name, first_measure, measure_count, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, name, md.FirstMeasureNumber, md.MeasureCount, at); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("segment %s: record build: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	tracer().Debugf("segment %s stored as build %s", name, id)
	return id, nil
}

// Builds returns the build ledger of a segment, oldest first.
func (s *SQLStore) Builds(name string) ([]Build, error) {
	rows, err := s.db.Query(`SELECT build_id, name, first_measure, measure_count, created_at
		FROM segment_builds WHERE name = ? ORDER BY created_at, rowid`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var builds []Build
	for rows.Next() {
		var b Build
		var at int64
		if err := rows.Scan(&b.ID, &b.Segment, &b.FirstMeasure, &b.MeasureCount, &at); err != nil {
			return nil, err
		}
		b.CreatedAt = time.UnixMilli(at).UTC()
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// Names lists the segments with stored metadata, sorted.
func (s *SQLStore) Names() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM segment_metadata ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database.
func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
