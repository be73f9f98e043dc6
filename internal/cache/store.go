// Package cache implements the two-tier metadata/hash cache (spec
// §4.1): an in-memory LRU in front of a modernc.org/sqlite-backed
// durable store, sharing the normalized absolute path as key.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"rebatch/internal/logging"
	"rebatch/internal/model"
)

// DefaultMetadataCapacity and DefaultHashCapacity match spec §4.1's
// stated tier-1 defaults.
const (
	DefaultMetadataCapacity = 1000
	DefaultHashCapacity     = 2000
)

// Store is the two-tier cache. All operations are safe to call
// concurrently; writes to tier 2 are serialized by *sql.DB's own
// connection handling, reads may proceed concurrently.
type Store struct {
	db  *sql.DB
	log *logging.Logger

	metaLRU *lru[model.MetadataEntry]
	hashLRU *lru[model.HashEntry]

	algorithm model.HashAlgorithm
}

// Options configures a Store's tier-1 capacities and hash algorithm.
type Options struct {
	MetadataCapacity int
	HashCapacity     int
	Algorithm        model.HashAlgorithm
}

// Open opens (creating if necessary) the sqlite-backed tier-2 store at
// path and wraps it with fresh tier-1 LRUs.
func Open(path string, opts Options, log *logging.Logger) (*Store, error) {
	if opts.MetadataCapacity <= 0 {
		opts.MetadataCapacity = DefaultMetadataCapacity
	}
	if opts.HashCapacity <= 0 {
		opts.HashCapacity = DefaultHashCapacity
	}
	if opts.Algorithm == "" {
		opts.Algorithm = model.HashSHA256
	}
	if log == nil {
		log = logging.Nop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, model.Fatal(fmt.Errorf("opening cache database %s: %w", path, err))
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, model.Fatal(fmt.Errorf("initializing cache schema: %w", err))
	}

	return &Store{
		db:        db,
		log:       log,
		metaLRU:   newLRU[model.MetadataEntry](opts.MetadataCapacity),
		hashLRU:   newLRU[model.HashEntry](opts.HashCapacity),
		algorithm: opts.Algorithm,
	}, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS metadata (
	path TEXT PRIMARY KEY,
	is_extended INT NOT NULL,
	payload BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS hashes (
	path TEXT PRIMARY KEY,
	algo TEXT NOT NULL,
	digest TEXT NOT NULL,
	size INT NOT NULL,
	mtime INT NOT NULL
);
`

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// GetMetadata consults tier 1 then tier 2, promoting a tier-2 hit into
// tier 1. Returns (entry, false) only if truly absent from both tiers.
func (s *Store) GetMetadata(path string) (model.MetadataEntry, bool) {
	if e, ok := s.metaLRU.Get(path); ok {
		return e, true
	}

	row := s.db.QueryRow(`SELECT is_extended, payload FROM metadata WHERE path = ?`, path)
	var isExtended int
	var payload []byte
	if err := row.Scan(&isExtended, &payload); err != nil {
		if err != sql.ErrNoRows {
			s.degrade("read metadata", err)
		}
		return model.MetadataEntry{}, false
	}

	var fields map[string]string
	if err := json.Unmarshal(payload, &fields); err != nil {
		s.degrade("decode metadata payload", err)
		return model.MetadataEntry{}, false
	}

	entry := model.MetadataEntry{Fields: fields, IsExtended: isExtended != 0}
	s.metaLRU.Put(path, entry)
	return entry, true
}

// PutMetadata stores entry for path. Extended never downgrades to
// fast: if an existing entry is extended and the incoming one is not,
// the incoming one is discarded (spec §3 invariant).
func (s *Store) PutMetadata(path string, entry model.MetadataEntry) {
	if existing, ok := s.GetMetadata(path); ok && existing.IsExtended && !entry.IsExtended {
		return
	}

	s.metaLRU.Put(path, entry.Clone())

	payload, err := json.Marshal(entry.Fields)
	if err != nil {
		s.degrade("encode metadata payload", err)
		return
	}
	isExtended := 0
	if entry.IsExtended {
		isExtended = 1
	}
	if _, err := s.db.Exec(
		`INSERT INTO metadata (path, is_extended, payload) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET is_extended = excluded.is_extended, payload = excluded.payload
		 WHERE metadata.is_extended = 0 OR excluded.is_extended = 1`,
		path, isExtended, payload,
	); err != nil {
		s.degrade("write metadata", err)
	}
}

// GetHash consults tier 1 then tier 2, additionally validating the
// (size, modified_time) fingerprint and the store's algorithm; a stale
// entry, or one computed with another algorithm, is treated as absent
// in both tiers.
func (s *Store) GetHash(path string, size, modUnix int64) (model.HashEntry, bool) {
	if e, ok := s.hashLRU.Get(path); ok {
		if e.MatchesFingerprint(size, modUnix) && string(e.Algorithm) == string(s.algorithm) {
			return e, true
		}
		s.hashLRU.Delete(path)
	}

	row := s.db.QueryRow(`SELECT algo, digest, size, mtime FROM hashes WHERE path = ?`, path)
	var e model.HashEntry
	var algo string
	if err := row.Scan(&algo, &e.Digest, &e.Size, &e.ModTime); err != nil {
		if err != sql.ErrNoRows {
			s.degrade("read hash", err)
		}
		return model.HashEntry{}, false
	}
	e.Algorithm = model.HashAlgorithm(algo)

	if !e.MatchesFingerprint(size, modUnix) || string(e.Algorithm) != string(s.algorithm) {
		return model.HashEntry{}, false
	}
	s.hashLRU.Put(path, e)
	return e, true
}

// PutHash stores entry for path.
func (s *Store) PutHash(path string, entry model.HashEntry) {
	s.hashLRU.Put(path, entry)
	if _, err := s.db.Exec(
		`INSERT INTO hashes (path, algo, digest, size, mtime) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET algo = excluded.algo, digest = excluded.digest,
		 	size = excluded.size, mtime = excluded.mtime`,
		path, string(entry.Algorithm), entry.Digest, entry.Size, entry.ModTime,
	); err != nil {
		s.degrade("write hash", err)
	}
}

// Invalidate drops any cached entries (both tiers) for path.
func (s *Store) Invalidate(path string) {
	s.metaLRU.Delete(path)
	s.hashLRU.Delete(path)
	if _, err := s.db.Exec(`DELETE FROM metadata WHERE path = ?`, path); err != nil {
		s.degrade("invalidate metadata", err)
	}
	if _, err := s.db.Exec(`DELETE FROM hashes WHERE path = ?`, path); err != nil {
		s.degrade("invalidate hash", err)
	}
}

// InvalidatePrefix drops cached entries for every path under folder.
func (s *Store) InvalidatePrefix(folder string) {
	s.metaLRU.DeletePrefix(folder)
	s.hashLRU.DeletePrefix(folder)
	like := folder + "%"
	if _, err := s.db.Exec(`DELETE FROM metadata WHERE path LIKE ?`, like); err != nil {
		s.degrade("invalidate metadata prefix", err)
	}
	if _, err := s.db.Exec(`DELETE FROM hashes WHERE path LIKE ?`, like); err != nil {
		s.degrade("invalidate hash prefix", err)
	}
}

// Rekey moves the cached metadata entry for oldPath to newPath and
// drops oldPath's hash entry (it is not carried over), called by the
// execution engine after a successful rename so subsequent reads
// observe the new path (spec §5 ordering guarantee).
func (s *Store) Rekey(oldPath, newPath string) {
	if entry, ok := s.GetMetadata(oldPath); ok {
		s.PutMetadata(newPath, entry)
	}
	s.Invalidate(oldPath)
}

// degrade logs a tier-2 failure and continues tier-1-only, per spec
// §4.1 failure modes: tier-2 I/O errors never propagate as hard
// failures to callers.
func (s *Store) degrade(op string, err error) {
	s.log.Warn("cache tier-2 degraded", logging.String("op", op), logging.Error(err))
}
