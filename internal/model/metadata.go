package model

// MetadataEntry maps field names to scalar/string values extracted from
// a file, plus whether it was produced in extended mode. Extended
// entries never downgrade to fast: callers merging a new entry into an
// existing one must honor that invariant (see cache.Store.PutMetadata).
type MetadataEntry struct {
	Fields     map[string]string
	IsExtended bool
}

// Clone returns a deep copy so a cache tier can hand out a value
// independent of its internal map.
func (e MetadataEntry) Clone() MetadataEntry {
	fields := make(map[string]string, len(e.Fields))
	for k, v := range e.Fields {
		fields[k] = v
	}
	return MetadataEntry{Fields: fields, IsExtended: e.IsExtended}
}

// Get returns the value for key and whether it was present.
func (e MetadataEntry) Get(key string) (string, bool) {
	v, ok := e.Fields[key]
	return v, ok
}

// Merge copies other's fields into e's field map under the given
// namespace prefix (used for companion-file merges, e.g.
// "companion:NAMEM01.XML:"). Fields already present in e are not
// overwritten.
func (e *MetadataEntry) Merge(prefix string, other MetadataEntry) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	for k, v := range other.Fields {
		key := prefix + k
		if _, exists := e.Fields[key]; !exists {
			e.Fields[key] = v
		}
	}
}

// HashAlgorithm identifies which digest a HashEntry was computed with.
// The spec requires the algorithm is never silently mixed: it is part
// of the fingerprint, so a deployment that switches algorithms
// invalidates every existing entry rather than comparing mismatched
// digests.
type HashAlgorithm string

const (
	HashCRC32  HashAlgorithm = "crc32"
	HashSHA256 HashAlgorithm = "sha256"
)

// HashEntry is a digest plus the (size, modified time) fingerprint of
// the file it was computed from. The entry is valid only while the
// fingerprint matches the file's current stat.
type HashEntry struct {
	Algorithm HashAlgorithm
	Digest    string
	Size      int64
	ModTime   int64 // unix seconds, matches the fingerprint granularity used when computed
}

// MatchesFingerprint reports whether this entry is still valid for a
// file with the given size and modification time.
func (h HashEntry) MatchesFingerprint(size int64, modUnix int64) bool {
	return h.Size == size && h.ModTime == modUnix
}
