package cache

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"

	"rebatch/internal/model"
)

// ComputeHash reads path and returns a HashEntry using algo. The
// fingerprint (size, modUnix) must be the stat results taken
// immediately before or after the read so MatchesFingerprint stays
// meaningful.
func ComputeHash(path string, algo model.HashAlgorithm, size, modUnix int64) (model.HashEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.HashEntry{}, model.Permanent(fmt.Errorf("opening %s for hashing: %w", path, err))
	}
	defer f.Close()

	var h hash.Hash
	switch algo {
	case model.HashCRC32:
		h = crc32.NewIEEE()
	default:
		algo = model.HashSHA256
		h = sha256.New()
	}

	if _, err := io.Copy(h, f); err != nil {
		return model.HashEntry{}, model.Permanent(fmt.Errorf("hashing %s: %w", path, err))
	}

	return model.HashEntry{
		Algorithm: algo,
		Digest:    fmt.Sprintf("%x", h.Sum(nil)),
		Size:      size,
		ModTime:   modUnix,
	}, nil
}
