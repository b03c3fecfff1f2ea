// Package contentid fingerprints files and classifies destination
// conflicts: bit-identical duplicate, name collision with different
// content, or two paths that appear to carry the same underlying title.
package contentid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"cinetree/internal/services"
)

// sampleSize is how much of the head and tail participate in the
// fingerprint. Whole-file hashing of multi-gigabyte video is not worth it:
// head + tail + exact length catches every realistic duplicate while
// keeping a scan of thousands of files tractable.
const sampleSize = 1 << 20

// Hash is a sampled content fingerprint: fast, not cryptographic.
type Hash uint64

func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// HashFile fingerprints a file by hashing its first and last megabyte
// together with its exact byte length. Files at or under twice the sample
// size are hashed in full. A file that disappeared yields
// services.ErrSourceVanished so callers can tell "gone" from "unreadable".
func HashFile(path string) (Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, services.Wrap(services.ErrSourceVanished, "contentid", "open", path, err)
		}
		return 0, services.Wrap(services.ErrTransient, "contentid", "open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, services.Wrap(services.ErrTransient, "contentid", "stat", path, err)
	}
	size := info.Size()

	digest := xxhash.New()
	var sizeBuf [8]byte
	binary.BigEndian.PutUint64(sizeBuf[:], uint64(size))
	digest.Write(sizeBuf[:])

	if size <= 2*sampleSize {
		if _, err := io.Copy(digest, f); err != nil {
			return 0, hashReadErr(path, err)
		}
		return Hash(digest.Sum64()), nil
	}

	if _, err := io.CopyN(digest, f, sampleSize); err != nil {
		return 0, hashReadErr(path, err)
	}
	if _, err := f.Seek(-sampleSize, io.SeekEnd); err != nil {
		return 0, services.Wrap(services.ErrTransient, "contentid", "seek", path, err)
	}
	if _, err := io.CopyN(digest, f, sampleSize); err != nil && !errors.Is(err, io.EOF) {
		return 0, hashReadErr(path, err)
	}
	return Hash(digest.Sum64()), nil
}

func hashReadErr(path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrSourceVanished, "contentid", "read", path, err)
	}
	return services.Wrap(services.ErrTransient, "contentid", "read", path, err)
}
