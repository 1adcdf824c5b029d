package utils

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

func GetHash(b []byte) string {
	hash := xxhash.Sum64(b)
	return strconv.FormatUint(hash, 32)
}

// HashAll folds multiple byte slices into a single digest, used to fingerprint
// a materialized build context.
func HashAll(parts ...[]byte) string {
	d := xxhash.New()
	for _, p := range parts {
		d.Write(p)
	}
	return strconv.FormatUint(d.Sum64(), 32)
}
