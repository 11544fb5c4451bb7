package cache

import (
	"strconv"

	"github.com/minio/highwayhash"
)

var key = []byte("nfereport-0123456789ABCDEF012345")

// Hash returns a highwayhash-64 fingerprint of data.
func Hash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	if _, err = h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// ETag returns a quoted entity tag for data.
func ETag(data []byte) string {
	sum, err := Hash(data)
	if err != nil {
		return ""
	}
	return `"` + strconv.FormatUint(sum, 16) + `"`
}
