package cache

import "strconv"

// fileKey maps a cache key onto a disk file name: a 31-multiplier rolling
// hash with 32-bit signed overflow, absolute value, rendered base-36.
// Collisions are possible and accepted; the disk tier is best-effort.
func fileKey(key string) string {
	var h int32
	for _, r := range key {
		h = h*31 + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36) + ".json"
}
