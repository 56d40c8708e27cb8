package cache

import (
	"strconv"
	"strings"
)

const (
	GlobalKeyPrefix = "szexam"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// DedupSetKey is the Redis set holding the content hashes stored for month.
func DedupSetKey(month int) string {
	return GenerateCacheKey("topic", "dedup", strconv.Itoa(month))
}
