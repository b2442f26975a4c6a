package cache

import "strings"

const (
	GlobalKeyPrefix = "pywhiz"
)

// GenerateCacheKey builds "pywhiz:<service>:<object>:<id>", with any params joined by "_" as a final segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}
