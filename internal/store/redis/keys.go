package redis

import "strings"

const (
	// KeyPrefix namespaces every key written by desk.
	KeyPrefix = "desk:"
	// DefaultProfile names the single configuration record.
	DefaultProfile = "default"
)

// ConfigKey returns the key holding a configuration as JSON.
// Example: ConfigKey("default") -> "desk:config:default"
func ConfigKey(profile string) string {
	return KeyPrefix + "config:" + profile
}

// UpdatedAtKey returns the key holding the last write time of a configuration.
func UpdatedAtKey(profile string) string {
	return ConfigKey(profile) + ":updated_at"
}

// ProfileFromKey extracts the profile from a configuration key.
func ProfileFromKey(key string) (string, bool) {
	profile, ok := strings.CutPrefix(key, KeyPrefix+"config:")
	if !ok || profile == "" || strings.Contains(profile, ":") {
		return "", false
	}
	return profile, true
}
