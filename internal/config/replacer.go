package config

import "strings"

// dotUnderscoreReplacer maps a dotted mapstructure key (e.g.
// "cache.tier1_capacity") to the environment variable name viper
// checks under the REBATCH_ prefix (REBATCH_CACHE_TIER1_CAPACITY).
func dotUnderscoreReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}
