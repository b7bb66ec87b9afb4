package redis

import "fmt"

// Key prefix for all client state
const keyPrefix = "courtbook"

// stateKey returns the Redis key for a state entry within a profile
func stateKey(profile, key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, profile, key)
}
