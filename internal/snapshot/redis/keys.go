package redis

import "fmt"

const keyPrefix = "shuttle"

// liveMatchKey returns the Redis key for the live match snapshot
func liveMatchKey() string {
	return fmt.Sprintf("%s:live_match", keyPrefix)
}
