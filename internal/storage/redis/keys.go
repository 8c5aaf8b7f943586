package redis

import (
	"fmt"

	"github.com/mcoot/pipegame/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "pipegame"

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// statisticsKey returns the Redis key for the statistics HASH (field = board size)
func statisticsKey() string {
	return fmt.Sprintf("%s:stats", keyPrefix)
}
