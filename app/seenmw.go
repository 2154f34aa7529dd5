package app

import (
	"fmt"
	"time"

	"chemlab_inventory/db"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// TouchLastSeen updates users.last_seen_at at most once per throttle window,
// using Redis SetNX as the gate so the DB write stays off the hot path.
func TouchLastSeen(repo *db.Repo, rdb *redis.Client, throttle time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := UserID(c)
		if !ok {
			c.Next()
			return
		}

		key := fmt.Sprintf("user:lastseen:%d", uid)
		if ok, _ := rdb.SetNX(c, key, "1", throttle).Result(); ok {
			_ = repo.TouchUserSeen(c, uid) // best effort, never blocks the request
		}
		c.Next()
	}
}
