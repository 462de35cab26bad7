package rdx

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conn is the shared Redis client: verified-token cache plus the
// domain-event pub/sub channel.
var Conn = redis.NewClient(&redis.Options{
	Addr:     addr(),
	Password: os.Getenv("REDIS_PASSWORD"),
	DB:       0,
})

func addr() string {
	if a := os.Getenv("REDIS_ADDR"); a != "" {
		return a
	}
	return "localhost:6379"
}

const tokenCacheTTL = 5 * time.Minute

// CacheVerifiedToken remembers the subject email a token resolved to so
// repeated requests skip the identity-provider round trip.
func CacheVerifiedToken(ctx context.Context, token, email string) {
	Conn.Set(ctx, "idtok:"+token, email, tokenCacheTTL)
}

// GetVerifiedToken returns the cached subject email, or "" on miss.
func GetVerifiedToken(ctx context.Context, token string) string {
	val, err := Conn.Get(ctx, "idtok:"+token).Result()
	if err != nil {
		return ""
	}
	return val
}
