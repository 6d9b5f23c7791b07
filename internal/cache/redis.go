// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jason-s-yu/quizparty/internal/models"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list finished games are pushed onto.
const DefaultQueueName = "quizparty_results"

// ConnectRedis opens a client on addr/db and checks it with a ping.
func ConnectRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// ListClient is the slice of the Redis API the results queue needs.
// *redis.Client satisfies it.
type ListClient interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// ResultsQueue carries finished-game records from the server to the historian.
type ResultsQueue struct {
	rdb  ListClient
	name string
}

func NewResultsQueue(rdb ListClient, name string) *ResultsQueue {
	if name == "" {
		name = DefaultQueueName
	}
	return &ResultsQueue{rdb: rdb, name: name}
}

// Name is the Redis key of the list.
func (q *ResultsQueue) Name() string {
	return q.name
}

// Archive serializes rec to JSON and pushes it onto the queue.
func (q *ResultsQueue) Archive(ctx context.Context, rec models.GameRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal GameRecord: %w", err)
	}
	if err := q.rdb.RPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", q.name, err)
	}
	return nil
}

// Pop waits up to timeout for the next record. ok is false when the wait
// timed out with nothing queued.
func (q *ResultsQueue) Pop(ctx context.Context, timeout time.Duration) (rec models.GameRecord, ok bool, err error) {
	res, err := q.rdb.BLPop(ctx, timeout, q.name).Result()
	if errors.Is(err, redis.Nil) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, fmt.Errorf("BLPop %s: %w", q.name, err)
	}
	// res[0] is the queue name and res[1] the payload
	if len(res) < 2 {
		return rec, false, nil
	}
	if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
		return rec, false, fmt.Errorf("invalid game record: %w", err)
	}
	return rec, true, nil
}
