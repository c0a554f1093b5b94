// Package journal pushes accepted room commands onto a Redis queue so an
// external consumer can audit or replay games. The queue is optional: when
// Redis is unconfigured every publish is a no-op.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/calebsw/unoroom/internal/config"
)

// Rdb is the global Redis client. Connect it once at startup; it stays nil
// when Redis is not configured.
var Rdb *redis.Client

// DefaultQueueName is the Redis list commands are pushed to.
const DefaultQueueName = "unoroom_commands"

// Record is one accepted command.
type Record struct {
	RoomCode  string    `json:"room_code"`
	PlayerID  uuid.UUID `json:"player_id"`
	Command   string    `json:"command"`
	Timestamp int64     `json:"timestamp"`
}

// Connect initializes the global client from REDIS_ADDR / REDIS_DB and
// verifies the connection.
func Connect() error {
	addr := config.GetEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := config.GetEnvInt("REDIS_DB", 0)

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	Rdb = client
	return nil
}

// Publish serializes the record and appends it to the queue.
func Publish(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal journal record: %w", err)
	}
	queue := config.GetEnv("JOURNAL_QUEUE_NAME", DefaultQueueName)
	if err := Rdb.RPush(ctx, queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list %q: %w", queue, err)
	}
	return nil
}

// LogCommand records a command asynchronously. Safe to call with Redis
// unconfigured; the command path never blocks on the queue.
func LogCommand(roomCode string, playerID uuid.UUID, command string) {
	if Rdb == nil {
		return
	}
	rec := Record{
		RoomCode:  roomCode,
		PlayerID:  playerID,
		Command:   command,
		Timestamp: time.Now().UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		// Best effort: a lost journal entry never fails the command.
		_ = Publish(ctx, rec)
	}()
}
