package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tlacour/president/internal/engine"
)

// publishScript stores a snapshot and notifies subscribers atomically, but
// only when the incoming version supersedes the stored one. Returns 1 on
// acceptance, 0 on a stale write.
var publishScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'version')
if cur and tonumber(cur) >= tonumber(ARGV[1]) then
  return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'snapshot', ARGV[2])
redis.call('PUBLISH', KEYS[2], ARGV[2])
return 1
`)

// RedisGateway implements Gateway on a single Redis instance. The Lua CAS
// script serializes concurrent publishes server-side, so two hosts that
// raced on the same turn cannot both be accepted.
type RedisGateway struct {
	client *redis.Client
	logger *logrus.Logger
}

// ConnectRedis builds a gateway from environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis(logger *logrus.Logger) (*RedisGateway, error) {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &RedisGateway{client: client, logger: logger}, nil
}

// NewRedisGateway wraps an existing client, mainly for tests.
func NewRedisGateway(client *redis.Client, logger *logrus.Logger) *RedisGateway {
	return &RedisGateway{client: client, logger: logger}
}

func gameKey(id uuid.UUID) string {
	return "president:game:" + id.String()
}

func gameChannel(id uuid.UUID) string {
	return "president:game:" + id.String() + ":updates"
}

// Publish stores g and broadcasts it, rejecting the write with
// engine.ErrStaleVersion if a newer or equal version is already stored.
func (rg *RedisGateway) Publish(ctx context.Context, g *engine.Game) error {
	data, err := engine.EncodeSnapshot(g)
	if err != nil {
		return err
	}
	res, err := publishScript.Run(ctx, rg.client,
		[]string{gameKey(g.ID), gameChannel(g.ID)},
		g.Version, data,
	).Int()
	if err != nil {
		return fmt.Errorf("publish snapshot for game %s: %w", g.ID, err)
	}
	if res == 0 {
		return engine.ErrStaleVersion
	}
	return nil
}

// Fetch returns the latest published snapshot for the game.
func (rg *RedisGateway) Fetch(ctx context.Context, gameID uuid.UUID) (*engine.Game, error) {
	data, err := rg.client.HGet(ctx, gameKey(gameID), "snapshot").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot for game %s: %w", gameID, err)
	}
	return engine.DecodeSnapshot(data)
}

// Subscribe streams remote snapshots for the game until ctx is cancelled.
// Malformed payloads are logged and dropped; they indicate a broken
// publisher, not a recoverable game condition.
func (rg *RedisGateway) Subscribe(ctx context.Context, gameID uuid.UUID) (<-chan *engine.Game, error) {
	sub := rg.client.Subscribe(ctx, gameChannel(gameID))
	if _, err := sub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("subscribe to game %s: %w", gameID, err)
	}

	out := make(chan *engine.Game)
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				g, err := engine.DecodeSnapshot([]byte(msg.Payload))
				if err != nil {
					rg.logger.WithError(err).Warnf("dropping malformed snapshot for game %s", gameID)
					continue
				}
				select {
				case out <- g:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
