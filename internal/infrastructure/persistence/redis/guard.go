// Package redis implements the Redis-backed save guard for Katysym.
// The guard is the client-side idempotency check for attendance saves: once
// a class is saved for a date, a second save attempt for the same
// (date, grade, letter) short-circuits with an already-saved notice. The
// check is advisory; authoritative duplicate resolution (overwrite) belongs
// to the remote provider.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// Host is the Redis server hostname.
	Host string

	// Port is the Redis server port.
	Port int

	// Password is the Redis authentication password (empty if no auth).
	Password string

	// DB is the Redis database number (0-15).
	DB int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ErrGuardConnection is returned when the Redis connection fails.
var ErrGuardConnection = errors.New("guard: connection failed")

// ══════════════════════════════════════════════════════════════════════════════
// SAVE GUARD
// ══════════════════════════════════════════════════════════════════════════════

// guardKeyPrefix namespaces guard keys, one per (date, grade, letter).
const guardKeyPrefix = "att_saved:"

// guardTTL bounds how long a mark survives. A school year is enough; keys
// for past dates have no value once the year rolls over.
const guardTTL = 365 * 24 * time.Hour

// SaveGuard is the Redis-backed idempotency guard.
type SaveGuard struct {
	client *redis.Client
}

// NewSaveGuard connects to Redis and verifies the connection.
func NewSaveGuard(cfg Config) (*SaveGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGuardConnection, err)
	}

	return &SaveGuard{client: client}, nil
}

// Key builds the guard key for one (date, grade, letter) triple.
func Key(date, grade, letter string) string {
	return fmt.Sprintf("%s%s:%s:%s", guardKeyPrefix, date, grade, letter)
}

// IsSaved reports whether a save was already recorded for the triple.
func (g *SaveGuard) IsSaved(ctx context.Context, date, grade, letter string) (bool, error) {
	n, err := g.client.Exists(ctx, Key(date, grade, letter)).Result()
	if err != nil {
		return false, fmt.Errorf("guard check: %w", err)
	}
	return n > 0, nil
}

// MarkSaved records a completed save for the triple.
func (g *SaveGuard) MarkSaved(ctx context.Context, date, grade, letter string) error {
	if err := g.client.Set(ctx, Key(date, grade, letter), "1", guardTTL).Err(); err != nil {
		return fmt.Errorf("guard mark: %w", err)
	}
	return nil
}

// Ping checks if Redis is reachable.
func (g *SaveGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (g *SaveGuard) Close() error {
	return g.client.Close()
}
