// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"math/rand/v2"
	"time"
)

// Storage defines the contract for our persistence layer: a durable
// key-value store holding opaque blobs.
type Storage interface {
	// Get returns common.ErrNotFound when the key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Timestamper is implemented by storage backends that record when each key
// was last written.
type Timestamper interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// Clock supplies the current time. Derived metrics depend on it.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now returns f().
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock in the local time zone.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// RandSource picks uniformly distributed integers in [0, n).
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

// DefaultRand returns a RandSource backed by the runtime's global generator.
func DefaultRand() RandSource {
	return globalRand{}
}
