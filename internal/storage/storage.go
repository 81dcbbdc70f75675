// Package storage keeps the named string slots BudgetFlow persists its ledger
// snapshot and theme preference in.
package storage

import (
	"context"
	"errors"
)

// ErrSlotEmpty is returned by Get when nothing has been stored under a key.
var ErrSlotEmpty = errors.New("storage: slot is empty")

// SlotStore is a small key/value store. Put must replace the previous value
// atomically: a failed Put leaves the old value readable.
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
