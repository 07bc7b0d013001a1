// Package store implements the cart and wishlist stores: local in-memory
// mirrors of the collections embedded in the user's remote record. Mutations
// are applied locally first (optimistic), then the whole collection is
// persisted asynchronously with full-replace semantics.
package store

import (
	"context"
	"time"

	"github.com/salman-113/storefront/internal/record"
)

// RecordClient is the slice of the record store client the stores depend on.
type RecordClient interface {
	LoadCollections(ctx context.Context, userID string) (record.Collections, error)
	ReplaceFields(ctx context.Context, userID string, fields record.Fields) error
}

// SyncState tracks where a store is in its load lifecycle. Mutations do not
// transition through StateLoading; only Load does.
type SyncState int

const (
	StateUninitialized SyncState = iota
	StateLoading
	StateReady
)

func (s SyncState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// WriteState tracks the relationship between local state and the remote
// record. A failed persist does not roll the local collection back; the store
// parks in WriteFailed until the next successful persist or Load.
type WriteState int

const (
	WriteCommitted WriteState = iota
	WritePending
	WriteFailed
)

func (s WriteState) String() string {
	switch s {
	case WriteCommitted:
		return "committed"
	case WritePending:
		return "pending"
	case WriteFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// persistTimeout bounds each asynchronous remote write. Detached from the
// caller's context so a returning UI callback cannot cancel an in-flight
// persist.
const persistTimeout = 10 * time.Second
