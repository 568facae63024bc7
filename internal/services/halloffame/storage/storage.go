// Package storage defines persistence contracts for the award log.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/ledger"
)

// ErrNotFound indicates a requested session is missing.
var ErrNotFound = errors.New("record not found")

// Session describes one stored award log.
type Session struct {
	ID        string
	Records   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LogbookStore persists award logs grouped by session.
type LogbookStore interface {
	// Save replaces every record of session with entries.
	Save(ctx context.Context, session string, entries []ledger.LogbookEntry) error
	// Append adds entries after the records already stored for session.
	Append(ctx context.Context, session string, entries []ledger.LogbookEntry) error
	// Load returns the records of the most recently updated session.
	Load(ctx context.Context) (string, []ledger.LogbookEntry, error)
	LoadSession(ctx context.Context, session string) ([]ledger.LogbookEntry, error)
	Sessions(ctx context.Context) ([]Session, error)
}
