// Package store provides data persistence for journal entries, trades and
// the append-only notification log. The analytics engine itself never
// touches storage; callers fetch records here and hand them to the engine
// as in-memory collections.
package store

import (
	"context"
	"time"

	"tradejournal/internal/models"
)

// DataStore defines the persistence interface.
type DataStore interface {
	// Entries (trades are embedded in their owning entry)
	SaveEntry(ctx context.Context, entry models.JournalEntry) error
	GetEntries(ctx context.Context, filter EntryFilter) ([]models.JournalEntry, error)
	DeleteEntry(ctx context.Context, id string) error

	// Notifications: append-only log. Existing rows are never edited
	// apart from the read flag.
	AppendNotifications(ctx context.Context, notifications []models.Notification) error
	GetNotifications(ctx context.Context, filter NotificationFilter) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error

	Close() error
}

// EntryFilter restricts entry queries. Zero values mean no filter.
type EntryFilter struct {
	StartDate time.Time
	EndDate   time.Time
	Session   models.SessionType
	Limit     int
}

// NotificationFilter restricts notification queries.
type NotificationFilter struct {
	Title      string
	Since      time.Time
	UnreadOnly bool
	Limit      int
}
