package engagement

import (
	"context"
	"errors"
)

// Log selects which engagement table an operation targets. RSVP and Like
// are isomorphic join tables between accounts and events.
type Log string

const (
	LogRSVP Log = "rsvp"
	LogLike Log = "like"
)

var ErrUnknownLog = errors.New("unknown engagement log")

func (l Log) Valid() bool {
	return l == LogRSVP || l == LogLike
}

type Repository interface {
	Has(ctx context.Context, log Log, accountID, eventID string) (bool, error)
	// Add inserts the link, relying on the storage uniqueness constraint to
	// resolve concurrent duplicates. It reports whether a row was inserted.
	// Like insertions also bump the event's denormalized like count.
	Add(ctx context.Context, log Log, accountID, eventID string) (bool, error)
	// Remove reports whether a row was deleted.
	Remove(ctx context.Context, log Log, accountID, eventID string) (bool, error)
	ListByEvent(ctx context.Context, log Log, eventID string) ([]string, error)
	ListByAccount(ctx context.Context, log Log, accountID string) ([]string, error)
}
