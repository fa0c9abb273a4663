package events

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("event not found")
	ErrForbidden = errors.New("not authorized to modify this event")
)

const (
	VisibilityPublic   = "Public"
	VisibilityPrivate  = "Private"
	VisibilityInactive = "Inactive"
)

type Event struct {
	EventID      string
	CreatorID    string
	Name         string
	Description  string
	Category     string
	Location     string
	Images       *string
	Visibility   string
	StartTime    time.Time
	EndTime      time.Time
	LikeCount    int
	RSVPRequired bool
	Priced       bool
	Cost         *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateParams struct {
	EventID      string
	CreatorID    string
	Name         string
	Description  string
	Category     string
	Location     string
	Images       *string
	Visibility   string
	StartTime    time.Time
	EndTime      time.Time
	RSVPRequired bool
	Priced       bool
	Cost         *float64
}

// UpdateParams carries a partial update. Nil fields are untouched. The
// identity, creator, and like count are deliberately not representable here.
type UpdateParams struct {
	Name         *string
	Description  *string
	Location     *string
	Images       *string
	Category     *string
	Visibility   *string
	StartTime    *time.Time
	EndTime      *time.Time
	RSVPRequired *bool
	Priced       *bool
	Cost         *float64
}

func (p UpdateParams) isEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Location == nil &&
		p.Images == nil && p.Category == nil && p.Visibility == nil &&
		p.StartTime == nil && p.EndTime == nil && p.RSVPRequired == nil &&
		p.Priced == nil && p.Cost == nil
}

type ListOptions struct {
	IncludeInactive bool
	Chronological   bool
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Event, error)
	List(ctx context.Context, opts ListOptions) ([]Event, error)
	GetByID(ctx context.Context, eventID string, includeInactive bool) (*Event, error)
	Update(ctx context.Context, eventID string, params UpdateParams) error
	// SoftDelete purges the event's RSVP and Like links and marks it
	// Inactive, all within one transaction. The row persists.
	SoftDelete(ctx context.Context, eventID string) error
	// HardDelete removes the event's RSVP, Like, invite, and category rows,
	// then the event row itself, child rows first, within one transaction.
	HardDelete(ctx context.Context, eventID string) error
}
