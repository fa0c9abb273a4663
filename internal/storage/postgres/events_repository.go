package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/campus-events/server/internal/domain/events"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var _ events.Repository = (*EventRepository)(nil)

func (r *EventRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const eventColumns = `event_id, creator_id, name, description, category, location, images,
       visibility, start_time, end_time, like_count, rsvp_required, priced, cost,
       created_at, updated_at`

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
INSERT INTO events (event_id, creator_id, name, description, category, location, images,
                    visibility, start_time, end_time, like_count, rsvp_required, priced, cost)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11, $12, $13)
RETURNING `+eventColumns+`
`,
		params.EventID,
		params.CreatorID,
		params.Name,
		params.Description,
		params.Category,
		params.Location,
		params.Images,
		params.Visibility,
		params.StartTime,
		params.EndTime,
		params.RSVPRequired,
		params.Priced,
		params.Cost,
	)
	event, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) List(ctx context.Context, opts events.ListOptions) ([]events.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	if !opts.IncludeInactive {
		query += ` WHERE visibility <> 'Inactive'`
	}
	if opts.Chronological {
		query += ` ORDER BY start_time ASC`
	}

	rows, err := r.queryer().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var items []events.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan events: %w", err)
		}
		items = append(items, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}

func (r *EventRepository) GetByID(ctx context.Context, eventID string, includeInactive bool) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE event_id = $1
`, eventID)
	event, err := scanEvent(row)
	if err != nil {
		return nil, err
	}
	if !includeInactive && event.Visibility == events.VisibilityInactive {
		return nil, events.ErrNotFound
	}
	return event, nil
}

// Update builds a SET clause from the supplied fields only. The column list
// is fixed here; identity, creator, and like_count are never assignable.
func (r *EventRepository) Update(ctx context.Context, eventID string, params events.UpdateParams) error {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if params.Name != nil {
		add("name", *params.Name)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Location != nil {
		add("location", *params.Location)
	}
	if params.Images != nil {
		add("images", *params.Images)
	}
	if params.Category != nil {
		add("category", *params.Category)
	}
	if params.Visibility != nil {
		add("visibility", *params.Visibility)
	}
	if params.StartTime != nil {
		add("start_time", *params.StartTime)
	}
	if params.EndTime != nil {
		add("end_time", *params.EndTime)
	}
	if params.RSVPRequired != nil {
		add("rsvp_required", *params.RSVPRequired)
	}
	if params.Priced != nil {
		add("priced", *params.Priced)
	}
	if params.Cost != nil {
		add("cost", *params.Cost)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, eventID)
	query := "UPDATE events SET " + strings.Join(sets, ", ") +
		" WHERE event_id = $" + strconv.Itoa(len(args))

	tag, err := r.queryer().Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

// SoftDelete purges RSVP and Like links and flags the event Inactive, all
// in one transaction. The event row persists.
func (r *EventRepository) SoftDelete(ctx context.Context, eventID string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, table := range []string{"rsvp_log", "likes_log"} {
			if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE event_id = $1`, eventID); err != nil {
				return fmt.Errorf("purge %s: %w", table, err)
			}
		}
		tag, err := tx.Exec(ctx, `
UPDATE events SET visibility = 'Inactive', like_count = 0, updated_at = now()
 WHERE event_id = $1
`, eventID)
		if err != nil {
			return fmt.Errorf("soft delete event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return events.ErrNotFound
		}
		return nil
	})
}

// HardDelete removes dependent rows child-first, then the event row, in one
// transaction so a mid-cascade failure leaves nothing orphaned.
func (r *EventRepository) HardDelete(ctx context.Context, eventID string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, table := range []string{"rsvp_log", "likes_log", "invite_log", "event_categories"} {
			if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE event_id = $1`, eventID); err != nil {
				return fmt.Errorf("purge %s: %w", table, err)
			}
		}
		tag, err := tx.Exec(ctx, `DELETE FROM events WHERE event_id = $1`, eventID)
		if err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return events.ErrNotFound
		}
		return nil
	})
}

func scanEvent(row pgx.Row) (*events.Event, error) {
	var (
		event     events.Event
		startTime pgtype.Timestamptz
		endTime   pgtype.Timestamptz
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&event.EventID,
		&event.CreatorID,
		&event.Name,
		&event.Description,
		&event.Category,
		&event.Location,
		&event.Images,
		&event.Visibility,
		&startTime,
		&endTime,
		&event.LikeCount,
		&event.RSVPRequired,
		&event.Priced,
		&event.Cost,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, err
	}
	if startTime.Valid {
		event.StartTime = startTime.Time
	}
	if endTime.Valid {
		event.EndTime = endTime.Time
	}
	if createdAt.Valid {
		event.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		event.UpdatedAt = updatedAt.Time
	}
	return &event, nil
}
