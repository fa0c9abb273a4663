package postgres

import (
	"context"
	"fmt"

	"github.com/campus-events/server/internal/domain/engagement"
	"github.com/jackc/pgx/v5"
)

var _ engagement.Repository = (*EngagementRepository)(nil)

func (r *EngagementRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

// tableFor maps a log to its join table. The whitelist keeps table names
// out of caller control.
func tableFor(log engagement.Log) (string, error) {
	switch log {
	case engagement.LogRSVP:
		return "rsvp_log", nil
	case engagement.LogLike:
		return "likes_log", nil
	default:
		return "", engagement.ErrUnknownLog
	}
}

func (r *EngagementRepository) Has(ctx context.Context, log engagement.Log, accountID, eventID string) (bool, error) {
	table, err := tableFor(log)
	if err != nil {
		return false, err
	}
	var exists bool
	err = r.queryer().QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM `+table+` WHERE account_id = $1 AND event_id = $2)
`, accountID, eventID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check %s link: %w", log, err)
	}
	return exists, nil
}

// Add inserts the link with ON CONFLICT DO NOTHING so two concurrent calls
// on the same pair cannot both insert. Like insertions bump the event's
// denormalized like count in the same transaction.
func (r *EngagementRepository) Add(ctx context.Context, log engagement.Log, accountID, eventID string) (bool, error) {
	table, err := tableFor(log)
	if err != nil {
		return false, err
	}

	var inserted bool
	err = withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
INSERT INTO `+table+` (event_id, account_id) VALUES ($1, $2)
ON CONFLICT (event_id, account_id) DO NOTHING
`, eventID, accountID)
		if err != nil {
			return fmt.Errorf("add %s link: %w", log, err)
		}
		inserted = tag.RowsAffected() > 0
		if inserted && log == engagement.LogLike {
			if _, err := tx.Exec(ctx, `
UPDATE events SET like_count = like_count + 1 WHERE event_id = $1
`, eventID); err != nil {
				return fmt.Errorf("bump like count: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func (r *EngagementRepository) Remove(ctx context.Context, log engagement.Log, accountID, eventID string) (bool, error) {
	table, err := tableFor(log)
	if err != nil {
		return false, err
	}

	var removed bool
	err = withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
DELETE FROM `+table+` WHERE account_id = $1 AND event_id = $2
`, accountID, eventID)
		if err != nil {
			return fmt.Errorf("remove %s link: %w", log, err)
		}
		removed = tag.RowsAffected() > 0
		if removed && log == engagement.LogLike {
			if _, err := tx.Exec(ctx, `
UPDATE events SET like_count = GREATEST(like_count - 1, 0) WHERE event_id = $1
`, eventID); err != nil {
				return fmt.Errorf("drop like count: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (r *EngagementRepository) ListByEvent(ctx context.Context, log engagement.Log, eventID string) ([]string, error) {
	table, err := tableFor(log)
	if err != nil {
		return nil, err
	}
	return r.listColumn(ctx, `
SELECT account_id FROM `+table+` WHERE event_id = $1 ORDER BY created_at ASC
`, eventID)
}

func (r *EngagementRepository) ListByAccount(ctx context.Context, log engagement.Log, accountID string) ([]string, error) {
	table, err := tableFor(log)
	if err != nil {
		return nil, err
	}
	return r.listColumn(ctx, `
SELECT event_id FROM `+table+` WHERE account_id = $1 ORDER BY created_at ASC
`, accountID)
}

func (r *EngagementRepository) listColumn(ctx context.Context, query string, arg string) ([]string, error) {
	rows, err := r.queryer().Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}
	return ids, nil
}
