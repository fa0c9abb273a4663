package postgres

import (
	"context"
	"testing"

	"github.com/campus-events/server/internal/domain/engagement"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/stretchr/testify/require"
)

func TestEventRepositorySoftDeletePurgesLinks(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo := &EventRepository{pool: pool}

	insertAccount(t, ctx, pool, "creator", "Student", "sam@bears.unco.edu")
	insertAccount(t, ctx, pool, "a2", "Student", "pat@bears.unco.edu")
	eventID := insertTestEvent(t, ctx, pool, "creator", "Spring Hackathon", "Public")

	linkEngagement(t, ctx, pool, engagement.LogRSVP, "creator", eventID)
	linkEngagement(t, ctx, pool, engagement.LogRSVP, "a2", eventID)
	linkEngagement(t, ctx, pool, engagement.LogLike, "a2", eventID)
	require.Equal(t, 1, eventLikeCount(t, ctx, pool, eventID))

	require.NoError(t, repo.SoftDelete(ctx, eventID))

	// Every RSVP and Like link is gone; the row persists as Inactive with
	// a zeroed like count.
	require.Zero(t, countRows(t, ctx, pool, "rsvp_log", "event_id", eventID))
	require.Zero(t, countRows(t, ctx, pool, "likes_log", "event_id", eventID))

	event, err := repo.GetByID(ctx, eventID, true)
	require.NoError(t, err)
	require.Equal(t, events.VisibilityInactive, event.Visibility)
	require.Zero(t, event.LikeCount)

	_, err = repo.GetByID(ctx, eventID, false)
	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestEventRepositorySoftDeleteUnknownEvent(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo := &EventRepository{pool: pool}

	err := repo.SoftDelete(ctx, "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestEventRepositoryHardDeleteLeavesNoChildRows(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo := &EventRepository{pool: pool}

	insertAccount(t, ctx, pool, "creator", "Faculty", "prof@unco.edu")
	insertAccount(t, ctx, pool, "a2", "Student", "pat@bears.unco.edu")
	eventID := insertTestEvent(t, ctx, pool, "creator", "Dissertation Defense", "Public")

	linkEngagement(t, ctx, pool, engagement.LogRSVP, "a2", eventID)
	linkEngagement(t, ctx, pool, engagement.LogLike, "a2", eventID)
	_, err := pool.Exec(ctx, `INSERT INTO invite_log (event_id, account_id) VALUES ($1, $2)`, eventID, "a2")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO event_categories (event_id, category) VALUES ($1, $2)`, eventID, "Honors")
	require.NoError(t, err)

	require.NoError(t, repo.HardDelete(ctx, eventID))

	for _, table := range []string{"rsvp_log", "likes_log", "invite_log", "event_categories"} {
		require.Zero(t, countRows(t, ctx, pool, table, "event_id", eventID), "rows left in %s", table)
	}

	_, err = repo.GetByID(ctx, eventID, true)
	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestEventRepositoryListExcludesInactive(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo := &EventRepository{pool: pool}

	insertAccount(t, ctx, pool, "creator", "Student", "sam@bears.unco.edu")
	visibleID := insertTestEvent(t, ctx, pool, "creator", "Visible", "Public")
	hiddenID := insertTestEvent(t, ctx, pool, "creator", "Hidden", "Inactive")

	listed, err := repo.List(ctx, events.ListOptions{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, visibleID, listed[0].EventID)

	all, err := repo.List(ctx, events.ListOptions{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all, 2)

	hidden, err := repo.GetByID(ctx, hiddenID, true)
	require.NoError(t, err)
	require.Equal(t, events.VisibilityInactive, hidden.Visibility)
}

func TestEventRepositoryPartialUpdate(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo := &EventRepository{pool: pool}

	insertAccount(t, ctx, pool, "creator", "Student", "sam@bears.unco.edu")
	eventID := insertTestEvent(t, ctx, pool, "creator", "Spring Hackathon", "Public")

	name := "Fall Hackathon"
	visibility := events.VisibilityPrivate
	require.NoError(t, repo.Update(ctx, eventID, events.UpdateParams{
		Name:       &name,
		Visibility: &visibility,
	}))

	event, err := repo.GetByID(ctx, eventID, true)
	require.NoError(t, err)
	require.Equal(t, "Fall Hackathon", event.Name)
	require.Equal(t, events.VisibilityPrivate, event.Visibility)
	// Untouched fields keep their values.
	require.Equal(t, "Computer Science", event.Category)
}

func TestEventRepositoryUpdateUnknownEvent(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	repo := &EventRepository{pool: pool}

	name := "Renamed"
	err := repo.Update(ctx, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", events.UpdateParams{Name: &name})
	require.ErrorIs(t, err, events.ErrNotFound)
}
