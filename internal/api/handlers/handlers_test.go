package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/campus-events/server/internal/api/middleware"
	"github.com/campus-events/server/internal/audit"
	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/domain/engagement"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/rs/zerolog"
)

// Shared fixtures for the handler tests. Handlers are exercised through a
// real ServeMux so path parameters and the auth middleware both apply.

type stubEventRepo struct {
	events map[string]*events.Event
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{events: make(map[string]*events.Event)}
}

func (r *stubEventRepo) Create(_ context.Context, params events.CreateParams) (*events.Event, error) {
	event := &events.Event{
		EventID:      params.EventID,
		CreatorID:    params.CreatorID,
		Name:         params.Name,
		Description:  params.Description,
		Category:     params.Category,
		Location:     params.Location,
		Images:       params.Images,
		Visibility:   params.Visibility,
		StartTime:    params.StartTime,
		EndTime:      params.EndTime,
		RSVPRequired: params.RSVPRequired,
		Priced:       params.Priced,
		Cost:         params.Cost,
	}
	r.events[params.EventID] = event
	copied := *event
	return &copied, nil
}

func (r *stubEventRepo) List(_ context.Context, opts events.ListOptions) ([]events.Event, error) {
	var out []events.Event
	for _, event := range r.events {
		if !opts.IncludeInactive && event.Visibility == events.VisibilityInactive {
			continue
		}
		out = append(out, *event)
	}
	return out, nil
}

func (r *stubEventRepo) GetByID(_ context.Context, eventID string, includeInactive bool) (*events.Event, error) {
	event, ok := r.events[eventID]
	if !ok {
		return nil, events.ErrNotFound
	}
	if !includeInactive && event.Visibility == events.VisibilityInactive {
		return nil, events.ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *stubEventRepo) Update(_ context.Context, eventID string, params events.UpdateParams) error {
	event, ok := r.events[eventID]
	if !ok {
		return events.ErrNotFound
	}
	if params.Name != nil {
		event.Name = *params.Name
	}
	if params.Visibility != nil {
		event.Visibility = *params.Visibility
	}
	if params.StartTime != nil {
		event.StartTime = *params.StartTime
	}
	return nil
}

func (r *stubEventRepo) SoftDelete(_ context.Context, eventID string) error {
	event, ok := r.events[eventID]
	if !ok {
		return events.ErrNotFound
	}
	event.Visibility = events.VisibilityInactive
	event.LikeCount = 0
	return nil
}

func (r *stubEventRepo) HardDelete(_ context.Context, eventID string) error {
	if _, ok := r.events[eventID]; !ok {
		return events.ErrNotFound
	}
	delete(r.events, eventID)
	return nil
}

type stubRoles struct {
	roles map[string]string
}

func (s *stubRoles) RoleOf(_ context.Context, accountID string) (string, bool, error) {
	role, ok := s.roles[accountID]
	return role, ok, nil
}

type pair struct {
	account string
	event   string
}

type stubEngagementRepo struct {
	links map[engagement.Log]map[pair]struct{}
}

func newStubEngagementRepo() *stubEngagementRepo {
	return &stubEngagementRepo{links: map[engagement.Log]map[pair]struct{}{
		engagement.LogRSVP: {},
		engagement.LogLike: {},
	}}
}

func (r *stubEngagementRepo) Has(_ context.Context, log engagement.Log, accountID, eventID string) (bool, error) {
	_, ok := r.links[log][pair{accountID, eventID}]
	return ok, nil
}

func (r *stubEngagementRepo) Add(_ context.Context, log engagement.Log, accountID, eventID string) (bool, error) {
	key := pair{accountID, eventID}
	if _, ok := r.links[log][key]; ok {
		return false, nil
	}
	r.links[log][key] = struct{}{}
	return true, nil
}

func (r *stubEngagementRepo) Remove(_ context.Context, log engagement.Log, accountID, eventID string) (bool, error) {
	key := pair{accountID, eventID}
	if _, ok := r.links[log][key]; !ok {
		return false, nil
	}
	delete(r.links[log], key)
	return true, nil
}

func (r *stubEngagementRepo) ListByEvent(_ context.Context, log engagement.Log, eventID string) ([]string, error) {
	var out []string
	for key := range r.links[log] {
		if key.event == eventID {
			out = append(out, key.account)
		}
	}
	return out, nil
}

func (r *stubEngagementRepo) ListByAccount(_ context.Context, log engagement.Log, accountID string) ([]string, error) {
	var out []string
	for key := range r.links[log] {
		if key.account == accountID {
			out = append(out, key.event)
		}
	}
	return out, nil
}

// testEnv bundles the pieces most handler tests need.
type testEnv struct {
	eventRepo      *stubEventRepo
	engagementRepo *stubEngagementRepo
	eventsService  *events.Service
	jwt            *auth.JWTManager
	authed         func(http.Handler) http.Handler
}

func newTestEnv() *testEnv {
	eventRepo := newStubEventRepo()
	roles := &stubRoles{roles: map[string]string{
		"student-1": "Student",
		"student-2": "Student",
		"faculty-1": "Faculty",
	}}
	eventsService := events.NewService(eventRepo, roles, audit.NewLogger(), zerolog.Nop())
	jwtManager := auth.NewJWTManager("test-secret-at-least-32-bytes-long", time.Hour, "http://localhost:8080")

	return &testEnv{
		eventRepo:      eventRepo,
		engagementRepo: newStubEngagementRepo(),
		eventsService:  eventsService,
		jwt:            jwtManager,
		authed:         middleware.RequireAuth(jwtManager, "test"),
	}
}
