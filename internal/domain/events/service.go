package events

import (
	"context"

	"github.com/campus-events/server/internal/audit"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RoleLookup resolves the role of an account for authorization checks.
// The found flag is false when the account does not exist.
type RoleLookup interface {
	RoleOf(ctx context.Context, accountID string) (role string, found bool, err error)
}

const roleFaculty = "Faculty"

// Service owns event records and the authorization rule shared by update,
// soft delete, and hard delete: the requester must be the event's creator
// or hold the Faculty role.
type Service struct {
	repo   Repository
	roles  RoleLookup
	auditL *audit.Logger
	logger zerolog.Logger
}

func NewService(repo Repository, roles RoleLookup, auditLogger *audit.Logger, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		roles:  roles,
		auditL: auditLogger,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// Create validates the category and visibility enumerations and inserts the
// event with a zero like count.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Event, error) {
	if err := validateCreate(params); err != nil {
		return nil, err
	}
	if params.EventID == "" {
		params.EventID = uuid.NewString()
	}
	return s.repo.Create(ctx, params)
}

// List returns events, excluding Inactive ones unless asked otherwise.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Event, error) {
	return s.repo.List(ctx, opts)
}

func (s *Service) GetByID(ctx context.Context, eventID string, includeInactive bool) (*Event, error) {
	return s.repo.GetByID(ctx, eventID, includeInactive)
}

// Update applies a partial update after the shared authorization check.
// Unset fields are untouched.
func (s *Service) Update(ctx context.Context, eventID, requesterID string, params UpdateParams) error {
	if err := validateUpdate(params); err != nil {
		return err
	}

	event, err := s.repo.GetByID(ctx, eventID, true)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, requesterID, event.CreatorID); err != nil {
		return err
	}
	if params.isEmpty() {
		return nil
	}
	return s.repo.Update(ctx, eventID, params)
}

// SoftDelete clears the event's engagement links and marks it Inactive.
// The row persists and stays reachable with IncludeInactive.
func (s *Service) SoftDelete(ctx context.Context, eventID, requesterID string) error {
	event, err := s.repo.GetByID(ctx, eventID, true)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, requesterID, event.CreatorID); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, eventID); err != nil {
		return err
	}

	s.auditL.LogSuccess("event.soft_deleted", requesterID, "event", eventID, "", nil)
	return nil
}

// HardDelete removes the event and every dependent row. Irreversible.
func (s *Service) HardDelete(ctx context.Context, eventID, requesterID string) error {
	event, err := s.repo.GetByID(ctx, eventID, true)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, requesterID, event.CreatorID); err != nil {
		return err
	}
	if err := s.repo.HardDelete(ctx, eventID); err != nil {
		return err
	}

	s.auditL.LogSuccess("event.hard_deleted", requesterID, "event", eventID, "", map[string]string{
		"name": event.Name,
	})
	return nil
}

// authorize implements the single mutation rule. An absent requester
// account is always unauthorized, even when the IDs match.
func (s *Service) authorize(ctx context.Context, requesterID, creatorID string) error {
	if requesterID == "" {
		return ErrForbidden
	}
	role, found, err := s.roles.RoleOf(ctx, requesterID)
	if err != nil {
		return err
	}
	if !found {
		return ErrForbidden
	}
	if requesterID == creatorID || role == roleFaculty {
		return nil
	}
	return ErrForbidden
}
