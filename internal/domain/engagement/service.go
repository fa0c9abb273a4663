package engagement

import (
	"context"

	"github.com/rs/zerolog"
)

// Service manages the RSVP and Like logs. Both enforce at most one link
// per (account, event) pair.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "engagement").Logger(),
	}
}

func (s *Service) Has(ctx context.Context, log Log, accountID, eventID string) (bool, error) {
	if !log.Valid() {
		return false, ErrUnknownLog
	}
	return s.repo.Has(ctx, log, accountID, eventID)
}

// Add links the account to the event. It returns false without error when
// the link already exists.
func (s *Service) Add(ctx context.Context, log Log, accountID, eventID string) (bool, error) {
	if !log.Valid() {
		return false, ErrUnknownLog
	}
	return s.repo.Add(ctx, log, accountID, eventID)
}

// Remove unlinks the account from the event, reporting whether a link was
// actually removed.
func (s *Service) Remove(ctx context.Context, log Log, accountID, eventID string) (bool, error) {
	if !log.Valid() {
		return false, ErrUnknownLog
	}
	return s.repo.Remove(ctx, log, accountID, eventID)
}

func (s *Service) ListByEvent(ctx context.Context, log Log, eventID string) ([]string, error) {
	if !log.Valid() {
		return nil, ErrUnknownLog
	}
	return s.repo.ListByEvent(ctx, log, eventID)
}

func (s *Service) ListByAccount(ctx context.Context, log Log, accountID string) ([]string, error) {
	if !log.Valid() {
		return nil, ErrUnknownLog
	}
	return s.repo.ListByAccount(ctx, log, accountID)
}

// Toggle mirrors the UI button: remove the link when it exists, add it
// otherwise. The added flag reports the resulting state.
func (s *Service) Toggle(ctx context.Context, log Log, accountID, eventID string) (added bool, err error) {
	has, err := s.Has(ctx, log, accountID, eventID)
	if err != nil {
		return false, err
	}
	if has {
		if _, err := s.repo.Remove(ctx, log, accountID, eventID); err != nil {
			return false, err
		}
		return false, nil
	}
	if _, err := s.repo.Add(ctx, log, accountID, eventID); err != nil {
		return false, err
	}
	return true, nil
}
