package accounts

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCodeTTL is how long a verification code stays valid.
	DefaultCodeTTL = 15 * time.Minute

	// BcryptCost is the cost factor for bcrypt password hashing.
	BcryptCost = 12
)

// Mailer delivers verification codes. Delivery failures do not fail
// registration; the code is still persisted and can be re-checked.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to string, code string) error
}

// Options configures the directory's institutional email domains.
type Options struct {
	// StudentEmailDomain is the subdomain students must register with.
	StudentEmailDomain string
	// FacultyEmailDomain is the parent domain faculty must register with.
	FacultyEmailDomain string
	CodeTTL            time.Duration
}

// Service is the account directory: registration, login, the verification
// state machine, and account removal.
type Service struct {
	repo    Repository
	mailer  Mailer
	logger  zerolog.Logger
	opts    Options
	student *regexp.Regexp
	faculty *regexp.Regexp

	now     func() time.Time
	newCode func() (string, error)
}

// Option overrides a Service collaborator, used by tests to pin the clock
// and the code generator.
type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithCodeSource(newCode func() (string, error)) Option {
	return func(s *Service) { s.newCode = newCode }
}

func NewService(repo Repository, mailer Mailer, opts Options, logger zerolog.Logger, overrides ...Option) *Service {
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = DefaultCodeTTL
	}
	s := &Service{
		repo:    repo,
		mailer:  mailer,
		logger:  logger.With().Str("component", "accounts").Logger(),
		opts:    opts,
		student: domainPattern(opts.StudentEmailDomain),
		faculty: domainPattern(opts.FacultyEmailDomain),
		now:     time.Now,
		newCode: generateCode,
	}
	for _, o := range overrides {
		o(s)
	}
	return s
}

func domainPattern(domain string) *regexp.Regexp {
	return regexp.MustCompile(`^.+@` + regexp.QuoteMeta(domain) + `$`)
}

type RegisterParams struct {
	AccountID string
	Role      string
	Email     string
	Password  string
}

// Register creates an unverified account with a fresh 6-digit code and
// returns the code. The raw password is never stored.
func (s *Service) Register(ctx context.Context, params RegisterParams) (string, error) {
	switch params.Role {
	case RoleStudent:
		if !s.student.MatchString(params.Email) {
			return "", ValidationError{Field: "email", Message: "students must use a " + s.opts.StudentEmailDomain + " email"}
		}
	case RoleFaculty:
		if !s.faculty.MatchString(params.Email) {
			return "", ValidationError{Field: "email", Message: "faculty must use a " + s.opts.FacultyEmailDomain + " email"}
		}
	default:
		return "", ValidationError{Field: "role", Message: "must be Student or Faculty"}
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(params.Password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	code, err := s.newCode()
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}

	if err := s.repo.Create(ctx, CreateParams{
		AccountID:      params.AccountID,
		Role:           params.Role,
		Email:          params.Email,
		PasswordDigest: string(digest),
		PendingCode:    code,
		CodeExpiry:     s.now().Add(s.opts.CodeTTL),
	}); err != nil {
		return "", err
	}

	if s.mailer != nil {
		if err := s.mailer.SendVerificationCode(ctx, params.Email, code); err != nil {
			s.logger.Error().Err(err).Str("email", params.Email).Msg("failed to send verification code")
		}
	}

	return code, nil
}

// Authenticate checks credentials and returns the account ID. The verified
// flag is only consulted after the digest matches, so failed logins never
// reveal verification state.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordDigest), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	if !account.Verified {
		return "", ErrUnverified
	}
	return account.AccountID, nil
}

// ConfirmVerification completes the unverified -> verified transition.
// The code is cleared on success, so a repeated call fails with ErrNotFound.
func (s *Service) ConfirmVerification(ctx context.Context, accountID, code string) error {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.PendingCode == nil || account.CodeExpiry == nil {
		return ErrNotFound
	}
	if s.now().After(*account.CodeExpiry) {
		return ErrCodeExpired
	}
	if *account.PendingCode != code {
		return ErrInvalidCode
	}

	if err := s.repo.MarkVerified(ctx, accountID); err != nil {
		return err
	}

	s.logger.Info().Str("account_id", accountID).Msg("account verified")
	return nil
}

// ChangePassword re-digests and persists a new password after checking the
// current one.
func (s *Service) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordDigest), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(newPassword), BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePasswordDigest(ctx, accountID, string(digest))
}

// Remove deletes the account irreversibly. Removal is refused while the
// account still owns events; its own RSVP and Like rows are purged.
func (s *Service) Remove(ctx context.Context, accountID string) error {
	if err := s.repo.Remove(ctx, accountID); err != nil {
		return err
	}
	s.logger.Info().Str("account_id", accountID).Msg("account removed")
	return nil
}

func (s *Service) GetByID(ctx context.Context, accountID string) (*Account, error) {
	return s.repo.GetByID(ctx, accountID)
}

// RoleOf resolves an account's role for authorization checks. The found
// flag is false when the account does not exist.
func (s *Service) RoleOf(ctx context.Context, accountID string) (string, bool, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return account.Role, true, nil
}

// generateCode draws a uniformly random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
