// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential checks, and issuing and
// verifying session tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/auth"
	"github.com/dmitrijs2005/bookshelf/internal/server/config"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	// bcrypt ignores input past 72 bytes.
	maxPasswordBytes = 72
)

// UserService provides account and session operations:
// - Register: create users with a bcrypt password hash
// - VerifyCredentials: check an email/password pair
// - IssueToken / Authenticate: mint and verify session tokens
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	sessionTTL  time.Duration
	bcryptCost  int
	log         logging.Logger
	now         func() time.Time

	// dummyHash is compared against when the email is unknown so that both
	// failure paths cost one bcrypt comparison.
	dummyHash func() []byte
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	cost := cfg.BcryptCost
	return &UserService{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
		sessionTTL:  cfg.SessionTTL,
		bcryptCost:  cost,
		log:         log,
		now:         time.Now,
		dummyHash: sync.OnceValue(func() []byte {
			h, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
			return h
		}),
	}
}

// NormalizeEmail trims and lower-cases an email address. All storage and
// lookups use the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user. A taken email yields common.ErrDuplicateEmail;
// malformed input yields a *common.ValidationError.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	u.PasswordHash = ""
	return u, nil
}

// VerifyCredentials returns the user owning email when password matches.
// Both failure modes wrap common.ErrInvalidCredentials; the cause
// (common.ErrUserNotFound or common.ErrBadPassword) is kept for logging.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))
			s.log.Info(ctx, "login rejected", "reason", common.ErrUserNotFound.Error())
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidCredentials, common.ErrUserNotFound)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Info(ctx, "login rejected", "reason", common.ErrBadPassword.Error(), "user_id", user.ID)
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidCredentials, common.ErrBadPassword)
	}

	user.PasswordHash = ""
	return user, nil
}

// FindByID returns the user without its password hash, or
// common.ErrorNotFound.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	u, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return u, nil
}

// IssueToken mints a session token for userID.
func (s *UserService) IssueToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.sessionTTL)
}

// SessionTTL is the lifetime of tokens minted by IssueToken.
func (s *UserService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Authenticate resolves a session token to its user. Errors are
// common.ErrMissingToken, common.ErrTokenExpired, common.ErrInvalidToken or
// common.ErrUnknownUser, or a wrapped storage error.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	u, err := s.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownUser
		}
		return nil, err
	}
	return u, nil
}

func validateCredentials(email, password string) error {
	switch {
	case email == "":
		return common.NewValidationError("Email is required")
	case !strings.Contains(email, "@"):
		return common.NewValidationError("Please enter a valid email")
	case password == "":
		return common.NewValidationError("Password is required")
	case utf8.RuneCountInString(password) < minPasswordLength:
		return common.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	case len(password) > maxPasswordBytes:
		return common.NewValidationError(fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}
