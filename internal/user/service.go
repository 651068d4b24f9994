package user

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/kbukum/lyrebird/auth/jwt"
	"github.com/kbukum/lyrebird/auth/password"
	"github.com/kbukum/lyrebird/database"
	apperrors "github.com/kbukum/lyrebird/errors"
	"github.com/kbukum/lyrebird/logger"
	"github.com/kbukum/lyrebird/validation"
)

const msgBadCredentials = "Incorrect email or password"

// Service implements registration, login and profile lookup.
type Service struct {
	repo   *Repository
	hasher password.Hasher
	tokens *jwt.Service[*jwt.Claims]
	log    *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewService wires the user service.
func NewService(repo *Repository, hasher password.Hasher, tokens *jwt.Service[*jwt.Claims], log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		log:    log.WithComponent("user"),
	}
}

// Register creates an account. A taken email is a 400, as existing clients expect.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.AlreadyExists("Email already registered", http.StatusBadRequest)
	} else if !database.IsNotFoundError(err) {
		return nil, database.FromDatabase(err, "user")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	u := &User{Email: req.Email, HashedPassword: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		// Lost a race with a concurrent registration.
		if database.IsDuplicateError(err) {
			return nil, apperrors.AlreadyExists("Email already registered", http.StatusBadRequest)
		}
		return nil, database.FromDatabase(err, "user")
	}

	s.log.WithContext(ctx).Info("User registered", logger.Fields(logger.FieldUserID, u.ID.String()))
	return u, nil
}

// Login checks credentials and returns a bearer token whose subject is the user id.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Token, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Username))
	if err != nil {
		if !database.IsNotFoundError(err) {
			return nil, database.FromDatabase(err, "user")
		}
		// Spend the same hashing time as a real check.
		_ = s.hasher.Verify(req.Password, s.dummy())
		return nil, apperrors.Unauthorized(msgBadCredentials)
	}

	if err := s.hasher.Verify(req.Password, u.HashedPassword); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.log.WithContext(ctx).Warn("Password verification error", logger.Fields(
				logger.FieldUserID, u.ID.String(),
				logger.FieldError, err.Error(),
			))
		}
		return nil, apperrors.Unauthorized(msgBadCredentials)
	}

	token, err := s.tokens.GenerateAccess(jwt.NewClaims(u.ID.String()))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

// Get returns the user with id, or a 401 when the token names a user that
// no longer exists.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	uid, err := validation.ValidateUUID("user_id", id)
	if err != nil {
		return nil, apperrors.InvalidToken()
	}
	u, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, apperrors.InvalidToken()
		}
		return nil, database.FromDatabase(err, "user")
	}
	return u, nil
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("lyrebird-dummy-password")
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
