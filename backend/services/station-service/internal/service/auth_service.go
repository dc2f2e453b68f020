package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chargehub/backend/services/station-service/internal/apperror"
	"chargehub/backend/services/station-service/internal/federated"
	"chargehub/backend/services/station-service/internal/models"
	"chargehub/backend/services/station-service/internal/password"
	"chargehub/backend/services/station-service/internal/repository"
)

const (
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid credentials"

	msgInvalidFirebaseToken = "Invalid Firebase token"
)

// Session is an issued token and the user it belongs to.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService contains registration and login logic.
type AuthService struct {
	repo      UserRepository
	hasher    password.Hasher
	tokenizer *TokenService
	verifier  IdentityVerifier
	logger    *zap.Logger
}

// NewAuthService builds AuthService. verifier may be nil when federated login is disabled.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokenizer *TokenService, verifier IdentityVerifier, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		verifier:  verifier,
		logger:    logger,
	}
}

// Register creates a password account.
func (s *AuthService) Register(ctx context.Context, name, email, pass string) (*models.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" || email == "" || pass == "" {
		return nil, apperror.BadRequest("Name, email and password are required")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict(msgUserExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(msgUserExists)
		}
		return nil, apperror.Internal(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// Login authenticates with email and password.
func (s *AuthService) Login(ctx context.Context, email, pass string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || pass == "" {
		return nil, apperror.BadRequest(msgInvalidCredentials)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.BadRequest(msgInvalidCredentials)
		}
		return nil, apperror.Internal(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, pass); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, apperror.BadRequest(msgInvalidCredentials)
		}
		return nil, apperror.Internal(err)
	}

	return s.issue(user)
}

// FirebaseLogin exchanges a verified Firebase ID token for a session, creating the account on first use.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (*Session, error) {
	if s.verifier == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "Firebase login is not configured")
	}
	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		switch {
		case errors.Is(err, federated.ErrDisabled):
			return nil, apperror.Wrap(http.StatusServiceUnavailable, "Firebase login is not configured", err)
		case errors.Is(err, federated.ErrInvalidToken):
			return nil, apperror.Wrap(http.StatusUnauthorized, msgInvalidFirebaseToken, err)
		}
		return nil, apperror.Internal(err)
	}

	user, err := s.federatedUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// federatedUser resolves the local account for identity, linking or creating it.
func (s *AuthService) federatedUser(ctx context.Context, identity *federated.Identity) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, identity.Email)
	if errors.Is(err, repository.ErrNotFound) {
		user = &models.User{
			ID:          uuid.NewString(),
			Name:        displayName(identity),
			Email:       identity.Email,
			FirebaseUID: identity.UID,
		}
		err = s.repo.Create(ctx, user)
		if err == nil {
			s.logger.Info("user created from firebase", zap.String("user_id", user.ID))
			return user, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Internal(err)
		}
		// A concurrent first login created the account.
		user, err = s.repo.GetByEmail(ctx, identity.Email)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	switch user.FirebaseUID {
	case identity.UID:
	case "":
		if err := s.repo.LinkFirebase(ctx, user.ID, identity.UID); err != nil {
			return nil, apperror.Internal(err)
		}
		user.FirebaseUID = identity.UID
	default:
		s.logger.Warn("firebase uid does not match linked account", zap.String("user_id", user.ID))
		return nil, apperror.Unauthorized(msgInvalidFirebaseToken)
	}
	return user, nil
}

// Me returns the account behind userID.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, err := s.tokenizer.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &Session{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func displayName(id *federated.Identity) string {
	if name := strings.TrimSpace(id.Name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(id.Email, "@")
	return local
}
