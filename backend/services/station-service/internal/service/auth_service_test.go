package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"chargehub/backend/services/station-service/internal/apperror"
	"chargehub/backend/services/station-service/internal/federated"
	"chargehub/backend/services/station-service/internal/models"
	"chargehub/backend/services/station-service/internal/password"
)

type stubVerifier struct {
	identity *federated.Identity
	err      error
}

func (v stubVerifier) Verify(context.Context, string) (*federated.Identity, error) {
	return v.identity, v.err
}

func newAuthService(repo *fakeUserRepo, verifier IdentityVerifier) (*AuthService, *TokenService) {
	tokens := NewTokenService("test-secret", time.Hour)
	return NewAuthService(repo, password.NewBcryptHasher(bcrypt.MinCost), tokens, verifier, zap.NewNop()), tokens
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newAuthService(repo, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ada", "Ada@Example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "ada@example.com" || user.PasswordHash == "" || user.PasswordHash == "s3cret" {
		t.Fatalf("unexpected user %+v", user)
	}

	_, err = svc.Register(ctx, "Ada again", "ada@example.com ", "other")
	appErr := apperror.From(err)
	if appErr == nil || appErr.Status != http.StatusBadRequest || appErr.Message != "User already exists" {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("duplicate user created, have %d", len(repo.users))
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc, tokens := newAuthService(repo, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	session, err := svc.Login(ctx, "ADA@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := tokens.ValidateToken(session.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("unexpected claims %+v", claims)
	}

	for _, tc := range []struct{ email, pass string }{
		{"ada@example.com", "wrong"},
		{"nobody@example.com", "s3cret"},
	} {
		_, err := svc.Login(ctx, tc.email, tc.pass)
		appErr := apperror.From(err)
		if appErr == nil || appErr.Status != http.StatusBadRequest || appErr.Message != "Invalid credentials" {
			t.Fatalf("Login(%q): expected invalid credentials, got %v", tc.email, err)
		}
	}
}

func TestLoginFederatedOnlyAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newAuthService(repo, stubVerifier{identity: &federated.Identity{UID: "fb-1", Email: "rider@example.com"}})
	ctx := context.Background()

	if _, err := svc.FirebaseLogin(ctx, "id-token"); err != nil {
		t.Fatalf("FirebaseLogin: %v", err)
	}
	if _, err := svc.Login(ctx, "rider@example.com", "anything"); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected password login to fail for federated account, got %v", err)
	}
}

func TestFirebaseLoginCreatesThenReusesAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newAuthService(repo, stubVerifier{identity: &federated.Identity{UID: "fb-1", Email: "rider@example.com"}})
	ctx := context.Background()

	first, err := svc.FirebaseLogin(ctx, "id-token")
	if err != nil {
		t.Fatalf("FirebaseLogin: %v", err)
	}
	if first.User.Name != "rider" || first.User.HasPassword() {
		t.Fatalf("unexpected federated user %+v", first.User)
	}

	second, err := svc.FirebaseLogin(ctx, "id-token")
	if err != nil {
		t.Fatalf("FirebaseLogin: %v", err)
	}
	if second.User.ID != first.User.ID || len(repo.users) != 1 {
		t.Fatalf("expected the same account to be reused")
	}
}

func TestFirebaseLoginLinksExistingAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newAuthService(repo, stubVerifier{identity: &federated.Identity{UID: "fb-9", Email: "ada@example.com", Name: "Ada L"}})
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	session, err := svc.FirebaseLogin(ctx, "id-token")
	if err != nil {
		t.Fatalf("FirebaseLogin: %v", err)
	}
	if session.User.ID != user.ID || repo.linked[user.ID] != "fb-9" {
		t.Fatalf("expected firebase uid linked to existing account")
	}
}

func TestFirebaseLoginRefusesAccountLinkedToAnotherUID(t *testing.T) {
	repo := newFakeUserRepo()
	ctx := context.Background()

	owner, _ := newAuthService(repo, stubVerifier{identity: &federated.Identity{UID: "fb-owner", Email: "ada@example.com"}})
	first, err := owner.FirebaseLogin(ctx, "id-token")
	if err != nil {
		t.Fatalf("FirebaseLogin: %v", err)
	}

	other, _ := newAuthService(repo, stubVerifier{identity: &federated.Identity{UID: "fb-other", Email: "ada@example.com"}})
	if _, err := other.FirebaseLogin(ctx, "id-token"); statusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a different firebase uid, got %v", err)
	}

	stored, err := repo.GetByID(ctx, first.User.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.FirebaseUID != "fb-owner" {
		t.Fatalf("linked uid changed to %q", stored.FirebaseUID)
	}
}

// racingUserRepo inserts a competing account right before Create, as a
// concurrent first login would.
type racingUserRepo struct {
	*fakeUserRepo
	rival *models.User
}

func (r *racingUserRepo) Create(ctx context.Context, user *models.User) error {
	if r.rival != nil {
		rival := r.rival
		r.rival = nil
		if err := r.fakeUserRepo.Create(ctx, rival); err != nil {
			return err
		}
	}
	return r.fakeUserRepo.Create(ctx, user)
}

func TestFirebaseLoginReusesAccountCreatedConcurrently(t *testing.T) {
	repo := &racingUserRepo{
		fakeUserRepo: newFakeUserRepo(),
		rival:        &models.User{ID: "rival-id", Name: "rider", Email: "rider@example.com", FirebaseUID: "fb-1"},
	}
	svc := NewAuthService(repo, password.NewBcryptHasher(bcrypt.MinCost), NewTokenService("test-secret", time.Hour),
		stubVerifier{identity: &federated.Identity{UID: "fb-1", Email: "rider@example.com"}}, zap.NewNop())

	session, err := svc.FirebaseLogin(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("FirebaseLogin: %v", err)
	}
	if session.User.ID != "rival-id" || len(repo.users) != 1 {
		t.Fatalf("expected the concurrently created account, got %+v", session.User)
	}
}

func TestFirebaseLoginErrors(t *testing.T) {
	tests := []struct {
		name     string
		verifier IdentityVerifier
		status   int
	}{
		{name: "not configured", verifier: nil, status: http.StatusServiceUnavailable},
		{name: "disabled", verifier: stubVerifier{err: federated.ErrDisabled}, status: http.StatusServiceUnavailable},
		{name: "invalid", verifier: stubVerifier{err: fmt.Errorf("%w: bad aud", federated.ErrInvalidToken)}, status: http.StatusUnauthorized},
		{name: "certs down", verifier: stubVerifier{err: errors.New("federated: fetch certs: boom")}, status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newAuthService(newFakeUserRepo(), tt.verifier)
			if _, err := svc.FirebaseLogin(context.Background(), "id-token"); statusOf(err) != tt.status {
				t.Fatalf("expected %d, got %v", tt.status, err)
			}
		})
	}
}

func TestMe(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newAuthService(repo, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, err := svc.Me(ctx, user.ID)
	if err != nil || got.Email != user.Email {
		t.Fatalf("Me: %v (%+v)", err, got)
	}
	if _, err := svc.Me(ctx, "missing"); statusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}
