package federated

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type certServer struct {
	srv   *httptest.Server
	key   *rsa.PrivateKey
	calls atomic.Int32
}

func newCertServer(t *testing.T) *certServer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken.test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create cert: %v", err)
	}
	certPEM := string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))

	cs := &certServer{key: key}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.calls.Add(1)
		w.Header().Set("Cache-Control", "public, max-age=600, must-revalidate")
		_ = json.NewEncoder(w).Encode(map[string]string{"kid-1": certPEM})
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *certServer) sign(t *testing.T, kid string, claims firebaseClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(cs.key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func validClaims(project string) firebaseClaims {
	now := time.Now()
	return firebaseClaims{
		Email:         "Rider@Example.com",
		EmailVerified: true,
		Name:          "Rider",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "firebase-uid-1",
			Issuer:    "https://securetoken.google.com/" + project,
			Audience:  jwt.ClaimStrings{project},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestVerifyAcceptsValidToken(t *testing.T) {
	cs := newCertServer(t)
	v := NewFirebaseVerifier("chargehub-test", cs.srv.URL, cs.srv.Client())

	id, err := v.Verify(context.Background(), cs.sign(t, "kid-1", validClaims("chargehub-test")))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UID != "firebase-uid-1" || id.Email != "rider@example.com" || id.Name != "Rider" {
		t.Fatalf("unexpected identity %+v", id)
	}

	if _, err := v.Verify(context.Background(), cs.sign(t, "kid-1", validClaims("chargehub-test"))); err != nil {
		t.Fatalf("second Verify: %v", err)
	}
	if got := cs.calls.Load(); got != 1 {
		t.Fatalf("expected certs to be cached, fetched %d times", got)
	}
}

func TestVerifyRejectsWrongAudienceAndKid(t *testing.T) {
	cs := newCertServer(t)
	v := NewFirebaseVerifier("chargehub-test", cs.srv.URL, cs.srv.Client())

	if _, err := v.Verify(context.Background(), cs.sign(t, "kid-1", validClaims("other-project"))); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign project, got %v", err)
	}
	if _, err := v.Verify(context.Background(), cs.sign(t, "kid-unknown", validClaims("chargehub-test"))); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for unknown kid, got %v", err)
	}

	expired := validClaims("chargehub-test")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	if _, err := v.Verify(context.Background(), cs.sign(t, "kid-1", expired)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsUnverifiedEmail(t *testing.T) {
	cs := newCertServer(t)
	v := NewFirebaseVerifier("chargehub-test", cs.srv.URL, cs.srv.Client())

	claims := validClaims("chargehub-test")
	claims.EmailVerified = false
	id, err := v.Verify(context.Background(), cs.sign(t, "kid-1", claims))
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for unverified email, got identity %+v err %v", id, err)
	}
}

func TestVerifyDisabledWithoutProject(t *testing.T) {
	v := NewFirebaseVerifier("", "", nil)
	if _, err := v.Verify(context.Background(), "token"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestMaxAge(t *testing.T) {
	if got := maxAge("public, max-age=19302, must-revalidate"); got != 19302*time.Second {
		t.Fatalf("unexpected max-age %s", got)
	}
	if got := maxAge("no-cache"); got != defaultCertsMaxAge {
		t.Fatalf("expected default max-age, got %s", got)
	}
}
