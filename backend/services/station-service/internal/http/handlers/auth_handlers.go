package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"chargehub/backend/services/station-service/internal/apperror"
	"chargehub/backend/services/station-service/internal/models"
	"chargehub/backend/services/station-service/internal/service"
)

// AuthService is the account logic used by AuthHandlers.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
	FirebaseLogin(ctx context.Context, idToken string) (*service.Session, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

// CookieOptions controls the session cookie set on login.
type CookieOptions struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

// AuthHandlers serves /api/auth.
type AuthHandlers struct {
	auth   AuthService
	cookie CookieOptions
	logger *zap.Logger
}

// NewAuthHandlers returns handler.
func NewAuthHandlers(auth AuthService, cookie CookieOptions, logger *zap.Logger) *AuthHandlers {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	if cookie.SameSite == 0 {
		cookie.SameSite = http.SameSiteLaxMode
	}
	return &AuthHandlers{auth: auth, cookie: cookie, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) error {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	user, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
	return nil
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setSessionCookie(w, session.Token)
	writeJSON(w, http.StatusOK, session)
	return nil
}

// Firebase handles POST /api/auth/firebase. The ID token comes as a Bearer header or {"idToken": ...}.
func (h *AuthHandlers) Firebase(w http.ResponseWriter, r *http.Request) error {
	idToken := bearerToken(r)
	if idToken == "" && r.ContentLength != 0 {
		var body struct {
			IDToken string `json:"idToken"`
		}
		if err := decodeJSON(r, &body); err != nil {
			return err
		}
		idToken = strings.TrimSpace(body.IDToken)
	}
	if idToken == "" {
		return apperror.Unauthorized("Not authorized, no token")
	}

	session, err := h.auth.FirebaseLogin(r.Context(), idToken)
	if err != nil {
		return err
	}
	h.setSessionCookie(w, session.Token)
	writeJSON(w, http.StatusOK, session)
	return nil
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.SameSite,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	return nil
}

// Me handles GET /api/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) error {
	userID, err := requireUser(r)
	if err != nil {
		return err
	}
	user, err := h.auth.Me(r.Context(), userID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
	return nil
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.SameSite,
	}
	if h.cookie.MaxAge > 0 {
		cookie.MaxAge = int(h.cookie.MaxAge.Seconds())
	}
	http.SetCookie(w, cookie)
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
