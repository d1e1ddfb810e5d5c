package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/logger"
	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

// ErrForbidden is returned when credentials are valid but the account's role
// is not allowed into the dashboard. The message deliberately does not say
// which roles are accepted.
var ErrForbidden = errors.New("Você não tem permissão para acessar este aplicativo.")

type loginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID     string        `json:"id"`
		Email  string        `json:"email"`
		Name   string        `json:"name"`
		Role   zonaazul.Role `json:"role"`
		Avatar string        `json:"avatar,omitempty"`
	} `json:"user"`
	ExpiresIn int `json:"expiresIn,omitempty"`
}

// Session owns the tokens and the current user. It is built explicitly and
// passed to whoever needs it; there is no ambient global state.
type Session struct {
	store *Store
	api   *api.Client
	users *zonaazul.UserService
	log   *logger.Logger

	mu      sync.RWMutex
	current StoredSession
}

func New(store *Store, client *api.Client, users *zonaazul.UserService, log *logger.Logger) *Session {
	if log == nil {
		log = logger.New(logger.LevelInfo)
	}
	return &Session{store: store, api: client, users: users, log: log}
}

// AccessToken implements api.TokenSource.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

func (s *Session) User() *zonaazul.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.User
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token != "" && s.current.User != nil
}

// Login authenticates and fails closed on disallowed roles: valid credentials
// with the wrong role still end logged out, with all stored state cleared.
func (s *Session) Login(ctx context.Context, email, password string) (*zonaazul.User, error) {
	const component = "Session"

	if !hasAt(email) {
		return nil, &zonaazul.ValidationError{Message: "Informe um email válido"}
	}
	if len(password) < 6 {
		return nil, &zonaazul.ValidationError{Message: "A senha deve ter no mínimo 6 caracteres"}
	}

	var resp loginResponse
	err := s.api.Post(ctx, "/auth/login", map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		// Server message surfaces verbatim.
		return nil, err
	}

	s.set(StoredSession{Token: resp.Token, RefreshToken: resp.RefreshToken})

	user, meErr := s.users.Me(ctx)
	if meErr != nil {
		s.log.Warn(component, "Failed to fetch full profile after login, using login payload: error=%v", meErr)
		user = &zonaazul.User{
			ID:        resp.User.ID,
			Email:     resp.User.Email,
			Name:      resp.User.Name,
			Role:      resp.User.Role,
			Avatar:    resp.User.Avatar,
			IsActive:  true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
	}

	if !CapabilitiesFor(user.Role).AccessDashboard {
		s.Clear()
		s.log.Warn(component, "Login rejected: role=%s not allowed", user.Role)
		return nil, ErrForbidden
	}

	s.set(StoredSession{Token: resp.Token, RefreshToken: resp.RefreshToken, User: user})
	s.log.Info(component, "Login succeeded: user=%s role=%s", user.Email, user.Role)
	return user, nil
}

// Logout invalidates the refresh token server-side on a best-effort basis.
// Local state is cleared no matter what the server says.
func (s *Session) Logout(ctx context.Context) {
	const component = "Session"

	s.mu.RLock()
	refreshToken := s.current.RefreshToken
	s.mu.RUnlock()

	if refreshToken != "" {
		if err := s.api.Post(ctx, "/auth/logout", map[string]string{"refreshToken": refreshToken}, nil); err != nil {
			s.log.Warn(component, "Server-side logout failed, clearing local session anyway: error=%v", err)
		}
	}
	s.Clear()
	s.log.Info(component, "Logged out")
}

// Restore revalidates a persisted session on startup. Any failure silently
// clears the stored state and reports logged out; nothing is surfaced to the
// user at this stage.
func (s *Session) Restore(ctx context.Context) (*zonaazul.User, bool) {
	const component = "Session"

	stored, err := s.store.Load()
	if err != nil || stored.Token == "" {
		return nil, false
	}
	s.setMemory(stored)

	if expired, known := tokenExpired(stored.Token); known && expired {
		s.log.Debug(component, "Stored token already expired, clearing session")
		s.Clear()
		return nil, false
	}

	user, err := s.users.Me(ctx)
	if err != nil {
		s.log.Debug(component, "Stored session rejected by server, clearing: error=%v", err)
		s.Clear()
		return nil, false
	}

	stored.User = user
	s.set(stored)
	s.log.Info(component, "Session restored: user=%s role=%s", user.Email, user.Role)
	return user, true
}

// Refresh exchanges the refresh token for a new access token.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.RLock()
	stored := s.current
	s.mu.RUnlock()

	if stored.RefreshToken == "" {
		return errors.New("no refresh token")
	}

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := s.api.Post(ctx, "/auth/refresh", map[string]string{"refreshToken": stored.RefreshToken}, &resp); err != nil {
		return err
	}

	stored.Token = resp.AccessToken
	s.set(stored)
	return nil
}

// Clear wipes both the in-memory and the persisted session.
func (s *Session) Clear() {
	s.mu.Lock()
	s.current = StoredSession{}
	s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		s.log.Warn("Session", "Failed to remove session file: error=%v", err)
	}
}

func (s *Session) set(stored StoredSession) {
	s.setMemory(stored)
	if err := s.store.Save(stored); err != nil {
		s.log.Warn("Session", "Failed to persist session: error=%v", err)
	}
}

func (s *Session) setMemory(stored StoredSession) {
	s.mu.Lock()
	s.current = stored
	s.mu.Unlock()
}

// tokenExpired parses the JWT without verifying it (the client never holds the
// signing secret) just to read the exp claim. known=false means the token is
// opaque and the server gets the final word.
func tokenExpired(token string) (expired, known bool) {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, false
	}
	return exp.Before(time.Now()), true
}

func hasAt(email string) bool {
	for _, r := range email {
		if r == '@' {
			return true
		}
	}
	return false
}
