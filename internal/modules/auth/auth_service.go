package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"fleetwatch/internal/models"
	"fleetwatch/internal/refdata"
)

// TokenStore holds the upstream bearer token for the lifetime of a session.
// It doubles as the token source the read and write gateways consult.
type TokenStore interface {
	Token() (string, bool)
	SetToken(token string)
	Clear()
}

// MemoryTokenStore is the in-process TokenStore. The dashboard runs a single
// operator session, so one slot is enough.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryTokenStore creates an empty token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Token returns the stored upstream token, if any.
func (m *MemoryTokenStore) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

// SetToken stores a fresh upstream token.
func (m *MemoryTokenStore) SetToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

// Clear drops the stored token.
func (m *MemoryTokenStore) Clear() {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
}

// ServiceInterface defines the auth module's contract.
type ServiceInterface interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.Session, error)
	Logout(ctx context.Context)
	CurrentUser(ctx context.Context) (*models.User, error)
	ParseToken(token string) (*models.User, error)
}

const sessionTTL = 24 * time.Hour

// Service authenticates dashboard operators. In mock mode it verifies
// credentials against the built-in demo account; in live mode it proxies
// the upstream auth endpoints and keeps the upstream token in the store so
// the telemetry and agent gateways can reuse it.
type Service struct {
	baseURL      string
	httpClient   *http.Client
	mock         bool
	jwtSecret    []byte
	passwordHash []byte
	tokens       TokenStore
}

// NewService creates a new auth service. passwordHash overrides the demo
// account's bcrypt hash when non-empty.
func NewService(baseURL string, mock bool, jwtSecret, passwordHash string, tokens TokenStore) *Service {
	hash := []byte(passwordHash)
	if len(hash) == 0 {
		hash = refdata.DemoPasswordHash()
	}
	return &Service{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		mock:         mock,
		jwtSecret:    []byte(jwtSecret),
		passwordHash: hash,
		tokens:       tokens,
	}
}

// Login verifies credentials and mints a session token. The session JWT is
// always minted locally; in live mode the upstream token is additionally
// captured for the gateways.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	var user models.User
	if s.mock {
		if !strings.EqualFold(req.Email, refdata.DemoUser.Email) {
			return nil, models.ErrInvalidCredentials
		}
		if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)); err != nil {
			return nil, models.ErrInvalidCredentials
		}
		user = refdata.DemoUser
	} else {
		upstream, err := s.upstreamLogin(ctx, req)
		if err != nil {
			return nil, err
		}
		user = upstream
	}

	expiresAt := time.Now().Add(sessionTTL)
	token, err := s.mintToken(user, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("auth: mint session token: %w", err)
	}

	return &models.Session{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// Logout ends the session. The upstream logout is best-effort; the local
// token is cleared regardless, so logout never fails.
func (s *Service) Logout(ctx context.Context) {
	if !s.mock {
		if tok, ok := s.tokens.Token(); ok {
			if err := s.post(ctx, "/api/auth/logout", nil, tok); err != nil {
				log.WithError(err).Warn("upstream logout failed")
			}
		}
	}
	s.tokens.Clear()
}

// CurrentUser returns the operator profile for the active session.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	if s.mock {
		user := refdata.DemoUser
		return &user, nil
	}

	tok, ok := s.tokens.Token()
	if !ok {
		return nil, models.ErrInvalidToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("auth: build me request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: GET /api/auth/me: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, models.ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: GET /api/auth/me: unexpected status %d", resp.StatusCode)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("auth: decode me response: %w", err)
	}
	return &user, nil
}

// ParseToken validates a locally minted session JWT and recovers the user
// claims embedded in it.
func (s *Service) ParseToken(token string) (*models.User, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, models.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.ErrInvalidToken
	}
	user := models.User{}
	if sub, err := claims.GetSubject(); err == nil {
		user.ID = sub
	}
	if name, ok := claims["name"].(string); ok {
		user.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		user.Role = role
	}
	return &user, nil
}

func (s *Service) mintToken(user models.User, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// upstreamLogin proxies credentials to the upstream auth endpoint and
// captures its bearer token for the gateways.
func (s *Service) upstreamLogin(ctx context.Context, creds models.LoginRequest) (models.User, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return models.User{}, fmt.Errorf("auth: encode login: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return models.User{}, fmt.Errorf("auth: build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.User{}, fmt.Errorf("auth: POST /api/auth/login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return models.User{}, models.ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return models.User{}, fmt.Errorf("auth: POST /api/auth/login: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.User{}, fmt.Errorf("auth: decode login response: %w", err)
	}
	if payload.Token == "" {
		return models.User{}, fmt.Errorf("auth: upstream login returned no token")
	}
	s.tokens.SetToken(payload.Token)
	return payload.User, nil
}

func (s *Service) post(ctx context.Context, path string, payload interface{}, bearer string) error {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return fmt.Errorf("auth: encode %s: %w", path, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, &body)
	if err != nil {
		return fmt.Errorf("auth: build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth: POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("auth: POST %s: unexpected status %d", path, resp.StatusCode)
	}
	return nil
}
