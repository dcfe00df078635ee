package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
	"github.com/mentorlink/attendance-portal/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	meFn       func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (string, *domain.User, error) {
			if input.Name != "Alice" || input.Role != "mentor" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return "token123", &domain.User{ID: "u1", Name: input.Name, Email: input.Email, Role: input.Role}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/signup",
		`{"name":"Alice","email":"alice@example.com","password":"secret1","role":"mentor"}`)

	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token in response, got %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["name"] != "Alice" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("credential hash must never be serialized")
	}
}

func TestAuthHandler_Signup_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, _ ports.RegisterInput) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/api/auth/signup", "not-json")

	err := h.Signup(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Signup_ValidationFailure(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, _ ports.RegisterInput) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	h := NewAuthHandler(stub)

	// Password shorter than the minimum.
	c, _ := newTestContext(t, http.MethodPost, "/api/auth/signup",
		`{"name":"Alice","email":"alice@example.com","password":"x","role":"mentor"}`)

	err := h.Signup(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Signup_ServiceErrorPassthrough(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, _ ports.RegisterInput) (string, *domain.User, error) {
			return "", nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/api/auth/signup",
		`{"name":"Bob","email":"bob@example.com","password":"secret1","role":"mentor"}`)

	if err := h.Signup(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists to reach the central error handler, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{ID: "u1", Email: email, Role: "mentor"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"secret1"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, _, _ string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Me_Success(t *testing.T) {
	stub := &stubAuthService{
		meFn: func(_ context.Context, userID string) (*domain.User, error) {
			if userID != "u1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return &domain.User{ID: "u1", Name: "Alice", Role: "mentor"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/api/auth/me", "")
	c.Set("user_id", "u1")
	c.Set("role", "mentor")

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Me_MissingClaims(t *testing.T) {
	stub := &stubAuthService{
		meFn: func(_ context.Context, _ string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/api/auth/me", "")

	err := h.Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
