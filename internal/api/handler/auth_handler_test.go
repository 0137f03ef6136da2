package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/eschool/eschool-api/internal/core/domain"
	"github.com/eschool/eschool-api/internal/core/ports"
)

func TestAuthHandler_Signup_Success(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
			if in.Name != "Alice" || in.Email != "a@x.com" || in.Password != "pw123" || in.Role != "instructor" || in.SecretKey != "k" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.SignupResult{Role: "instructor", Token: "tok"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/auth/signup",
		`{"name":"Alice","email":"a@x.com","password":"pw123","role":"instructor","secretKey":"k"}`, "", "")
	if err := handler.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Signup successful" || resp["role"] != "instructor" || resp["token"] != "tok" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Signup_ServiceErrorsPropagate(t *testing.T) {
	for _, want := range []error{domain.ErrUserExists, domain.ErrInvalidAdminKey} {
		stub := &stubAuthService{
			signupFn: func(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
				return nil, want
			},
		}
		c, _ := newContext(http.MethodPost, "/api/auth/signup",
			`{"name":"Bob","email":"b@x.com","password":"pw","role":"admin","secretKey":"wrong"}`, "", "")

		if err := NewAuthHandler(stub).Signup(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_Signup_IncompleteFormReachesService(t *testing.T) {
	var got ports.SignupInput
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
			got = in
			return nil, domain.ErrUserExists
		},
	}
	c, _ := newContext(http.MethodPost, "/api/auth/signup", `{"name":"Bob","email":"bob@x.com"}`, "", "")

	err := NewAuthHandler(stub).Signup(c)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict from the service, got %v", err)
	}
	if got.Email != "bob@x.com" || got.Password != "" {
		t.Fatalf("unexpected input forwarded: %+v", got)
	}
}

func TestAuthHandler_Signup_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newContext(http.MethodPost, "/api/auth/signup", "not-json", "", "")

	err := NewAuthHandler(stub).Signup(c)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "a@x.com" || password != "pw123" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{
				Token: "tok2",
				User:  domain.PublicUser{ID: "u1", Name: "Alice", Email: "a@x.com", Role: "student"},
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"pw123"}`, "", "")

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok2" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["_id"] != "u1" || user["role"] != "student" || user["name"] != "Alice" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	for _, leaked := range []string{"passwordHash", "password", "PasswordHash"} {
		if _, ok := user[leaked]; ok {
			t.Fatalf("user payload leaks %s", leaked)
		}
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"bad"}`, "", "")

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected handler to leave rendering to the error handler")
	}
}
