// Package session is a Go client for the eschool API. It keeps the bearer
// token in a TokenStore so a session survives restarts, and exposes the
// decoded identity for display.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultDisplayName = "User"

// Client talks to the API on behalf of one user. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	store   TokenStore
	now     func() time.Time

	mu    sync.RWMutex
	token string
	user  *DisplayUser
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a Client and restores any session held by store. A stored token
// that cannot be decoded, or has expired, is cleared and the client starts
// anonymous.
func New(baseURL string, store TokenStore, opts ...Option) *Client {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    defaultHTTPClient(),
		store:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.restore()
	return c
}

func defaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
	}
}

func (c *Client) restore() {
	token, err := c.store.Load()
	if err != nil || token == "" {
		return
	}
	user, err := c.decode(token, "")
	if err != nil {
		_ = c.store.Clear()
		return
	}
	c.token = token
	c.user = user
}

// Authenticated reports whether the client holds a token.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// User returns the display identity, or nil when anonymous.
func (c *Client) User() *DisplayUser {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Token returns the current bearer token, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a token. It never returns an error; a
// failed attempt is reported through Result.Message and leaves the client
// state untouched.
func (c *Client) Login(ctx context.Context, email, password string) Result {
	var res struct {
		Token string `json:"token"`
		User  struct {
			ID   string `json:"_id"`
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &res); err != nil {
		return failed(err)
	}
	if res.User.ID != "" {
		if user, err := c.decode(res.Token, ""); err == nil && user.ID != res.User.ID {
			return Result{Message: "Received an invalid token from the server"}
		}
	}
	return c.establish(res.Token, res.User.Name)
}

// Signup registers an account and starts a session for it. Like Login it
// reports failures through Result.
func (c *Client) Signup(ctx context.Context, req SignupRequest) Result {
	var res struct {
		Message string `json:"message"`
		Role    string `json:"role"`
		Token   string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", req, &res); err != nil {
		return failed(err)
	}
	return c.establish(res.Token, req.Name)
}

// Logout clears the stored token. The client is anonymous afterwards even if
// the store fails to clear.
func (c *Client) Logout() error {
	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.mu.Unlock()
	return c.store.Clear()
}

// establish persists token and switches to the authenticated state. The
// in-memory state only changes once the store has accepted the token.
func (c *Client) establish(token, name string) Result {
	user, err := c.decode(token, name)
	if err != nil {
		return Result{Message: "Received an invalid token from the server"}
	}
	if err := c.store.Save(token); err != nil {
		return Result{Message: fmt.Sprintf("Failed to save session: %v", err)}
	}

	c.mu.Lock()
	c.token = token
	c.user = user
	c.mu.Unlock()

	u := *user
	return Result{Success: true, User: &u}
}

// decode reads the token payload without checking the signature. Only the
// server verifies tokens.
func (c *Client) decode(token, name string) (*DisplayUser, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}

	id, _ := claims["userId"].(string)
	role, _ := claims["role"].(string)
	if id == "" || role == "" {
		return nil, errors.New("token payload missing userId or role")
	}
	if exp, err := claims.GetExpirationTime(); err != nil {
		return nil, err
	} else if exp != nil && !c.now().Before(exp.Time) {
		return nil, errors.New("token expired")
	}

	if name == "" {
		name, _ = claims["name"].(string)
	}
	if name == "" {
		name = defaultDisplayName
	}
	return &DisplayUser{ID: id, Role: role, Name: name}, nil
}

func failed(err error) Result {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return Result{Message: apiErr.Message}
	}
	return Result{Message: err.Error()}
}

// Courses lists the catalogue.
func (c *Client) Courses(ctx context.Context) ([]Course, error) {
	var out []Course
	if err := c.do(ctx, http.MethodGet, "/api/courses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Course(ctx context.Context, id string) (*Course, error) {
	var out Course
	if err := c.do(ctx, http.MethodGet, "/api/courses/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCourse requires an instructor or admin session.
func (c *Client) CreateCourse(ctx context.Context, in NewCourse) (*Course, error) {
	var out struct {
		Course Course `json:"course"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/courses/create", in, &out); err != nil {
		return nil, err
	}
	return &out.Course, nil
}

// Enroll requires a student session and returns the server's message.
func (c *Client) Enroll(ctx context.Context, courseID string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/courses/enroll/"+url.PathEscape(courseID), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) EnrolledCourses(ctx context.Context) ([]Course, error) {
	var out struct {
		EnrolledCourses []Course `json:"enrolledCourses"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/courses/user/enrolled", nil, &out); err != nil {
		return nil, err
	}
	return out.EnrolledCourses, nil
}

func (c *Client) EnrolledCourse(ctx context.Context, courseID string) (*Course, error) {
	var out struct {
		Course Course `json:"course"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/courses/user/enrolled/"+url.PathEscape(courseID), nil, &out); err != nil {
		return nil, err
	}
	return &out.Course, nil
}

func (c *Client) Books(ctx context.Context) ([]Book, error) {
	var out []Book
	if err := c.do(ctx, http.MethodGet, "/api/books", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBook requires an instructor or admin session.
func (c *Client) CreateBook(ctx context.Context, in NewBook) (*Book, error) {
	var out struct {
		Book Book `json:"book"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/books", in, &out); err != nil {
		return nil, err
	}
	return &out.Book, nil
}

// do sends a JSON request, attaching the bearer token when authenticated, and
// decodes a 2xx body into out. Other statuses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Message string `json:"message"`
		}
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(data, &envelope) == nil && envelope.Message != "" {
			msg = envelope.Message
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
