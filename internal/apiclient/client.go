// Package apiclient is a typed client for the NutriApp HTTP API. The session cookie
// set by Login is kept in a cookie jar and sent on every following request.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	authdto "nutriapp/internal/feature/auth/transport/http/dto"
	dishdto "nutriapp/internal/feature/dishes/transport/http/dto"
	infrahttp "nutriapp/internal/platform/http"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultCookieName = "session"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an *APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Response is a raw API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Nationality string `json:"nationality"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
}

// DishInput is the body of create and update calls. Nil fields are omitted, so on
// update they keep their stored value.
type DishInput struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	PrepTime    *int     `json:"prepTime,omitempty"`
	CookTime    *int     `json:"cookTime,omitempty"`
	QuickPrep   *bool    `json:"quickPrep,omitempty"`
	Calories    *int     `json:"calories,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	Steps       []string `json:"steps,omitempty"`
}

type (
	User = authdto.UserRes
	Dish = dishdto.DishRes
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A client without a cookie jar
// gets one so that sessions keep working.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCookieName sets the session cookie name used by the server.
func WithCookieName(name string) Option {
	return func(c *Client) { c.cookieName = name }
}

type Client struct {
	base       *url.URL
	http       *http.Client
	cookieName string
}

// New creates a client for the API served at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	c := &Client{base: u, cookieName: defaultCookieName}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = infrahttp.NewSessionClient(defaultTimeout)
	}
	if c.http.Jar == nil {
		jar, _ := cookiejar.New(nil)
		c.http.Jar = jar
	}
	return c, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var out authdto.UserEnvelope
	if err := c.call(ctx, http.MethodPost, "/api/register", req, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login opens a session; the cookie is stored in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	var out authdto.UserEnvelope
	if err := c.call(ctx, http.MethodPost, "/api/login", body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Logout closes the session. The server clears the cookie even without one.
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/api/logout", nil, nil)
}

func (c *Client) ListDishes(ctx context.Context) ([]Dish, error) {
	var out dishdto.DishListEnvelope
	if err := c.call(ctx, http.MethodGet, "/api/dishes", nil, &out); err != nil {
		return nil, err
	}
	return out.Dishes, nil
}

func (c *Client) CreateDish(ctx context.Context, in DishInput) (*Dish, error) {
	var out dishdto.DishEnvelope
	if err := c.call(ctx, http.MethodPost, "/api/dishes", in, &out); err != nil {
		return nil, err
	}
	return &out.Dish, nil
}

func (c *Client) GetDish(ctx context.Context, id uint) (*Dish, error) {
	var out dishdto.DishEnvelope
	if err := c.call(ctx, http.MethodGet, dishPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Dish, nil
}

// UpdateDish sends a partial update. body is usually a DishInput; pass a map to send
// explicit nulls.
func (c *Client) UpdateDish(ctx context.Context, id uint, body any) (*Dish, error) {
	var out dishdto.DishEnvelope
	if err := c.call(ctx, http.MethodPut, dishPath(id), body, &out); err != nil {
		return nil, err
	}
	return &out.Dish, nil
}

func (c *Client) DeleteDish(ctx context.Context, id uint) error {
	return c.call(ctx, http.MethodDelete, dishPath(id), nil, nil)
}

// Do sends a request with a JSON body (nil for none) and returns the raw response
// whatever its status.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: b}, nil
}

// SessionCookie returns the session cookie currently held, or nil.
func (c *Client) SessionCookie() *http.Cookie {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == c.cookieName {
			return ck
		}
	}
	return nil
}

// SetSessionCookie makes the client send value as its session, e.g. another user's token.
func (c *Client) SetSessionCookie(value string) {
	c.http.Jar.SetCookies(c.base, []*http.Cookie{{Name: c.cookieName, Value: value, Path: "/"}})
}

// ClearSession drops the session cookie without calling the server.
func (c *Client) ClearSession() {
	c.http.Jar.SetCookies(c.base, []*http.Cookie{{Name: c.cookieName, Path: "/", MaxAge: -1}})
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e authdto.ErrorRes
		if json.Unmarshal(resp.Body, &e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := resp.Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func dishPath(id uint) string {
	return "/api/dishes/" + strconv.FormatUint(uint64(id), 10)
}
