// Package api talks to the REMS backend REST API on behalf of one session.
package api

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

	"github.com/google/uuid"

	"github.com/realestate/rems-frontend/internal/guard"
	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/pkg/logger"
	"github.com/realestate/rems-frontend/pkg/metrics"
)

// Session is the part of the session store the client needs.
type Session interface {
	AuthHeader(ctx context.Context) map[string]string
	SaveToken(ctx context.Context, token string) error
	SaveUser(ctx context.Context, u models.SessionUser) error
	RemoveToken(ctx context.Context) error
}

// Client issues backend requests with the session's credentials.
type Client struct {
	baseURL      string
	imageBaseURL string
	httpClient   *http.Client
	session      Session
	nav          guard.Navigator
	requestIDs   bool

	// serializes teardown so concurrent 401s clear the session once
	mu sync.Mutex
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithNavigator sets where the client navigates after a forced logout.
func WithNavigator(nav guard.Navigator) Option {
	return func(c *Client) { c.nav = nav }
}

// WithImageBaseURL sets the origin uploaded image paths are resolved against.
func WithImageBaseURL(u string) Option {
	return func(c *Client) { c.imageBaseURL = strings.TrimRight(u, "/") }
}

// WithRequestIDs toggles the X-Request-ID header (on by default).
func WithRequestIDs(on bool) Option {
	return func(c *Client) { c.requestIDs = on }
}

func NewClient(baseURL string, session Session, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		session:    session,
		requestIDs: true,
	}
	for _, o := range opts {
		o(c)
	}
	if c.imageBaseURL == "" {
		c.imageBaseURL = originOf(c.baseURL)
	}
	return c
}

// Path substitutes {placeholders} in template with args, in order.
func Path(template string, args ...interface{}) string {
	var b strings.Builder
	i := 0
	for {
		start := strings.IndexByte(template, '{')
		if start < 0 {
			break
		}
		end := strings.IndexByte(template[start:], '}')
		if end < 0 {
			break
		}
		b.WriteString(template[:start])
		if i < len(args) {
			b.WriteString(url.PathEscape(fmt.Sprint(args[i])))
			i++
		} else {
			b.WriteString(template[start : start+end+1])
		}
		template = template[start+end+1:]
	}
	b.WriteString(template)
	return b.String()
}

// call describes one backend request.
type call struct {
	service  string
	op       string
	method   string
	path     string
	query    url.Values
	payload  interface{}
	body     io.Reader
	ctype    string
	fallback string

	// anonymous calls never carry the session token
	anonymous bool
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do performs the request and decodes a 2xx body into out (when non-nil).
func (c *Client) do(ctx context.Context, r call, out interface{}) error {
	err := c.send(ctx, r, out)
	metrics.APIRequests.WithLabelValues(r.service, outcome(err)).Inc()
	if err != nil {
		logger.Debugf("api %s %s: %v", r.method, r.path, err)
	}
	return err
}

func (c *Client) send(ctx context.Context, r call, out interface{}) error {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	body, ctype := r.body, r.ctype
	if r.payload != nil {
		b, err := json.Marshal(r.payload)
		if err != nil {
			return &TransportError{Op: r.op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		body = bytes.NewReader(b)
	}
	if ctype == "" {
		ctype = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return &TransportError{Op: r.op, Err: err}
	}
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("Accept", "application/json")
	if c.requestIDs {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	sent := ""
	if c.session != nil && !r.anonymous {
		for k, v := range c.session.AuthHeader(ctx) {
			req.Header.Set(k, v)
		}
		sent = req.Header.Get("Authorization")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: r.op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &ServerError{Status: resp.StatusCode, Message: r.fallback}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			if eb.Message != "" {
				se.Message = eb.Message
			} else if eb.Error != "" {
				se.Message = eb.Error
			}
		}
		if resp.StatusCode == http.StatusUnauthorized && sent != "" {
			se.expired = true
			c.expire(ctx, sent)
		}
		return se
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return &DecodeError{Op: r.op, Err: errors.New("empty body")}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{Op: r.op, Err: err}
	}
	return nil
}

// expire tears the session down after the backend rejected the credentials in
// sent. A session whose token already changed is left alone.
func (c *Client) expire(ctx context.Context, sent string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.AuthHeader(ctx)["Authorization"] != sent {
		return
	}
	if err := c.session.RemoveToken(ctx); err != nil {
		logger.Errorf("session teardown failed: %v", err)
	}
	metrics.SessionTeardowns.Inc()
	logger.Infof("backend rejected session credentials; logged out")
	if c.nav != nil {
		c.nav.Navigate(guard.LoginPath)
	}
}

// ImageURL resolves a stored image path against the image origin. Absolute
// URLs are returned unchanged.
func (c *Client) ImageURL(p string) string {
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return c.imageBaseURL + p
}

func originOf(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return base
	}
	return u.Scheme + "://" + u.Host
}

func outcome(err error) string {
	var (
		se *ServerError
		te *TransportError
		de *DecodeError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuthExpired):
		return "auth_expired"
	case errors.As(err, &se):
		return "rejected"
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &de):
		return "decode"
	}
	return "error"
}

// Services bundles every backend service over one client.
type Services struct {
	Client     *Client
	Auth       *AuthService
	Properties *PropertyService
	Favorites  *FavoriteService
	Users      *UserService
	Uploads    *UploadService
	Contact    *ContactService
}

func NewServices(c *Client, maxUploadBytes int64) *Services {
	return &Services{
		Client:     c,
		Auth:       NewAuthService(c),
		Properties: NewPropertyService(c),
		Favorites:  NewFavoriteService(c),
		Users:      NewUserService(c),
		Uploads:    NewUploadService(c, maxUploadBytes),
		Contact:    NewContactService(c),
	}
}
