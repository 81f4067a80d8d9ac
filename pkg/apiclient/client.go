package apiclient

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds every request. A call that exceeds it resolves to a
// KindTimeout error instead of hanging the caller.
const DefaultTimeout = 8 * time.Second

// Client is a typed HTTP client for the appointment backend. A credential set
// via SetCredential is attached as a bearer header on every request that does
// not already carry its own Authorization header.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	mu         sync.RWMutex
	credential string

	// loginLimiter throttles password attempts before they leave the
	// process: 5 per minute, same profile the backend enforces.
	loginLimiter *rate.Limiter
}

// New creates a client for the given backend base URL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		loginLimiter: rate.NewLimiter(rate.Every(time.Minute/5), 5),
	}
}

// SetCredential installs the default bearer credential.
func (c *Client) SetCredential(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credential = token
}

// ClearCredential removes the default bearer credential.
func (c *Client) ClearCredential() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credential = ""
}

// Credential returns the currently installed bearer credential.
func (c *Client) Credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.credential
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}
