// Package spotify is a small client for the parts of the Spotify Web API the
// extractor needs: artist search, an artist's albums, an album's tracks, and
// batch audio features.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultAPIURL      = "https://api.spotify.com/v1"
	DefaultAccountsURL = "https://accounts.spotify.com"
)

type Config struct {
	ClientID     string
	ClientSecret string

	// Overridable for tests. Empty means the Default*URL constants.
	APIURL      string
	AccountsURL string

	// Zero means 10 requests per second.
	RequestsPerSecond float64
	// Zero means 5 attempts per request.
	Attempts uint
	// Zero means one second.
	RetryDelay time.Duration
	Timeout    time.Duration

	Log *zap.Logger
}

// Client talks to the Spotify Web API using the client-credentials flow. It is
// safe for concurrent use, though the extractor only ever makes one request at
// a time.
type Client struct {
	clientID     string
	clientSecret string
	accountsURL  string
	attempts     uint
	retryDelay   time.Duration

	http    *resty.Client
	limiter *rate.Limiter
	log     *zap.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func New(config Config) *Client {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	accountsURL := config.AccountsURL
	if accountsURL == "" {
		accountsURL = DefaultAccountsURL
	}
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	attempts := config.Attempts
	if attempts == 0 {
		attempts = 5
	}
	retryDelay := config.RetryDelay
	if retryDelay == 0 {
		retryDelay = time.Second
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	log := config.Log
	if log == nil {
		log = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(apiURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "bandstats/1.0")

	return &Client{
		clientID:     config.ClientID,
		clientSecret: config.ClientSecret,
		accountsURL:  strings.TrimSuffix(accountsURL, "/"),
		attempts:     attempts,
		retryDelay:   retryDelay,
		http:         httpClient,
		limiter:      rate.NewLimiter(rate.Limit(rps), 1),
		log:          log.Named("spotify"),
	}
}

// Error is a non-2xx response from Spotify.
type Error struct {
	StatusCode int
	Body       string
	// RetryAfter is set from the Retry-After header on 429 responses.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	return fmt.Sprintf("spotify: http status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether the request is worth retrying.
func (e *Error) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func newError(resp *resty.Response) *Error {
	e := &Error{StatusCode: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
	if header := resp.Header().Get("Retry-After"); header != "" {
		if seconds, err := strconv.ParseInt(header, 10, 64); err == nil {
			e.RetryAfter = time.Duration(seconds) * time.Second
		}
	}
	return e
}

// tokenError is a failed token request.
type tokenError struct {
	err error
}

func (e *tokenError) Error() string {
	return "token request: " + e.err.Error()
}

func (e *tokenError) Unwrap() error {
	return e.err
}

func isRetryable(err error) bool {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Temporary()
	}
	// Transport errors (connection reset, timeouts) are worth another try, a
	// canceled context is not.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// get performs a rate-limited, retried GET against the API and decodes the
// JSON body into result.
func (c *Client) get(ctx context.Context, path string, query map[string]string, result interface{}) error {
	return retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			token, err := c.token(ctx)
			if err != nil {
				return err
			}
			resp, err := c.http.R().
				SetContext(ctx).
				SetAuthToken(token).
				SetQueryParams(query).
				ForceContentType("application/json").
				SetResult(result).
				Get(path)
			if err != nil {
				return fmt.Errorf("GET %s: %w", path, err)
			}
			if resp.StatusCode() == http.StatusUnauthorized {
				c.expireToken()
			}
			if resp.IsError() {
				return newError(resp)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var serr *Error
			if errors.As(err, &serr) && serr.StatusCode == http.StatusUnauthorized {
				return true
			}
			return isRetryable(err)
		}),
		retry.DelayType(c.delay),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warn("spotify request failed, retrying",
				zap.String("path", path), zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
}

// delay honours Retry-After on 429s and otherwise backs off exponentially.
func (c *Client) delay(n uint, err error, config *retry.Config) time.Duration {
	var serr *Error
	if errors.As(err, &serr) && serr.RetryAfter > 0 {
		return serr.RetryAfter + time.Second
	}
	return c.retryDelay * time.Duration(1<<n)
}

type tokenResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.expiresAt.After(time.Now().Add(time.Minute)) {
		return c.accessToken, nil
	}

	var result tokenResult
	requestAt := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.clientID, c.clientSecret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		ForceContentType("application/json").
		SetResult(&result).
		Post(c.accountsURL + "/api/token")
	if err != nil {
		return "", &tokenError{err: err}
	}
	if resp.IsError() {
		return "", &tokenError{err: newError(resp)}
	}
	if result.AccessToken == "" {
		return "", &tokenError{err: errors.New("empty access token")}
	}

	c.accessToken = result.AccessToken
	c.expiresAt = requestAt.Add(time.Duration(result.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

func (c *Client) expireToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = ""
}
