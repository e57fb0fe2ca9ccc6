// Package garmin renders workouts into the Garmin Connect workout format
// and manages them on the platform.
package garmin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const DefaultBaseURL = "https://connect.garmin.com"

// DuplicatePolicy decides what Save does with a name the platform already has.
type DuplicatePolicy int

const (
	// SkipExisting treats a known name as already saved, even if the content changed.
	SkipExisting DuplicatePolicy = iota
	// ForceDuplicate always creates a new workout, leaving duplicates behind.
	ForceDuplicate
)

// ParseDuplicatePolicy maps the configuration spelling to a policy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "", "skip":
		return SkipExisting, nil
	case "force":
		return ForceDuplicate, nil
	}
	return 0, fmt.Errorf("unknown save policy %q", s)
}

// Recorder is told about every side effect that succeeded remotely.
type Recorder interface {
	RecordSave(ctx context.Context, name string, id int64) error
	RecordSchedule(ctx context.Context, name string, id int64, day time.Time) error
}

// StatusError is a response the platform rejected. It is only returned by
// clients built with WithStrictStatus.
type StatusError struct {
	Op     string
	Name   string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Op, e.Name, e.Status)
}

// Temporary reports whether the same request may succeed later.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

type Client struct {
	http    *http.Client
	baseURL *url.URL
	log     zerolog.Logger

	transport  http.RoundTripper
	timeout    time.Duration
	serializer Serializer
	policy     DuplicatePolicy
	recorder   Recorder // optional
	strict     bool

	mu       sync.Mutex
	workouts map[string][]int64
}

type Option func(*Client)

func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if u, err := url.Parse(raw); err == nil {
			c.baseURL = u
		}
	}
}

// WithTransport sets the transport under the auth layer, e.g. a caching one.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithSerializer(s Serializer) Option {
	return func(c *Client) { c.serializer = s }
}

func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(c *Client) { c.policy = p }
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithStrictStatus makes rejected responses errors instead of log lines.
// Queue workers use it so a 503 is retried rather than counted as done.
func WithStrictStatus() Option {
	return func(c *Client) { c.strict = true }
}

func New(creds Credentials, opts ...Option) (*Client, error) {
	tok, err := creds.token()
	if err != nil {
		return nil, err
	}
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		baseURL:    u,
		log:        zerolog.Nop(),
		transport:  http.DefaultTransport,
		timeout:    30 * time.Second,
		serializer: NewSerializer(),
		workouts:   make(map[string][]int64),
	}
	for _, o := range opts {
		o(c)
	}

	jar, err := creds.jar(c.baseURL)
	if err != nil {
		return nil, err
	}
	c.http = &http.Client{
		Timeout: c.timeout,
		Jar:     jar,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(tok),
			Base:   c.transport,
		},
	}
	return c, nil
}

func (c *Client) newReq(ctx context.Context, method, p string, q url.Values, body any) (*http.Request, error) {
	u := *c.baseURL
	u.Path = path.Join(u.Path, p)
	if q != nil {
		u.RawQuery = q.Encode()
	}

	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case []byte:
			r = bytes.NewReader(b)
		default:
			buf, err := json.Marshal(b)
			if err != nil {
				return nil, err
			}
			r = bytes.NewReader(buf)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json;charset=utf-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("DI-Backend", "connectapi.garmin.com")
	return req, nil
}

// do sends req and returns the status and body. Non-2xx is not an error here;
// callers decide whether to log or fail.
func (c *Client) do(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	return resp, b, nil
}

// rejected returns a *StatusError for resp when the client is strict.
func (c *Client) rejected(op, name string, resp *http.Response) error {
	if !c.strict {
		return nil
	}
	return &StatusError{Op: op, Name: name, Code: resp.StatusCode, Status: resp.Status}
}

func (c *Client) doJSON(ctx context.Context, p string, q url.Values, out any) error {
	req, err := c.newReq(ctx, http.MethodGet, p, q, nil)
	if err != nil {
		return err
	}
	resp, body, err := c.do(req)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s: %s", p, resp.Status, string(body))
	}
	return json.Unmarshal(body, out)
}
