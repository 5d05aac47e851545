package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const debugExcerptLength = 400

// Client talks to the upstream agent service
type Client struct {
	endpoint   string
	apiVersion string
	debug      bool
	tokens     TokenSource
	httpClient *http.Client
}

// ClientOption customizes a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// RequestOptions are the per-call parts of a request. Method defaults to
// GET. A string Body is sent verbatim; any other non-nil Body is encoded as
// JSON.
type RequestOptions struct {
	Query  map[string]string
	Method string
	Body   any
}

// NewClient creates a client for the endpoint in cfg
func NewClient(cfg RequestConfig, tokens TokenSource, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, NewUsageError("missing project endpoint: provide --project or AZA_PROJECT")
	}
	apiVersion := cfg.APIVersionOverride
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	c := &Client{
		endpoint:   cfg.Endpoint,
		apiVersion: apiVersion,
		debug:      cfg.Debug,
		tokens:     tokens,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Request performs one upstream call and returns the decoded JSON body,
// nil for an empty body, or the raw text when the body is not JSON.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (any, error) {
	target, err := c.resolve(path, opts.Query)
	if err != nil {
		return nil, err
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var payload io.Reader
	if opts.Body != nil {
		switch b := opts.Body.(type) {
		case string:
			payload = strings.NewReader(b)
		case []byte:
			payload = bytes.NewReader(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				return nil, fmt.Errorf("failed to encode request body: %w", err)
			}
			payload = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, NewUsageError("invalid request URL %q: %v", target, err)
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.debugf("-> %s %s", method, target)
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "request", URL: target, Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{Op: "read", URL: target, Err: err}
	}
	text := string(data)
	c.debugf("<- %d %s", res.StatusCode, truncateRunes(text, debugExcerptLength))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, newHTTPError(res.StatusCode, statusText(res), text)
	}
	if text == "" {
		return nil, nil
	}
	if parsed, err := DecodeJSON(data); err == nil {
		return parsed, nil
	}
	return text, nil
}

// resolve joins path onto the endpoint and merges the query. An api-version
// already present on the endpoint is kept; explicit query values win.
func (c *Client) resolve(path string, query map[string]string) (string, error) {
	raw := path
	if !strings.HasPrefix(path, "http") {
		base, baseQuery, _ := strings.Cut(c.endpoint, "?")
		raw = joinURL(base, path)
		if baseQuery != "" {
			sep := "?"
			if strings.Contains(raw, "?") {
				sep = "&"
			}
			raw += sep + baseQuery
		}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", NewUsageError("invalid endpoint URL %q: %v", raw, err)
	}
	q := u.Query()
	if !q.Has("api-version") {
		q.Set("api-version", c.apiVersion)
	}
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", NewUsageError("no token source configured: set AZA_TOKEN or sign in with the Azure CLI")
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		if KindOf(err) == KindUsage {
			return "", err
		}
		return "", &TransportError{Op: "token", Err: err}
	}
	return token, nil
}

// debugf logs HTTP traffic. A per-request debug flag forces it through
// regardless of the global level.
func (c *Client) debugf(format string, args ...interface{}) {
	entry := logger.WithField("component", "http")
	if c.debug {
		entry.Infof(format, args...)
		return
	}
	entry.Debugf(format, args...)
}

// joinURL concatenates base and path with exactly one slash between them
func joinURL(base, path string) string {
	switch {
	case strings.HasSuffix(base, "/") && strings.HasPrefix(path, "/"):
		return base + path[1:]
	case !strings.HasSuffix(base, "/") && !strings.HasPrefix(path, "/"):
		return base + "/" + path
	default:
		return base + path
	}
}

func statusText(res *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode)))
}
