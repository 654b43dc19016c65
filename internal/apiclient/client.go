// Package apiclient is the typed HTTP client of the transportadora API used
// by operator tooling. It authenticates with the bearer token held in a
// session.Store and fails fast through a circuit breaker while the API is
// down.
package apiclient

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
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/circuit"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/config"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/micprefill"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/session"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// refsTTL is how long reference lists are reused before refetching.
const refsTTL = 5 * time.Minute

// Error is a non-2xx answer of the API.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Detail)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

var (
	_ micprefill.Source    = (*Client)(nil)
	_ micprefill.Directory = (*Client)(nil)
)

type Client struct {
	base  *url.URL
	http  *http.Client
	store *session.Store
	cb    *circuit.Breaker
	refs  *cache.Cache
}

// New builds a client for cfg.APIURL. The store supplies the bearer token
// and receives the session on Login.
func New(cfg *config.ClientConfig, store *session.Store) (*Client, error) {
	raw := cfg.APIURL
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("API_URL: %w", err)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:  base,
		http:  &http.Client{Timeout: timeout},
		store: store,
		cb:    circuit.New(circuit.DefaultConfig()).WithFailureFilter(isOutage),
		refs:  cache.New(refsTTL, 2*refsTTL),
	}, nil
}

// isOutage counts transport errors and 5xx answers against the breaker.
// Client errors are the caller's problem, not the API's.
func isOutage(err error) bool {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return false
	}
	status := StatusOf(err)
	return status == 0 || status >= http.StatusInternalServerError
}

// resolve joins path onto the API base. Absolute paths such as a pdf_url
// returned by the API are resolved against the host.
func (c *Client) resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	return c.base.ResolveReference(ref).String(), nil
}

// do sends one request and returns the response body of a 2xx answer.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	var payload []byte
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return nil, err
		}
	}

	var out []byte
	err = c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if sess := c.store.Get(); sess.Authenticated() {
			req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			out = data
			return nil
		}
		return c.failure(resp.StatusCode, data)
	})
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
	}
	return out, err
}

// failure decodes an error answer. A 401 drops the stored session.
func (c *Client) failure(status int, data []byte) error {
	var env struct {
		Detail               string `json:"detail"`
		Error                string `json:"error"`
		RequiereConfirmacion bool   `json:"requiere_confirmacion"`
	}
	_ = json.Unmarshal(data, &env)

	if status == http.StatusConflict && env.RequiereConfirmacion {
		return &ConflictError{Message: env.Error}
	}
	if status == http.StatusUnauthorized && c.store.Get().Authenticated() {
		c.store.Clear()
	}
	detail := env.Detail
	if detail == "" {
		detail = env.Error
	}
	return &Error{Status: status, Detail: detail}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// BreakerState exposes the breaker for diagnostics.
func (c *Client) BreakerState() circuit.State { return c.cb.State() }
