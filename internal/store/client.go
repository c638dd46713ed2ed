// Package store talks to the external profile store that owns the
// /profileDetails resource.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/profile-directory/internal/model"
	"github.com/stemsi/profile-directory/internal/session"
	"github.com/stemsi/profile-directory/internal/validator"
)

const (
	resourcePath = "/profileDetails"
	maxErrorBody = 4 << 10
)

// Client is the typed contract of the profile store. Mutations read the
// bearer token from sess right before the request; a 401 signs sess out.
type Client interface {
	List(ctx context.Context, sess *session.Session) ([]model.Profile, error)
	Get(ctx context.Context, id model.ProfileID) (*model.Profile, error)
	Create(ctx context.Context, sess *session.Session, in model.ProfileInput) (*model.Profile, error)
	Update(ctx context.Context, sess *session.Session, id model.ProfileID, in model.ProfileInput) (*model.Profile, error)
	Delete(ctx context.Context, sess *session.Session, id model.ProfileID) error
}

// HTTPClient implements Client over HTTP+JSON.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ Client = (*HTTPClient)(nil)

// New creates an HTTPClient for the store rooted at baseURL.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "store_client").Logger(),
	}
}

// List returns every profile in store order. A nil session lists anonymously.
func (c *HTTPClient) List(ctx context.Context, sess *session.Session) ([]model.Profile, error) {
	var out []model.Profile
	if err := c.do(ctx, sess, http.MethodGet, resourcePath, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Profile{}
	}
	return out, nil
}

// Get fetches one profile without credentials.
func (c *HTTPClient) Get(ctx context.Context, id model.ProfileID) (*model.Profile, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	var out model.Profile
	if err := c.do(ctx, nil, http.MethodGet, itemPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create validates in and posts it to the store.
func (c *HTTPClient) Create(ctx context.Context, sess *session.Session, in model.ProfileInput) (*model.Profile, error) {
	if err := prepare(sess, &in); err != nil {
		return nil, err
	}
	var out model.Profile
	if err := c.do(ctx, sess, http.MethodPost, resourcePath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update validates in and replaces profile id.
func (c *HTTPClient) Update(ctx context.Context, sess *session.Session, id model.ProfileID, in model.ProfileInput) (*model.Profile, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	if err := prepare(sess, &in); err != nil {
		return nil, err
	}
	var out model.Profile
	if err := c.do(ctx, sess, http.MethodPut, itemPath(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes profile id.
func (c *HTTPClient) Delete(ctx context.Context, sess *session.Session, id model.ProfileID) error {
	if id == "" {
		return ErrNotFound
	}
	if !sess.Authenticated() {
		return ErrUnauthorized
	}
	return c.do(ctx, sess, http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id model.ProfileID) string {
	return resourcePath + "/" + url.PathEscape(string(id))
}

// prepare normalizes and validates a mutation payload and checks that a
// token is available.
func prepare(sess *session.Session, in *model.ProfileInput) error {
	in.Normalize()
	if fields := validator.Validate(in); fields != nil {
		return &ValidationError{Fields: fields}
	}
	if !sess.Authenticated() {
		return ErrUnauthorized
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, sess *session.Session, method, path string, body, out any) error {
	op := method + " " + path
	log := c.log.With().Str("op", op).Logger()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNetwork, op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := sess.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("Store request failed")
		return fmt.Errorf("%w: %s: %v", ErrNetwork, op, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Store responded")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if resp.StatusCode == http.StatusUnauthorized {
			sess.SignOut()
		}
		serr := &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
		log.Warn().Int("status", resp.StatusCode).Str("body", serr.Body).Msg("Store rejected request")
		return serr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Warn().Err(err).Msg("Store response undecodable")
		return fmt.Errorf("%w: decode %s: %v", ErrNetwork, op, err)
	}
	return nil
}
