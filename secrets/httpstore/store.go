package httpstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/c360/rtsettings/errors"
	"github.com/c360/rtsettings/secrets"
)

// Store reads secrets from a KV-v2-style HTTP endpoint.
type Store struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Store at construction.
type Option func(*Store)

// WithHTTPClient overrides the default *http.Client, letting the caller
// supply its own TLS configuration, transport, and timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) { s.httpClient = client }
}

// New builds a Store against baseURL (e.g. "https://vault.internal").
func New(baseURL string, opts ...Option) *Store {
	s := &Store{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type readEnvelope struct {
	Data struct {
		Data     map[string]any `json:"data"`
		Metadata struct {
			Version      int    `json:"version"`
			CreatedTime  string `json:"created_time"`
			DeletionTime string `json:"deletion_time"`
			Destroyed    bool   `json:"destroyed"`
		} `json:"metadata"`
	} `json:"data"`
}

// Read implements secrets.Store.
func (s *Store) Read(ctx context.Context, path string) (map[string]any, secrets.Metadata, error) {
	url := s.baseURL + "/v1/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, secrets.Metadata{}, errors.WrapInvalid(errors.ErrInvalidInput, "httpstore", "Read", err.Error())
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, secrets.Metadata{}, errors.WrapTransient(err, "httpstore", "Read", "http GET")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, secrets.Metadata{}, errors.WrapInvalid(errors.ErrSecretNotFound, "httpstore", "Read", path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, secrets.Metadata{}, errors.WrapTransient(fmt.Errorf("http %d: %s", resp.StatusCode, string(body)), "httpstore", "Read", "non-2xx response")
	}

	var envelope readEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, secrets.Metadata{}, errors.WrapInvalid(errors.ErrParse, "httpstore", "Read", err.Error())
	}

	meta := secrets.Metadata{
		Version:   envelope.Data.Metadata.Version,
		Destroyed: envelope.Data.Metadata.Destroyed,
	}
	if t, err := time.Parse(time.RFC3339, envelope.Data.Metadata.CreatedTime); err == nil {
		meta.CreatedTime = t
	}
	if envelope.Data.Metadata.DeletionTime != "" {
		if t, err := time.Parse(time.RFC3339, envelope.Data.Metadata.DeletionTime); err == nil {
			meta.DeletionTime = &t
		}
	}

	return envelope.Data.Data, meta, nil
}
