// Package remote implements the required poll-based remote provider: it
// polls a runtime configuration service over HTTP, carrying the last
// known version so the service can return an incremental diff.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/c360/rtsettings/errors"
	"github.com/c360/rtsettings/providers"
)

const providerName = "remote"

// DefaultPriority per §4.3: remote settles between env and file.
const DefaultPriority int64 = 0

const runtimeToken = "go"

type wireSetting struct {
	Key      string            `json:"key"`
	Priority int64             `json:"priority"`
	Filter   map[string]string `json:"filter"`
	Value    json.RawMessage   `json:"value"`
}

type wireDeletion struct {
	Key      string `json:"key"`
	Priority int64  `json:"priority"`
}

type wireResponse struct {
	Settings []wireSetting  `json:"settings"`
	Deleted  []wireDeletion `json:"deleted"`
	Version  string         `json:"version"`
}

// Provider polls a remote runtime configuration service.
type Provider struct {
	baseURL     string
	application string
	runEnv      string
	priority    int64

	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Provider at construction.
type Option func(*Provider)

// WithHTTPClient overrides the default *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.httpClient = client }
}

// WithRunEnv sets the optional mcs_run_env query parameter, identifying
// the deployment environment label understood by the remote service.
func WithRunEnv(runEnv string) Option {
	return func(p *Provider) { p.runEnv = runEnv }
}

// WithRateLimit overrides the default outbound request rate.
func WithRateLimit(limiter *rate.Limiter) Option {
	return func(p *Provider) { p.limiter = limiter }
}

// New builds a remote Provider polling baseURL on behalf of application.
func New(baseURL, application string, opts ...Option) *Provider {
	p := &Provider{
		baseURL:     baseURL,
		application: application,
		priority:    DefaultPriority,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(5), 5),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements providers.Provider.
func (p *Provider) Name() string { return providerName }

// DefaultPriority implements providers.Provider.
func (p *Provider) DefaultPriority() int64 { return p.priority }

// Load implements providers.Provider. A non-2xx status or transport
// failure returns an error and leaves the caller's prior snapshot for
// this provider untouched — a failed cycle affects only this provider.
func (p *Provider) Load(ctx context.Context, lastVersion string) (providers.LoadResult, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return providers.LoadResult{}, errors.WrapTransient(err, "remote", "Load", "rate limit wait")
	}

	reqURL, err := p.buildURL(lastVersion)
	if err != nil {
		return providers.LoadResult{}, errors.WrapInvalid(errors.ErrInvalidInput, "remote", "Load", err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return providers.LoadResult{}, errors.WrapInvalid(errors.ErrInvalidInput, "remote", "Load", err.Error())
	}
	req.Header.Set("X-OperationId", uuid.NewString())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return providers.LoadResult{}, errors.WrapTransient(err, "remote", "Load", "http GET")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return providers.LoadResult{}, errors.WrapTransient(
			fmt.Errorf("%w: http %d: %s", errors.ErrRemoteRequest, resp.StatusCode, string(body)),
			"remote", "Load", "non-2xx response")
	}

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return providers.LoadResult{}, errors.WrapInvalid(errors.ErrRemoteResponse, "remote", "Load", err.Error())
	}

	records := make([]providers.RawRecord, 0, len(wire.Settings))
	for _, s := range wire.Settings {
		var value any
		if len(s.Value) > 0 {
			if err := json.Unmarshal(s.Value, &value); err != nil {
				return providers.LoadResult{}, errors.WrapInvalid(errors.ErrRemoteResponse, "remote", "Load", err.Error())
			}
		}
		priority := s.Priority
		if priority == 0 {
			priority = p.priority
		}
		records = append(records, providers.RawRecord{
			Name:     s.Key,
			Priority: priority,
			Filter:   s.Filter,
			Value:    value,
		})
	}

	deletions := make([]providers.Deletion, 0, len(wire.Deleted))
	for _, d := range wire.Deleted {
		deletions = append(deletions, providers.Deletion{Name: d.Key, Priority: d.Priority})
	}

	return providers.LoadResult{Records: records, Deletions: deletions, Version: wire.Version}, nil
}

func (p *Provider) buildURL(lastVersion string) (string, error) {
	base, err := url.Parse(p.baseURL)
	if err != nil {
		return "", err
	}
	base.Path = joinPath(base.Path, "v3", "get-runtime-settings") + "/"

	q := base.Query()
	q.Set("runtime", runtimeToken)
	q.Set("version", lastVersion)
	q.Set("application", p.application)
	if p.runEnv != "" {
		q.Set("mcs_run_env", p.runEnv)
	}
	base.RawQuery = q.Encode()

	return base.String(), nil
}

func joinPath(base string, segments ...string) string {
	out := base
	for _, s := range segments {
		if len(out) == 0 || out[len(out)-1] != '/' {
			out += "/"
		}
		out += s
	}
	return out
}
