package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestLoadParsesResponse(t *testing.T) {
	var gotOperationID string
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOperationID = r.Header.Get("X-OperationId")
		gotQuery = r.URL.Query()

		_ = json.NewEncoder(w).Encode(wireResponse{
			Settings: []wireSetting{
				{Key: "db.host", Priority: 10, Value: json.RawMessage(`"localhost"`)},
				{Key: "db.port", Value: json.RawMessage(`5432`)},
			},
			Deleted: []wireDeletion{{Key: "old.key", Priority: 5}},
			Version: "v2",
		})
	}))
	defer server.Close()

	p := New(server.URL, "my-app", WithRunEnv("PROD"), WithRateLimit(rate.NewLimiter(rate.Inf, 1)))
	result, err := p.Load(context.Background(), "v1")
	require.NoError(t, err)

	assert.NotEmpty(t, gotOperationID)
	assert.Equal(t, []string{"my-app"}, gotQuery["application"])
	assert.Equal(t, []string{"v1"}, gotQuery["version"])
	assert.Equal(t, []string{"PROD"}, gotQuery["mcs_run_env"])
	assert.Equal(t, []string{runtimeToken}, gotQuery["runtime"])

	require.Len(t, result.Records, 2)
	assert.Equal(t, "db.host", result.Records[0].Name)
	assert.Equal(t, int64(10), result.Records[0].Priority)
	assert.Equal(t, "localhost", result.Records[0].Value)
	assert.Equal(t, DefaultPriority, result.Records[1].Priority)

	require.Len(t, result.Deletions, 1)
	assert.Equal(t, "old.key", result.Deletions[0].Name)
	assert.Equal(t, "v2", result.Version)
}

func TestLoadReturnsErrorOnNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	p := New(server.URL, "my-app", WithRateLimit(rate.NewLimiter(rate.Inf, 1)))
	_, err := p.Load(context.Background(), "")
	assert.Error(t, err)
}

func TestLoadOmitsRunEnvWhenUnset(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(wireResponse{Version: "v1"})
	}))
	defer server.Close()

	p := New(server.URL, "my-app", WithRateLimit(rate.NewLimiter(rate.Inf, 1)))
	_, err := p.Load(context.Background(), "")
	require.NoError(t, err)

	_, ok := gotQuery["mcs_run_env"]
	assert.False(t, ok)
}
