package secrets

import (
	"encoding/json"
	"time"

	"github.com/c360/rtsettings/errors"
)

// defaultRefreshIntervals is the compiled-in path-pattern to refresh
// interval map for non-lease entries. A path matches a pattern by simple
// substring containment.
var defaultRefreshIntervals = map[string]time.Duration{
	"kafka-certificates": 600 * time.Second,
	"interservice-auth":  60 * time.Second,
}

// ParseIntervalOverrides decodes the JSON object read from the
// RTSETTINGS_SECRET_REFRESH_INTERVALS environment variable: a map from
// path pattern to refresh interval in seconds.
func ParseIntervalOverrides(raw string) (map[string]time.Duration, error) {
	if raw == "" {
		return nil, nil
	}
	var seconds map[string]float64
	if err := json.Unmarshal([]byte(raw), &seconds); err != nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidInput, "secrets", "ParseIntervalOverrides", err.Error())
	}
	out := make(map[string]time.Duration, len(seconds))
	for pattern, secs := range seconds {
		out[pattern] = time.Duration(secs * float64(time.Second))
	}
	return out, nil
}

func mergeIntervals(overrides map[string]time.Duration) map[string]time.Duration {
	merged := make(map[string]time.Duration, len(defaultRefreshIntervals)+len(overrides))
	for k, v := range defaultRefreshIntervals {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
