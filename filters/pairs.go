package filters

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/c360/rtsettings/errors"
)

// compiledPair is a single KEY=regex (or Name=regex) clause from a
// comma-separated list.
type compiledPair struct {
	key     string
	pattern *regexp.Regexp
}

// parsePairs splits raw on commas and each element on the first "=" into a
// key and a regex pattern, compiling every pattern with compileAnchored.
func parsePairs(raw string) ([]compiledPair, error) {
	parts := strings.Split(raw, ",")
	pairs := make([]compiledPair, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.Index(part, "=")
		if idx < 0 {
			return nil, errors.WrapInvalid(errors.ErrInvalidInput, "filters", "parsePairs", fmt.Sprintf("clause %q missing '='", part))
		}
		key := strings.TrimSpace(part[:idx])
		pattern := strings.TrimSpace(part[idx+1:])
		re, err := compileAnchored(pattern)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, compiledPair{key: key, pattern: re})
	}
	return pairs, nil
}
