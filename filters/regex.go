package filters

import (
	"fmt"
	"regexp"

	"github.com/c360/rtsettings/errors"
)

// compileAnchored compiles pattern case-insensitively, wrapping it as
// ^(?:pattern)$ so callers need not anchor their own patterns.
func compileAnchored(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`(?i)^(?:` + pattern + `)$`)
	if err != nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidRegex, "filters", "compileAnchored", fmt.Sprintf("pattern %q: %v", pattern, err))
	}
	return re, nil
}
