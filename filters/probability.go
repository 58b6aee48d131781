package filters

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/c360/rtsettings/ambient"
	"github.com/c360/rtsettings/errors"
)

// probabilityCheck evaluates true with probability percent/100 on every
// call, independently — there is no per-request stickiness. math/rand/v2's
// package-level generator is safe for concurrent use.
type probabilityCheck struct{ percent float64 }

func (c *probabilityCheck) Check(pcc *ambient.PerCallContext) bool {
	if c.percent <= 0 {
		return false
	}
	if c.percent >= 100 {
		return true
	}
	return rand.Float64()*100 < c.percent
}

func compileProbability(raw string) (StaticCheck, DynamicCheck, error) {
	percent, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, nil, errors.WrapInvalid(errors.ErrInvalidInput, "filters", "compileProbability", fmt.Sprintf("percentage %q: %v", raw, err))
	}
	if percent < 0 || percent > 100 {
		return nil, nil, errors.WrapInvalid(errors.ErrInvalidInput, "filters", "compileProbability", fmt.Sprintf("percentage %v out of [0,100]", percent))
	}
	return nil, &probabilityCheck{percent: percent}, nil
}
