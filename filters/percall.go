package filters

import (
	"regexp"

	"github.com/c360/rtsettings/ambient"
)

// urlPathCheck matches the request path. True when no request is in
// scope; false when a request is in scope but has no path worth matching
// against and the pattern doesn't accept it.
type urlPathCheck struct{ re *regexp.Regexp }

func (c *urlPathCheck) Check(pcc *ambient.PerCallContext) bool {
	req := pcc.Request()
	if req == nil {
		return true
	}
	return c.re.MatchString(req.Path)
}

func compileURLPath(raw string) (StaticCheck, DynamicCheck, error) {
	re, err := compileAnchored(raw)
	if err != nil {
		return nil, nil, err
	}
	return nil, &urlPathCheck{re: re}, nil
}

// hostCheck matches the "host" header.
type hostCheck struct{ re *regexp.Regexp }

func (c *hostCheck) Check(pcc *ambient.PerCallContext) bool {
	req := pcc.Request()
	if req == nil {
		return true
	}
	v, ok := req.Header("host")
	if !ok {
		return false
	}
	return c.re.MatchString(v)
}

func compileHost(raw string) (StaticCheck, DynamicCheck, error) {
	re, err := compileAnchored(raw)
	if err != nil {
		return nil, nil, err
	}
	return nil, &hostCheck{re: re}, nil
}

// emailCheck matches the "x-real-email" header.
type emailCheck struct{ re *regexp.Regexp }

func (c *emailCheck) Check(pcc *ambient.PerCallContext) bool {
	req := pcc.Request()
	if req == nil {
		return true
	}
	v, ok := req.Header("x-real-email")
	if !ok {
		return false
	}
	return c.re.MatchString(v)
}

func compileEmail(raw string) (StaticCheck, DynamicCheck, error) {
	re, err := compileAnchored(raw)
	if err != nil {
		return nil, nil, err
	}
	return nil, &emailCheck{re: re}, nil
}

// ipCheck matches the "x-real-ip" header.
type ipCheck struct{ re *regexp.Regexp }

func (c *ipCheck) Check(pcc *ambient.PerCallContext) bool {
	req := pcc.Request()
	if req == nil {
		return true
	}
	v, ok := req.Header("x-real-ip")
	if !ok {
		return false
	}
	return c.re.MatchString(v)
}

func compileIP(raw string) (StaticCheck, DynamicCheck, error) {
	re, err := compileAnchored(raw)
	if err != nil {
		return nil, nil, err
	}
	return nil, &ipCheck{re: re}, nil
}

// headerCheck requires every Name=regex pair to match a present header,
// case-insensitively by name.
type headerCheck struct{ pairs []compiledPair }

func (c *headerCheck) Check(pcc *ambient.PerCallContext) bool {
	req := pcc.Request()
	if req == nil {
		return true
	}
	for _, p := range c.pairs {
		v, ok := req.Header(p.key)
		if !ok || !p.pattern.MatchString(v) {
			return false
		}
	}
	return true
}

func compileHeader(raw string) (StaticCheck, DynamicCheck, error) {
	pairs, err := parsePairs(raw)
	if err != nil {
		return nil, nil, err
	}
	return nil, &headerCheck{pairs: pairs}, nil
}

// contextCheck requires every key=regex pair to match a binding present
// in the flattened custom-layer view. Unlike the request-shaped filters
// above, an absent layer stack fails the pair rather than passing through:
// there is no "no request in scope" analog for layers, since absence
// handling here is tied to the pair, not to the presence of the stack
// itself.
type contextCheck struct{ pairs []compiledPair }

func (c *contextCheck) Check(pcc *ambient.PerCallContext) bool {
	for _, p := range c.pairs {
		v, ok := pcc.Lookup(p.key)
		if !ok || !p.pattern.MatchString(v) {
			return false
		}
	}
	return true
}

func compileContext(raw string) (StaticCheck, DynamicCheck, error) {
	pairs, err := parsePairs(raw)
	if err != nil {
		return nil, nil, err
	}
	return nil, &contextCheck{pairs: pairs}, nil
}
