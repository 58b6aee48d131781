package filters

import (
	"regexp"

	"github.com/c360/rtsettings/ambient"
)

// applicationCheck matches the static application name.
type applicationCheck struct{ re *regexp.Regexp }

func (c *applicationCheck) Check(ident *ambient.StaticIdentity) bool {
	if ident == nil {
		return false
	}
	return c.re.MatchString(ident.ApplicationName)
}

func compileApplication(raw string) (StaticCheck, DynamicCheck, error) {
	re, err := compileAnchored(raw)
	if err != nil {
		return nil, nil, err
	}
	return &applicationCheck{re: re}, nil, nil
}

// serverCheck matches the static host identifier.
type serverCheck struct{ re *regexp.Regexp }

func (c *serverCheck) Check(ident *ambient.StaticIdentity) bool {
	if ident == nil {
		return false
	}
	return c.re.MatchString(ident.Host)
}

func compileServer(raw string) (StaticCheck, DynamicCheck, error) {
	re, err := compileAnchored(raw)
	if err != nil {
		return nil, nil, err
	}
	return &serverCheck{re: re}, nil, nil
}

// environmentCheck requires every KEY to exist in the static environment
// map with a value matching its regex.
type environmentCheck struct{ pairs []compiledPair }

func (c *environmentCheck) Check(ident *ambient.StaticIdentity) bool {
	if ident == nil {
		return false
	}
	for _, p := range c.pairs {
		v, ok := ident.Environment[p.key]
		if !ok || !p.pattern.MatchString(v) {
			return false
		}
	}
	return true
}

func compileEnvironment(raw string) (StaticCheck, DynamicCheck, error) {
	pairs, err := parsePairs(raw)
	if err != nil {
		return nil, nil, err
	}
	return &environmentCheck{pairs: pairs}, nil, nil
}

// mcsRunEnvCheck matches the optional environment-class label. A process
// with no label fails closed.
type mcsRunEnvCheck struct{ re *regexp.Regexp }

func (c *mcsRunEnvCheck) Check(ident *ambient.StaticIdentity) bool {
	if ident == nil || !ident.HasRunEnv() {
		return false
	}
	return c.re.MatchString(ident.RunEnv)
}

func compileMCSRunEnv(raw string) (StaticCheck, DynamicCheck, error) {
	re, err := compileAnchored(raw)
	if err != nil {
		return nil, nil, err
	}
	return &mcsRunEnvCheck{re: re}, nil, nil
}

// libraryVersionCheck requires every named library to be present and
// satisfy its comparison clause.
type libraryVersionCheck struct{ clauses []versionClause }

func (c *libraryVersionCheck) Check(ident *ambient.StaticIdentity) bool {
	if ident == nil {
		return false
	}
	for _, cl := range c.clauses {
		v, ok := ident.LibraryVersions[cl.name]
		if !ok || !cl.satisfiedBy(v) {
			return false
		}
	}
	return true
}

func compileLibraryVersion(raw string) (StaticCheck, DynamicCheck, error) {
	clauses, err := parseVersionClauses(raw)
	if err != nil {
		return nil, nil, err
	}
	return &libraryVersionCheck{clauses: clauses}, nil, nil
}
