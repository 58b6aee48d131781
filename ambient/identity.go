package ambient

import "fmt"

// Version is a declared library's semantic version triple, used by the
// library_version filter.
type Version struct {
	Major int
	Minor int
	Patch int
}

// String renders the version in dotted form, e.g. "1.4.2".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other, comparing major, then minor, then patch.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return sign(v.Major - other.Major)
	}
	if v.Minor != other.Minor {
		return sign(v.Minor - other.Minor)
	}
	return sign(v.Patch - other.Patch)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// StaticIdentity is the process's fixed-at-construction identity: the
// application name, host identifier, a snapshot of the process environment,
// declared library versions, and an optional environment-class label
// ("mcs_run_env"). Immutable after construction.
type StaticIdentity struct {
	ApplicationName string
	Host            string
	Environment     map[string]string
	LibraryVersions map[string]Version
	RunEnv          string // empty means absent
}

// NewStaticIdentity builds an immutable StaticIdentity, defensively copying
// the maps it is given so a caller's later mutation cannot reach back in.
func NewStaticIdentity(applicationName, host string, environment map[string]string, libraryVersions map[string]Version, runEnv string) *StaticIdentity {
	env := make(map[string]string, len(environment))
	for k, v := range environment {
		env[k] = v
	}

	libs := make(map[string]Version, len(libraryVersions))
	for k, v := range libraryVersions {
		libs[k] = v
	}

	return &StaticIdentity{
		ApplicationName: applicationName,
		Host:            host,
		Environment:     env,
		LibraryVersions: libs,
		RunEnv:          runEnv,
	}
}

// HasRunEnv reports whether an environment-class label was configured.
func (s *StaticIdentity) HasRunEnv() bool {
	return s.RunEnv != ""
}
