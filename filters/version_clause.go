package filters

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c360/rtsettings/ambient"
	"github.com/c360/rtsettings/errors"
)

// versionClause is one "name<op><version>" comparison from a
// library_version filter's comma-separated clause list.
type versionClause struct {
	name string
	op   string
	want ambient.Version
}

func (c versionClause) satisfiedBy(got ambient.Version) bool {
	cmp := got.Compare(c.want)
	switch c.op {
	case "=":
		return cmp == 0
	case ">":
		return cmp > 0
	case "<":
		return cmp < 0
	case ">=":
		return cmp >= 0
	case "<=":
		return cmp <= 0
	default:
		return false
	}
}

// operators are checked longest-first so ">=" isn't mistaken for ">".
var versionOperators = []string{">=", "<=", "=", ">", "<"}

func parseVersionClauses(raw string) ([]versionClause, error) {
	parts := strings.Split(raw, ",")
	clauses := make([]versionClause, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		clause, err := parseVersionClause(part)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

func parseVersionClause(clause string) (versionClause, error) {
	for _, op := range versionOperators {
		idx := strings.Index(clause, op)
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(clause[:idx])
		versionStr := strings.TrimSpace(clause[idx+len(op):])
		if name == "" || versionStr == "" {
			continue
		}
		v, err := parseVersion(versionStr)
		if err != nil {
			return versionClause{}, err
		}
		return versionClause{name: name, op: op, want: v}, nil
	}
	return versionClause{}, errors.WrapInvalid(errors.ErrInvalidVersionClause, "filters", "parseVersionClause", fmt.Sprintf("clause %q has no recognized operator", clause))
}

func parseVersion(s string) (ambient.Version, error) {
	segs := strings.SplitN(s, ".", 3)
	nums := make([]int, 3)
	for i := 0; i < 3; i++ {
		if i >= len(segs) {
			break
		}
		n, err := strconv.Atoi(segs[i])
		if err != nil {
			return ambient.Version{}, errors.WrapInvalid(errors.ErrInvalidVersionClause, "filters", "parseVersion", fmt.Sprintf("version %q: %v", s, err))
		}
		nums[i] = n
	}
	return ambient.Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}
