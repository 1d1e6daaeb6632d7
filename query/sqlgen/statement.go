package sqlgen

import (
	"sort"
	"strings"

	"github.com/satishbabariya/recordguard/query/domain"
)

// PlaceholderPrefix starts a named parameter in statement text.
const PlaceholderPrefix = "@"

// Statement is rendered SQL text with named parameters and the read
// decision it was built under.
type Statement struct {
	Text   string
	Params domain.Params
	Scope  domain.ReadScope
}

// Placeholder returns the placeholder text for a parameter name.
func Placeholder(name string) string {
	return PlaceholderPrefix + name
}

// String returns the statement text.
func (s Statement) String() string {
	return s.Text
}

// Has reports whether the parameter is bound, ignoring case.
func (s Statement) Has(name string) bool {
	_, ok := lookupParam(s.Params, name)
	return ok
}

// With returns a copy of s with the parameter bound to value.
func (s Statement) With(name string, value any) Statement {
	params := s.Params.Clone()
	if params == nil {
		params = domain.Params{}
	}
	params[name] = value
	s.Params = params
	return s
}

// WithDefault returns a copy of s with the parameter bound only if it is absent.
func (s Statement) WithDefault(name string, value any) Statement {
	if s.Has(name) {
		return s
	}
	return s.With(name, value)
}

// ParamNames returns the bound parameter names, sorted.
func (s Statement) ParamNames() []string {
	names := make([]string, 0, len(s.Params))
	for k := range s.Params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// lookupParam finds a parameter by exact name, then case-insensitively.
func lookupParam(params domain.Params, name string) (any, bool) {
	if v, ok := params[name]; ok {
		return v, true
	}
	for k, v := range params {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}
