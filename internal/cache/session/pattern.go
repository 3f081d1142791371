package session

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher selects cache keys for invalidation
type Matcher interface {
	Match(key string) bool
}

// Prefix matches keys starting with the given namespace, e.g. "airtable:ashaar:"
type Prefix string

// Match implements Matcher
func (p Prefix) Match(key string) bool {
	return strings.HasPrefix(key, string(p))
}

// Regexp matches keys against a compiled regular expression
type Regexp struct {
	re *regexp.Regexp
}

// Match implements Matcher
func (r Regexp) Match(key string) bool {
	return r.re != nil && r.re.MatchString(key)
}

// String returns the source expression
func (r Regexp) String() string {
	if r.re == nil {
		return ""
	}
	return r.re.String()
}

// ParsePattern compiles a regular expression pattern into a Matcher
func ParsePattern(expr string) (Matcher, error) {
	if expr == "" {
		return nil, fmt.Errorf("pattern cannot be empty")
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}
	return Regexp{re: re}, nil
}

// MustPattern is like ParsePattern but panics on an invalid expression.
// It is meant for patterns written in code.
func MustPattern(expr string) Matcher {
	m, err := ParsePattern(expr)
	if err != nil {
		panic(err)
	}
	return m
}
