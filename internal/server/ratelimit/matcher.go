package ratelimit

import (
	"net/http"
	"strings"
)

// Match returns the rule for a request. Exact paths win over prefixes; any other write falls
// back to the write limit, and reads are never limited (nil).
func (c *Config) Match(path, method string) *Rule {
	for i := range c.Rules {
		rule := &c.Rules[i]
		if rule.Method == method && rule.Path == path {
			return rule
		}
	}
	for i := range c.Rules {
		rule := &c.Rules[i]
		if rule.Method == method && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			return rule
		}
	}

	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return nil
	}
	return &Rule{Path: "*", Method: method, Limit: c.WriteLimit, Window: c.WriteWindow}
}
