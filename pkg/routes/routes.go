package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Package routes holds the set of URLs that are dispatched without credentials.

const (
	MatchExact  = "exact"
	MatchPrefix = "prefix"
)

// Route is one auth-exempt URL pattern.
type Route struct {
	ID      string `json:"id" yaml:"id"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Match   string `json:"match" yaml:"match"`
}

type registry struct {
	Routes []Route `json:"routes" yaml:"routes"`
}

// Set answers whether a URL is exempt from authentication. The zero value
// is an empty set that exempts nothing.
type Set struct {
	exact    map[string]struct{}
	prefixes []string
	routes   []Route
}

// NewSet builds a set from routes after sanitizing them.
func NewSet(rs ...Route) (*Set, error) {
	set := &Set{exact: make(map[string]struct{})}
	seen := make(map[string]struct{}, len(rs))

	for i := range rs {
		r := sanitizeRoute(rs[i])
		if err := validateRoute(r); err != nil {
			return nil, fmt.Errorf("route[%d]: %w", i, err)
		}
		if r.ID != "" {
			if _, dup := seen[r.ID]; dup {
				return nil, fmt.Errorf("duplicate route id %q", r.ID)
			}
			seen[r.ID] = struct{}{}
		}

		switch r.Match {
		case MatchPrefix:
			set.prefixes = append(set.prefixes, r.Pattern)
		default:
			set.exact[r.Pattern] = struct{}{}
		}
		set.routes = append(set.routes, r)
	}
	return set, nil
}

// Exact is a shorthand for a set of exact-match patterns.
func Exact(patterns ...string) *Set {
	set := &Set{exact: make(map[string]struct{}, len(patterns))}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		set.exact[p] = struct{}{}
		set.routes = append(set.routes, Route{Pattern: p, Match: MatchExact})
	}
	return set
}

// Exempt reports whether url matches any configured pattern.
func (s *Set) Exempt(url string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.exact[url]; ok {
		return true
	}
	for _, p := range s.prefixes {
		if strings.HasPrefix(url, p) {
			return true
		}
	}
	return false
}

// Routes returns a copy of the configured routes.
func (s *Set) Routes() []Route {
	if s == nil || len(s.routes) == 0 {
		return nil
	}
	out := make([]Route, len(s.routes))
	copy(out, s.routes)
	return out
}

// Len returns the number of configured routes.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.routes)
}

// Load reads an exemption set from a YAML or JSON file. An empty path yields
// an empty set.
func Load(path string) (*Set, error) {
	if strings.TrimSpace(path) == "" {
		return Exact(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open routes file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read routes file: %w", err)
	}

	reg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewSet(reg.Routes...)
}

func parseRegistry(data []byte, ext string) (registry, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return registry{}, errors.New("routes file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registry, error) {
	var reg registry
	if err := fn(data, &reg); err != nil {
		return registry{}, fmt.Errorf("decode %s routes: %w", name, err)
	}
	return reg, nil
}

func sanitizeRoute(r Route) Route {
	r.ID = strings.TrimSpace(r.ID)
	r.Pattern = strings.TrimSpace(r.Pattern)
	r.Match = strings.ToLower(strings.TrimSpace(r.Match))
	if r.Match == "" {
		r.Match = MatchExact
	}
	return r
}

func validateRoute(r Route) error {
	if r.Pattern == "" {
		return errors.New("pattern is required")
	}
	if r.Match != MatchExact && r.Match != MatchPrefix {
		return fmt.Errorf("unsupported match %q for pattern %q", r.Match, r.Pattern)
	}
	return nil
}
