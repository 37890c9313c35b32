// Package session persists the authentication record behind a key-value slot.
package session

import (
	"fmt"
	"strings"
)

// Store is the key-value persistence boundary for session records.
// Read reports found=false (and no error) when the key holds nothing.
type Store interface {
	Close() error
	Read(key string) (value string, found bool, err error)
	Write(key, value string) error
}

const (
	TypeBolt   = "bbolt"
	TypeMemory = "memory"
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", TypeMemory:
		return NewMemoryStore(), nil
	case TypeBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt session store requires a path")
		}
		return openBolt(path)
	default:
		return nil, fmt.Errorf("unsupported session store type %q", typ)
	}
}
