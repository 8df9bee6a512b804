// Package cli holds the shared plumbing behind the burette commands:
// store selection, experiment file loading, environment configuration
// and signal handling.
package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/aretw0/burette/internal/adapters/file"
	"github.com/aretw0/burette/pkg/adapters/memory"
	"github.com/aretw0/burette/pkg/adapters/postgres"
	"github.com/aretw0/burette/pkg/adapters/redis"
	"github.com/aretw0/burette/pkg/adapters/sqlite"
	"github.com/aretw0/burette/pkg/ports"
)

// OpenStore resolves a --store spec into a RunStore. Recognized forms:
//
//	memory                      volatile in-process store (default)
//	file:DIR                    one JSON file per run under DIR
//	sqlite:PATH                 embedded sqlite database at PATH
//	redis://[:pass@]host:port/N redis hash per run
//	postgres://...              postgres table, DSN passed through
//
// The returned closer releases the backing connection; for stores
// without one it is a no-op.
func OpenStore(spec string) (ports.RunStore, func() error, error) {
	noop := func() error { return nil }

	switch {
	case spec == "" || spec == "memory":
		return memory.NewStore(), noop, nil

	case strings.HasPrefix(spec, "file:"):
		return file.New(strings.TrimPrefix(spec, "file:")), noop, nil

	case strings.HasPrefix(spec, "sqlite:"):
		store, err := sqlite.New(strings.TrimPrefix(spec, "sqlite:"))
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, store.Close, nil

	case strings.HasPrefix(spec, "redis://"), strings.HasPrefix(spec, "rediss://"):
		addr, password, db, err := parseRedisURL(spec)
		if err != nil {
			return nil, nil, err
		}
		store := redis.New(addr, password, db)
		return store, store.Close, nil

	case strings.HasPrefix(spec, "postgres://"), strings.HasPrefix(spec, "postgresql://"):
		store, err := postgres.New(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return store, store.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown store %q (want memory, file:DIR, sqlite:PATH, redis:// or postgres://)", spec)
}

func parseRedisURL(raw string) (addr, password string, db int, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", 0, fmt.Errorf("parsing redis url: %w", err)
	}
	addr = u.Host
	if addr == "" {
		addr = "localhost:6379"
	}
	if u.User != nil {
		password, _ = u.User.Password()
	}
	if path := strings.Trim(u.Path, "/"); path != "" {
		db, err = strconv.Atoi(path)
		if err != nil {
			return "", "", 0, fmt.Errorf("redis url: database must be numeric, got %q", path)
		}
	}
	return addr, password, db, nil
}
