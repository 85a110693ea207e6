package storage

import (
	"fmt"

	"github.com/tgienger/taskflow/internal/config"
)

// Open returns the adapter selected by cfg.Storage.Backend
func Open(cfg *config.Config) (Adapter, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite, "":
		return NewSQLite(cfg.DBPath())
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendRedis:
		return DialRedis(cfg.Redis.Addr, cfg.Redis.Prefix, cfg.Redis.Timeout)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
