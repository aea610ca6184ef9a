package storage

import (
	"fmt"

	"github.com/biswatma/zerocoder/pkg/audit"
	"github.com/biswatma/zerocoder/pkg/config"
)

// Open creates the backend selected by cfg.Backend.
func Open(cfg config.AuditConfig) (audit.Storage, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStorage(cfg.Memory.MaxRecords), nil
	case "sqlite":
		s, err := NewSQLiteStorage(cfg.SQLite)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported audit backend %q (supported: memory, sqlite)", cfg.Backend)
	}
}
