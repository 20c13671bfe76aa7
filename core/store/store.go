package store

import (
	"fmt"

	"github.com/gaurav-prasanna/townpipe/core"
	"github.com/gaurav-prasanna/townpipe/core/config"
)

// Open returns the backend selected by cfg and a function releasing it.
func Open(cfg config.StoreConfig) (core.ContentStore, func() error, error) {
	switch cfg.Driver {
	case "memory", "":
		return NewMemoryStore(), func() error { return nil }, nil
	case "sqlite":
		s, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
