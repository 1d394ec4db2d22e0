// Package store selects the key-value backend the task list persists to.
package store

import (
	"context"
	"fmt"

	"github.com/Makepad-fr/lister/internal/store/jsonstore"
	"github.com/Makepad-fr/lister/internal/store/mysqlstore"
	"github.com/charmbracelet/log"
)

// Backend kinds.
const (
	KindFile  = "file"
	KindMySQL = "mysql"
)

// KV is a local key-value store holding raw JSON values.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Options picks and configures a backend.
type Options struct {
	Kind     string
	DataFile string
	DSN      string
	Logger   *log.Logger
}

// Open returns the backend named by opts.Kind.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Kind {
	case "", KindFile:
		s, err := jsonstore.New(opts.DataFile)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		if opts.Logger != nil {
			opts.Logger.Debug("using file store", "path", s.Path())
		}
		return s, nil
	case KindMySQL:
		s, err := mysqlstore.Open(ctx, opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("open mysql store: %w", err)
		}
		if opts.Logger != nil {
			opts.Logger.Debug("using mysql store")
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store %q", opts.Kind)
	}
}
