package trace

import (
	"context"
	"log/slog"
	"time"

	"sigil-hq/sigil/pkg/config"
)

// Pruner deletes traces older than the retention window.
type Pruner struct {
	store  *Store
	config config.TraceConfig
	logger *slog.Logger
}

// NewPruner creates a pruner for the given store.
func NewPruner(store *Store, cfg config.TraceConfig) *Pruner {
	return &Pruner{
		store:  store,
		config: cfg,
		logger: slog.Default().With("component", "trace.pruner"),
	}
}

// Prune deletes traces past retention and returns the number deleted.
// A retention of zero days keeps traces forever.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)
	deleted, err := p.store.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		p.logger.Info("traces pruned", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}
