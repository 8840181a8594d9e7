package trace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"sigil-hq/sigil/pkg/lang/fact"
)

// Recorder converts evaluation results into persisted traces.
type Recorder struct {
	store  *Store
	logger *slog.Logger
}

// NewRecorder creates a recorder writing to the given store.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{
		store:  store,
		logger: slog.Default().With("component", "trace.recorder"),
	}
}

// RecordBatch persists one trace per result under a fresh batch ID and
// returns that ID.
func (r *Recorder) RecordBatch(ctx context.Context, results []fact.Result) (string, error) {
	batchID := uuid.NewString()

	for _, res := range results {
		t := &Trace{
			ID:         uuid.NewString(),
			BatchID:    batchID,
			Raw:        res.Raw,
			Expression: res.Fact.Expression,
			Active:     res.Active,
			Duration:   res.Duration,
		}
		if res.Err != nil {
			t.Error = res.Err.Error()
		}
		if err := r.store.Insert(ctx, t); err != nil {
			return "", fmt.Errorf("failed to record batch %s: %w", batchID, err)
		}
	}

	r.logger.Debug("batch recorded", "batch_id", batchID, "traces", len(results))
	return batchID, nil
}
