package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/biswatma/zerocoder/pkg/audit"
)

// Pruner deletes audit records older than the retention period.
type Pruner struct {
	storage audit.Storage
	days    int
	now     func() time.Time
	logger  *slog.Logger
}

// NewPruner creates a pruner keeping days of records. Zero days keeps
// records forever.
func NewPruner(storage audit.Storage, days int) *Pruner {
	return &Pruner{
		storage: storage,
		days:    days,
		now:     time.Now,
		logger:  slog.Default().With("component", "audit.retention"),
	}
}

// Cutoff returns the start time before which records are deleted.
func (p *Pruner) Cutoff() time.Time {
	return p.now().AddDate(0, 0, -p.days)
}

// Prune deletes expired records and returns how many were removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.days <= 0 {
		return 0, nil
	}

	cutoff := p.Cutoff()
	deleted, err := p.storage.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune records before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	if deleted > 0 {
		p.logger.InfoContext(ctx, "pruned audit records",
			"deleted_count", deleted,
			"retention_days", p.days,
		)
	}
	return deleted, nil
}
