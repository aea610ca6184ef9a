package recorder

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/biswatma/zerocoder/pkg/audit"
	"github.com/biswatma/zerocoder/pkg/config"
)

// Defaults used when the configuration leaves a value unset.
const (
	DefaultAsyncBuffer  = 1000
	DefaultWriteTimeout = 5 * time.Second
)

// Stats counts what happened to queued records.
type Stats struct {
	Written int64
	Failed  int64
	Dropped int64
}

// Recorder writes audit records in the background so that request handling
// never waits on storage. A nil *Recorder discards everything.
type Recorder struct {
	storage audit.Storage
	config  config.RecorderConfig
	records chan *audit.Record
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	logger  *slog.Logger

	written atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

// New starts a recorder that writes to storage.
func New(storage audit.Storage, cfg config.RecorderConfig) *Recorder {
	if cfg.AsyncBuffer <= 0 {
		cfg.AsyncBuffer = DefaultAsyncBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}

	r := &Recorder{
		storage: storage,
		config:  cfg,
		records: make(chan *audit.Record, cfg.AsyncBuffer),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Record queues record for writing. It waits at most the write timeout for
// buffer space and returns audit.ErrBufferFull if none frees up.
func (r *Recorder) Record(ctx context.Context, record *audit.Record) error {
	if r == nil {
		return nil
	}

	select {
	case <-r.done:
		r.dropped.Add(1)
		return audit.ErrRecorderClosed
	default:
	}

	timer := time.NewTimer(r.config.WriteTimeout)
	defer timer.Stop()

	select {
	case r.records <- record:
		return nil
	case <-timer.C:
		r.dropped.Add(1)
		r.logger.ErrorContext(ctx, "audit buffer full, dropping record",
			"record_id", record.ID,
			"capacity", r.config.AsyncBuffer,
		)
		return audit.ErrBufferFull
	case <-r.done:
		r.dropped.Add(1)
		return audit.ErrRecorderClosed
	}
}

// Stats returns the current counters.
func (r *Recorder) Stats() Stats {
	if r == nil {
		return Stats{}
	}
	return Stats{
		Written: r.written.Load(),
		Failed:  r.failed.Load(),
		Dropped: r.dropped.Load(),
	}
}

// Close stops accepting records, writes everything already queued and
// waits for the worker to exit. It is safe to call more than once.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.once.Do(func() {
		close(r.done)
	})
	r.wg.Wait()
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.records:
			r.write(record)
		case <-r.done:
			for {
				select {
				case record := <-r.records:
					r.write(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(record *audit.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, record); err != nil {
		r.failed.Add(1)
		r.logger.Error("failed to store audit record",
			"record_id", record.ID,
			"request_id", record.RequestID,
			"error", err,
		)
		return
	}

	r.written.Add(1)
	r.logger.Debug("audit record stored",
		"record_id", record.ID,
		"request_id", record.RequestID,
		"status", record.Status,
	)
}
