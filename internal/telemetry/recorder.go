// Package telemetry records best-effort tool usage. Submission never blocks
// the caller; a worker drains a bounded queue into a Sink.
package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bobmcallan/toolbridge/internal/common"
)

// DefaultQueueSize is used when NewRecorder gets a non-positive size.
const DefaultQueueSize = 256

// dropLogEvery limits warn lines while the queue stays full.
const dropLogEvery = 100

// Usage is one tool invocation record.
type Usage struct {
	Tool      string    `json:"tool"`
	Timestamp time.Time `json:"timestamp"`
	Instance  string    `json:"instance,omitempty"`
}

// Sink receives usage records from the recorder worker.
type Sink interface {
	Send(ctx context.Context, u Usage) error
	Close() error
}

// Stats is a snapshot of recorder counters.
type Stats struct {
	Recorded uint64 `json:"recorded"`
	Sent     uint64 `json:"sent"`
	Dropped  uint64 `json:"dropped"`
	Failed   uint64 `json:"failed"`
}

// Recorder queues usage records for a Sink.
type Recorder struct {
	queue    chan Usage
	sink     Sink
	logger   *common.Logger
	instance string
	now      func() time.Time

	recorded atomic.Uint64
	sent     atomic.Uint64
	dropped  atomic.Uint64
	failed   atomic.Uint64
}

// NewRecorder creates a recorder with a queue of queueSize records.
// instance tags every record, typically the host name.
func NewRecorder(sink Sink, queueSize int, instance string, logger *common.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Recorder{
		queue:    make(chan Usage, queueSize),
		sink:     sink,
		logger:   logger,
		instance: instance,
		now:      time.Now,
	}
}

// Record enqueues a usage record for tool. It never blocks: a full queue
// drops the record.
func (r *Recorder) Record(tool string) {
	if r == nil {
		return
	}
	r.recorded.Add(1)

	select {
	case r.queue <- Usage{Tool: tool, Timestamp: r.now().UTC(), Instance: r.instance}:
	default:
		n := r.dropped.Add(1)
		if n == 1 || n%dropLogEvery == 0 {
			r.logger.Warn().
				Str("tool", tool).
				Int64("dropped_total", int64(n)).
				Msg("telemetry queue full, dropping usage record")
		}
	}
}

// Run drains the queue into the sink until ctx is done, then flushes what
// is already queued.
func (r *Recorder) Run(ctx context.Context) error {
	r.logger.Debug().Int("queue_size", cap(r.queue)).Msg("telemetry worker started")
	for {
		select {
		case u := <-r.queue:
			if ctx.Err() != nil {
				r.flush(u)
				r.logger.Debug().Msg("telemetry worker stopped")
				return nil
			}
			r.send(ctx, u)
		case <-ctx.Done():
			r.flush()
			r.logger.Debug().Msg("telemetry worker stopped")
			return nil
		}
	}
}

// Stats returns a snapshot of the counters.
func (r *Recorder) Stats() Stats {
	if r == nil {
		return Stats{}
	}
	return Stats{
		Recorded: r.recorded.Load(),
		Sent:     r.sent.Load(),
		Dropped:  r.dropped.Load(),
		Failed:   r.failed.Load(),
	}
}

// Close releases the sink.
func (r *Recorder) Close() error {
	if r == nil || r.sink == nil {
		return nil
	}
	return r.sink.Close()
}

// flush sends pending and then whatever is still queued, under its own
// deadline.
func (r *Recorder) flush(pending ...Usage) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, u := range pending {
		r.send(ctx, u)
	}
	for {
		select {
		case u := <-r.queue:
			r.send(ctx, u)
		default:
			return
		}
	}
}

func (r *Recorder) send(ctx context.Context, u Usage) {
	defer func() {
		if rec := recover(); rec != nil {
			r.failed.Add(1)
			r.logger.Error().
				Str("tool", u.Tool).
				Str("panic", fmt.Sprintf("%v", rec)).
				Msg("telemetry sink panicked")
		}
	}()

	if err := r.sink.Send(ctx, u); err != nil {
		r.failed.Add(1)
		r.logger.Warn().Str("tool", u.Tool).Err(err).Msg("failed to send usage record")
		return
	}
	r.sent.Add(1)
}
