package dispatch

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/sells-group/spam-triage/internal/model"
	"github.com/sells-group/spam-triage/internal/resilience"
	"github.com/sells-group/spam-triage/internal/resolve"
	"github.com/sells-group/spam-triage/internal/triage"
)

// Resolver resolves lead events from raw entries.
type Resolver interface {
	Local(raw model.RawLead) (model.LeadEvent, error)
	Fill(ctx context.Context, ev model.LeadEvent) model.LeadEvent
}

// Processor runs the triage pipeline for one lead.
type Processor interface {
	Process(ctx context.Context, leadID int64, phone any) (triage.Result, error)
}

// ErrorSink receives every task failure.
type ErrorSink func(taskID string, ev model.LeadEvent, err error)

// Summary reports what Dispatch did with a batch.
type Summary struct {
	Received  int      `json:"received"`
	Submitted int      `json:"submitted"`
	Skipped   int      `json:"skipped"`
	TaskIDs   []string `json:"task_ids,omitempty"`
}

// Dispatcher submits lead events for background processing with bounded
// concurrency.
type Dispatcher struct {
	resolver  Resolver
	processor Processor
	sem       *semaphore.Weighted
	sink      ErrorSink
	wg        sync.WaitGroup
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithErrorSink replaces the default zap error sink.
func WithErrorSink(s ErrorSink) Option {
	return func(d *Dispatcher) {
		d.sink = s
	}
}

// New creates a Dispatcher running at most maxConcurrent tasks at once.
func New(r Resolver, p Processor, maxConcurrent int, opts ...Option) *Dispatcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	d := &Dispatcher{
		resolver:  r,
		processor: p,
		sem:       semaphore.NewWeighted(int64(maxConcurrent)),
		sink:      logSink,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch resolves each entry and submits a task per lead. It never waits
// for task completion. Tasks outlive ctx cancellation but keep its values.
func (d *Dispatcher) Dispatch(ctx context.Context, entries []model.RawLead) Summary {
	sum := Summary{Received: len(entries)}
	base := context.WithoutCancel(ctx)

	for _, raw := range entries {
		ev, err := d.resolver.Local(raw)
		if err != nil {
			zap.L().Info("dispatch: entry skipped", zap.Error(err))
			sum.Skipped++
			continue
		}
		id := uuid.NewString()
		d.submit(base, id, ev)
		sum.Submitted++
		sum.TaskIDs = append(sum.TaskIDs, id)
	}
	return sum
}

func (d *Dispatcher) submit(ctx context.Context, id string, ev model.LeadEvent) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.sem.Acquire(ctx, 1); err != nil {
			d.sink(id, ev, eris.Wrap(err, "dispatch: acquire slot"))
			return
		}
		defer d.sem.Release(1)

		if err := d.run(ctx, id, ev); err != nil {
			d.sink(id, ev, err)
		}
	}()
}

func (d *Dispatcher) run(ctx context.Context, id string, ev model.LeadEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("dispatch: task panicked: %v", r)
		}
	}()

	log := zap.L().With(zap.String("task_id", id), zap.Int64("lead_id", ev.LeadID))

	ev = d.resolver.Fill(ctx, ev)
	if !ev.HasPhone() {
		log.Info("dispatch: no phone for lead, nothing to check")
		return nil
	}
	log.Info("dispatch: checking lead", zap.String("phone", ev.Phone), zap.String("source", string(ev.Source)))

	_, err = d.processor.Process(ctx, ev.LeadID, ev.Phone)
	return err
}

// Wait blocks until every submitted task finished or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "dispatch: wait for tasks")
	}
}

func logSink(taskID string, ev model.LeadEvent, err error) {
	zap.L().Error("dispatch: task failed",
		zap.String("task_id", taskID),
		zap.Int64("lead_id", ev.LeadID),
		zap.String("error_type", resilience.ClassifyError(err)),
		zap.Error(err),
	)
}

var _ Resolver = (*resolve.Resolver)(nil)
