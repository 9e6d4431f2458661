package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/SheenArtem/StockCSVDownload/internal/collector"
	"github.com/SheenArtem/StockCSVDownload/internal/recorder"
)

// Job produces the result for one instrument.
type Job func(ctx context.Context, symbol string) (*collector.Result, error)

// Outcome is the per-instrument result of a batch. Exactly one of Result
// and Err is set.
type Outcome struct {
	Symbol   string
	Result   *collector.Result
	Err      error
	Duration time.Duration
}

// Report collects the outcomes of one run in input order.
type Report struct {
	RunID    string
	Started  time.Time
	Elapsed  time.Duration
	Outcomes []Outcome
}

// Succeeded returns the outcomes that produced a frame.
func (r *Report) Succeeded() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err == nil {
			out = append(out, o)
		}
	}
	return out
}

// Failed returns the outcomes that ended in an error.
func (r *Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Runner executes jobs over many instruments with bounded concurrency.
// A failing instrument never stops its siblings.
type Runner struct {
	Workers  int
	Timeout  time.Duration // per instrument; 0 disables
	Recorder recorder.Recorder
}

// NewRunner creates a Runner. Workers below 1 run one instrument at a time.
func NewRunner(workers int, timeout time.Duration, rec recorder.Recorder) *Runner {
	if workers < 1 {
		workers = 1
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Runner{Workers: workers, Timeout: timeout, Recorder: rec}
}

// Run processes symbols and returns when every instrument has an outcome.
func (r *Runner) Run(ctx context.Context, symbols []string, job Job) *Report {
	rep := &Report{
		RunID:    uuid.NewString(),
		Started:  time.Now(),
		Outcomes: make([]Outcome, len(symbols)),
	}
	log.Info().Str("run_id", rep.RunID).Int("instruments", len(symbols)).Int("workers", r.Workers).Msg("batch started")

	var g errgroup.Group
	g.SetLimit(r.Workers)
	for i, sym := range symbols {
		g.Go(func() error {
			rep.Outcomes[i] = r.runOne(ctx, sym, job)
			return nil
		})
	}
	_ = g.Wait()

	rep.Elapsed = time.Since(rep.Started)
	failed := len(rep.Failed())
	r.Recorder.RecordBatch(recorder.BatchRun{
		RunID:   rep.RunID,
		Total:   len(symbols),
		Failed:  failed,
		Elapsed: rep.Elapsed,
	})
	log.Info().Str("run_id", rep.RunID).Int("failed", failed).Dur("elapsed", rep.Elapsed).Msg("batch finished")
	return rep
}

type jobResult struct {
	res *collector.Result
	err error
}

func (r *Runner) runOne(ctx context.Context, symbol string, job Job) Outcome {
	start := time.Now()
	jobCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	done := make(chan jobResult, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- jobResult{err: fmt.Errorf("panic: %v", p)}
			}
		}()
		res, err := job(jobCtx, symbol)
		done <- jobResult{res: res, err: err}
	}()

	out := Outcome{Symbol: symbol}
	select {
	case jr := <-done:
		out.Result, out.Err = jr.res, jr.err
		out.Duration = time.Since(start)
	case <-jobCtx.Done():
		out.Err = jobCtx.Err()
		out.Duration = time.Since(start)
		// the worker slot stays taken until the job returns; its late
		// result is discarded
		<-done
	}
	if out.Err == nil && out.Result == nil {
		out.Err = fmt.Errorf("%s: job returned no result", symbol)
	}

	r.Recorder.RecordInstrument(symbol, out.Duration, out.Err)
	if out.Err != nil {
		out.Result = nil
		log.Warn().Str("symbol", symbol).Err(out.Err).Msg("instrument failed")
		return out
	}
	for _, w := range out.Result.Warnings {
		r.Recorder.RecordAuxUnavailable(w.Source)
	}
	return out
}
