package recorder

import "time"

// BatchRun summarises one batch of instrument downloads.
type BatchRun struct {
	RunID   string
	Total   int
	Failed  int
	Elapsed time.Duration
}

// Recorder captures operational history of downloads for monitoring.
type Recorder interface {
	RecordInstrument(symbol string, elapsed time.Duration, err error)
	RecordAuxUnavailable(source string)
	RecordBatch(run BatchRun)
}
