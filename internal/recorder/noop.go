package recorder

import "time"

// NoopRecorder is a no-op implementation used when metrics are disabled.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordInstrument(_ string, _ time.Duration, _ error) {}
func (n *NoopRecorder) RecordAuxUnavailable(_ string)                      {}
func (n *NoopRecorder) RecordBatch(_ BatchRun)                             {}
