package routing

import "time"

// Recorder receives routing outcomes for metrics.
type Recorder interface {
	ObserveDecision(result Result, elapsed time.Duration)
	ObserveBatch(processed int)
	SetPending(n int)
	SetStale(n int)
	SetModeratorWorkload(moderatorID int64, active int)
}

type NopRecorder struct{}

func (NopRecorder) ObserveDecision(Result, time.Duration) {}
func (NopRecorder) ObserveBatch(int)                      {}
func (NopRecorder) SetPending(int)                        {}
func (NopRecorder) SetStale(int)                          {}
func (NopRecorder) SetModeratorWorkload(int64, int)       {}
