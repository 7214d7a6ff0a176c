package pipeline

import "log/slog"

// Reporter receives synthesis progress updates. Implementations must be safe
// for concurrent use; workers report from multiple goroutines.
type Reporter interface {
	Start(totalSegments int)
	Segment(completed, totalSegments int)
	Done()
}

// NopReporter discards all progress updates.
type NopReporter struct{}

func (NopReporter) Start(int)        {}
func (NopReporter) Segment(int, int) {}
func (NopReporter) Done()            {}

// LogReporter writes progress to a logger at coarse intervals.
type LogReporter struct {
	Logger *slog.Logger
}

func (r LogReporter) Start(total int) {
	r.Logger.Info("synthesis started", "segments", total)
}

func (r LogReporter) Segment(completed, total int) {
	// Log every tenth of the run to keep long books readable.
	step := total / 10
	if step == 0 {
		step = 1
	}
	if completed%step == 0 || completed == total {
		r.Logger.Info("synthesis progress", "completed", completed, "total", total)
	}
}

func (r LogReporter) Done() {
	r.Logger.Info("synthesis finished")
}
