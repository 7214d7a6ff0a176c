package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/mattn/go-isatty"

	"lectern/internal/pipeline"
)

// newReporter picks an interactive progress bar on terminals and falls back
// to periodic log lines otherwise.
func newReporter(out io.Writer, logger *slog.Logger) pipeline.Reporter {
	if isTerminal(out) {
		return &barReporter{out: out}
	}
	return pipeline.LogReporter{Logger: logger}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type barReporter struct {
	out     io.Writer
	writer  progress.Writer
	tracker *progress.Tracker
}

func (r *barReporter) Start(total int) {
	writer := progress.NewWriter()
	writer.SetOutputWriter(r.out)
	writer.SetUpdateFrequency(100 * time.Millisecond)
	writer.SetTrackerLength(30)
	writer.Style().Visibility.ETA = true
	writer.Style().Visibility.Speed = false

	tracker := &progress.Tracker{
		Message: "Synthesizing segments",
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}
	writer.AppendTracker(tracker)

	r.writer = writer
	r.tracker = tracker
	go writer.Render()
}

func (r *barReporter) Segment(completed, _ int) {
	if r.tracker != nil {
		r.tracker.SetValue(int64(completed))
	}
}

func (r *barReporter) Done() {
	if r.tracker != nil && !r.tracker.IsDone() {
		r.tracker.MarkAsDone()
	}
	if r.writer != nil {
		r.writer.Stop()
	}
}
