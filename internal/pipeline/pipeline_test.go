package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lectern/internal/audio"
	"lectern/internal/book"
	"lectern/internal/config"
	"lectern/internal/services/ffmpeg"
	"lectern/internal/synth"
)

type fakeSynthesizer struct {
	mu    sync.Mutex
	calls []synth.Request
	delay func(seq int) time.Duration
	fail  func(req synth.Request) error
	count atomic.Int64
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, req synth.Request) (synth.Clip, error) {
	f.mu.Lock()
	seq := len(f.calls)
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	f.count.Add(1)

	if f.fail != nil {
		if err := f.fail(req); err != nil {
			return synth.Clip{}, err
		}
	}
	if f.delay != nil {
		select {
		case <-time.After(f.delay(seq)):
		case <-ctx.Done():
			return synth.Clip{}, ctx.Err()
		}
	}
	return synth.Clip{Audio: []byte("audio:" + req.Text)}, nil
}

func (f *fakeSynthesizer) Voices(context.Context, string) ([]synth.Voice, error) {
	return nil, nil
}

type fakeProcessor struct {
	mu      sync.Mutex
	concats []string
}

func (f *fakeProcessor) Silence(_ context.Context, _ time.Duration, _ int, outPath string) error {
	return os.WriteFile(outPath, []byte("silence"), 0o644)
}

func (f *fakeProcessor) Concat(_ context.Context, listPath, outPath string) error {
	data, err := os.ReadFile(listPath)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.concats = append(f.concats, string(data))
	f.mu.Unlock()
	return os.WriteFile(outPath, []byte("raw"), 0o644)
}

func (f *fakeProcessor) Master(_ context.Context, _, outPath string, _ ffmpeg.MasterParams) error {
	return os.WriteFile(outPath, []byte("mastered"), 0o644)
}

func (f *fakeProcessor) ProbeDuration(context.Context, string) (time.Duration, error) {
	return time.Minute, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = filepath.Join(root, "in")
	cfg.Paths.OutputDir = filepath.Join(root, "out")
	cfg.Paths.WorkDir = filepath.Join(root, "work")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.TTS.Concurrency = 4
	cfg.TTS.RequestsPerMinute = 600000
	cfg.TTS.MaxChunkChars = 200
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return &cfg
}

func writeInput(t *testing.T, cfg *config.Config, name, content string) string {
	t.Helper()
	path := filepath.Join(cfg.Paths.InputDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGenerator(cfg *config.Config, synthesizer synth.Synthesizer, processor audio.Processor) *Generator {
	return NewGenerator(cfg, testLogger(), book.NewReader(nil), synthesizer, audio.NewAssembler(processor))
}

func TestGenerateProducesOrderedOutput(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, cfg, "story.txt",
		"Capítulo 1\nPrimeira frase. Segunda frase. Terceira frase.\nCapítulo 2\nQuarta frase.")

	// Later segments finish sooner, exercising order restoration.
	synthesizer := &fakeSynthesizer{delay: func(seq int) time.Duration {
		return time.Duration(50-seq*10) * time.Millisecond
	}}
	processor := &fakeProcessor{}
	generator := newTestGenerator(cfg, synthesizer, processor)

	result, err := generator.Generate(context.Background(), Job{
		InputPath: input,
		Language:  "pt-BR",
		Voice:     "FEMALE",
		Premium:   true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Chapters != 2 {
		t.Errorf("chapters = %d", result.Chapters)
	}
	if len(result.OutputFiles) != 1 {
		t.Fatalf("output files = %v", result.OutputFiles)
	}
	if _, err := os.Stat(result.OutputFiles[0]); err != nil {
		t.Fatalf("output missing: %v", err)
	}

	if len(processor.concats) != 1 {
		t.Fatalf("concats = %d", len(processor.concats))
	}
	// Clip entries must appear in ascending sequence order.
	lastSeq := -1
	for _, line := range strings.Split(processor.concats[0], "\n") {
		if !strings.Contains(line, "seg_") {
			continue
		}
		var seq int
		name := line[strings.Index(line, "seg_"):]
		if _, err := fmt.Sscanf(name, "seg_%05d.mp3", &seq); err != nil {
			t.Fatalf("parse %q: %v", line, err)
		}
		if seq <= lastSeq {
			t.Errorf("sequence %d after %d in concat list", seq, lastSeq)
		}
		lastSeq = seq
	}
	if lastSeq < 0 {
		t.Fatal("no clips in concat list")
	}

	// Workspace cleaned up after the run.
	entries, err := os.ReadDir(cfg.Paths.WorkDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "job-") {
			t.Errorf("workspace %s not removed", entry.Name())
		}
	}
}

func TestGeneratePreviewLimitsSegments(t *testing.T) {
	cfg := testConfig(t)
	cfg.Preview.Segments = 2
	cfg.TTS.MaxChunkChars = 100

	var body strings.Builder
	for i := 0; i < 30; i++ {
		body.WriteString(fmt.Sprintf("Esta é a frase número um com bastante texto %d. ", i))
	}
	input := writeInput(t, cfg, "long.txt", body.String())

	synthesizer := &fakeSynthesizer{}
	generator := newTestGenerator(cfg, synthesizer, &fakeProcessor{})

	result, err := generator.Generate(context.Background(), Job{
		InputPath: input,
		Language:  "pt-BR",
		Voice:     "FEMALE",
		Preview:   true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Segments != 2 {
		t.Errorf("segments = %d, want 2", result.Segments)
	}
	if got := synthesizer.count.Load(); got != 2 {
		t.Errorf("synthesis calls = %d, want 2", got)
	}
	if !result.Preview {
		t.Error("result should be flagged as preview")
	}
}

func TestGenerateSynthesisFailureReportsPosition(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, cfg, "story.txt", "Uma frase. Outra frase.")
	cfg.TTS.MaxChunkChars = 12 // force one sentence per segment

	cause := errors.New("quota exhausted")
	synthesizer := &fakeSynthesizer{fail: func(req synth.Request) error {
		if strings.Contains(req.Text, "Outra") {
			return cause
		}
		return nil
	}}
	generator := newTestGenerator(cfg, synthesizer, &fakeProcessor{})

	_, err := generator.Generate(context.Background(), Job{
		InputPath: input,
		Language:  "pt-BR",
		Voice:     "FEMALE",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var synthErr *synth.Error
	if !errors.As(err, &synthErr) {
		t.Fatalf("expected *synth.Error, got %v", err)
	}
	if synthErr.Sequence != 1 {
		t.Errorf("failed sequence = %d, want 1", synthErr.Sequence)
	}
	if !errors.Is(err, cause) {
		t.Error("cause lost")
	}

	entries, _ := os.ReadDir(cfg.Paths.OutputDir)
	if len(entries) != 0 {
		t.Errorf("output dir should be empty after failure, has %d entries", len(entries))
	}
}

func TestGenerateCancellationLeavesNoOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.TTS.MaxChunkChars = 12
	input := writeInput(t, cfg, "story.txt", "Uma frase. Outra frase. Mais uma. E outra.")

	ctx, cancel := context.WithCancel(context.Background())
	synthesizer := &fakeSynthesizer{delay: func(int) time.Duration { return 50 * time.Millisecond }}
	started := make(chan struct{}, 1)
	synthesizer.fail = func(synth.Request) error {
		select {
		case started <- struct{}{}:
		default:
		}
		return nil
	}
	generator := newTestGenerator(cfg, synthesizer, &fakeProcessor{})

	go func() {
		<-started
		cancel()
	}()

	_, err := generator.Generate(ctx, Job{InputPath: input, Language: "pt-BR", Voice: "FEMALE"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	entries, _ := os.ReadDir(cfg.Paths.OutputDir)
	if len(entries) != 0 {
		t.Error("cancelled run must leave no output files")
	}
}

func TestGenerateEmptyInputFails(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, cfg, "empty.txt", "   \n ")

	generator := newTestGenerator(cfg, &fakeSynthesizer{}, &fakeProcessor{})
	if _, err := generator.Generate(context.Background(), Job{InputPath: input, Language: "pt-BR", Voice: "FEMALE"}); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestGenerateSplitChapters(t *testing.T) {
	cfg := testConfig(t)
	input := writeInput(t, cfg, "story.txt", "Capítulo 1\nPrimeira. Segunda.\nCapítulo 2\nTerceira.")

	generator := newTestGenerator(cfg, &fakeSynthesizer{}, &fakeProcessor{})
	result, err := generator.Generate(context.Background(), Job{
		InputPath:     input,
		Title:         "Meu Livro",
		Language:      "pt-BR",
		Voice:         "FEMALE",
		SplitChapters: true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.OutputFiles) != 2 {
		t.Fatalf("output files = %v", result.OutputFiles)
	}
	for _, path := range result.OutputFiles {
		if !strings.Contains(filepath.Base(path), "meu_livro_ch") {
			t.Errorf("unexpected file name %q", path)
		}
	}
}

func TestLogReporterInterface(t *testing.T) {
	var reporter Reporter = LogReporter{Logger: testLogger()}
	reporter.Start(10)
	reporter.Segment(5, 10)
	reporter.Done()
	reporter = NopReporter{}
	reporter.Start(1)
	reporter.Segment(1, 1)
	reporter.Done()
}
