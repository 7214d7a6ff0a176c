package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"lectern/internal/audio"
	"lectern/internal/book"
	"lectern/internal/chunk"
	"lectern/internal/config"
	"lectern/internal/services"
	"lectern/internal/synth"
)

// Job describes one generation run.
type Job struct {
	// ID names the run; a fresh one is assigned when empty.
	ID        string
	InputPath string
	// Title overrides the book title derived from the input file name.
	Title         string
	Language      string
	Voice         string
	Premium       bool
	SplitChapters bool
	// Preview truncates the run to the configured number of segments.
	Preview bool
}

// Result summarizes a completed run.
type Result struct {
	JobID       string
	Title       string
	Chapters    int
	Segments    int
	OutputFiles []string
	Preview     bool
	Elapsed     time.Duration
}

// Generator wires the full pipeline together.
type Generator struct {
	cfg         *config.Config
	logger      *slog.Logger
	reader      *book.Reader
	synthesizer synth.Synthesizer
	assembler   *audio.Assembler
	reporter    Reporter
}

// Option adjusts generator construction.
type Option func(*Generator)

// WithReporter installs a progress reporter.
func WithReporter(reporter Reporter) Option {
	return func(g *Generator) {
		if reporter != nil {
			g.reporter = reporter
		}
	}
}

// NewGenerator builds a Generator from its collaborators.
func NewGenerator(cfg *config.Config, logger *slog.Logger, reader *book.Reader, synthesizer synth.Synthesizer, assembler *audio.Assembler, opts ...Option) *Generator {
	generator := &Generator{
		cfg:         cfg,
		logger:      logger,
		reader:      reader,
		synthesizer: synthesizer,
		assembler:   assembler,
		reporter:    NopReporter{},
	}
	for _, opt := range opts {
		opt(generator)
	}
	return generator
}

// Generate runs a job end to end. On failure or cancellation no file appears
// under the output directory; the partially-built workspace is removed.
func (g *Generator) Generate(ctx context.Context, job Job) (*Result, error) {
	started := time.Now()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	logger := g.logger.With("job_id", job.ID)

	text, err := g.reader.Read(ctx, job.InputPath)
	if err != nil {
		return nil, err
	}

	chapters := book.Segment(text)
	if len(chapters) == 1 && !chapters[0].Titled() {
		logger.Warn("no chapter headings recognized, narrating as a single chapter",
			"input", job.InputPath)
	}

	chunker := &chunk.Chunker{
		MaxChars:      g.cfg.TTS.MaxChunkChars,
		Abbreviations: g.cfg.Text.Abbreviations,
		SentencePause: g.cfg.SentencePause(),
		ChapterPause:  g.cfg.ChapterPause(),
	}
	segments := chunker.Split(chapters)
	if len(segments) == 0 {
		return nil, services.Wrap(services.ErrInput, "pipeline", "chunk", "no narratable text after chunking", nil)
	}

	if job.Preview {
		limit := g.cfg.Preview.Segments
		if len(segments) > limit {
			segments = segments[:limit]
		}
		logger.Info("preview mode", "segments", len(segments))
	}

	lock := flock.New(filepath.Join(g.cfg.Paths.WorkDir, "lectern.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "acquire lock", "", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "acquire lock",
			"another generation is already running", nil)
	}
	defer lock.Unlock()

	workspace := filepath.Join(g.cfg.Paths.WorkDir, "job-"+job.ID)
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return nil, services.Wrap(services.ErrAssembly, "pipeline", "create workspace", workspace, err)
	}
	defer os.RemoveAll(workspace)

	clips, err := g.synthesizeAll(ctx, logger, workspace, job, segments)
	if err != nil {
		return nil, err
	}

	title := job.Title
	if title == "" {
		title = titleFromPath(job.InputPath)
	}

	outputFiles, err := g.assembler.Assemble(ctx, audio.Request{
		Title:         title,
		Clips:         clips,
		ChapterTitles: chapterTitles(chapters),
		SplitChapters: job.SplitChapters,
		WorkDir:       workspace,
		OutputDir:     g.cfg.Paths.OutputDir,
		Params: audio.Params{
			TargetLevelDB: g.cfg.Audio.TargetLevelDB,
			FadeIn:        g.cfg.FadeIn(),
			FadeOut:       g.cfg.FadeOut(),
			Bitrate:       g.cfg.Audio.Bitrate,
			SampleRateHz:  g.cfg.Audio.SampleRateHz,
			Artist:        g.cfg.Metadata.Artist,
			Album:         g.cfg.Metadata.Album,
			Genre:         g.cfg.Metadata.Genre,
		},
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		JobID:       job.ID,
		Title:       title,
		Chapters:    len(chapters),
		Segments:    len(segments),
		OutputFiles: outputFiles,
		Preview:     job.Preview,
		Elapsed:     time.Since(started),
	}
	logger.Info("generation complete",
		"title", title,
		"chapters", result.Chapters,
		"segments", result.Segments,
		"files", len(outputFiles),
		"elapsed", result.Elapsed.Round(time.Second))
	return result, nil
}

// synthesizeAll fans segments out across a bounded worker pool. Clips land in
// sequence-addressed slots so the returned order matches the text order no
// matter which worker finishes first.
func (g *Generator) synthesizeAll(ctx context.Context, logger *slog.Logger, workspace string, job Job, segments []chunk.Segment) ([]audio.ClipRef, error) {
	voice := synth.PickVoice(job.Language, job.Voice, job.Premium)
	if voice == "" {
		voice = job.Voice
	}
	logger.Info("voice selected", "language", job.Language, "voice", voice)

	markup := chunk.Markup{
		SpellNumbers:  g.cfg.Text.SpellNumbers,
		SentenceBreak: g.cfg.SentencePause(),
	}
	useSSML := g.cfg.Text.SSML

	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(g.cfg.TTS.RequestsPerMinute)), 1)
	workers := g.cfg.TTS.Concurrency
	if workers > len(segments) {
		workers = len(segments)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	clips := make([]audio.ClipRef, len(segments))
	work := make(chan int)
	var completed atomic.Int64
	var firstErr error
	var errOnce sync.Once
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	g.reporter.Start(len(segments))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range work {
				if err := g.synthesizeOne(runCtx, workspace, job, voice, markup, useSSML, segments[index], &clips[index]); err != nil {
					fail(err)
					return
				}
				done := completed.Add(1)
				g.reporter.Segment(int(done), len(segments))
			}
		}()
	}

	limited := func(index int) bool {
		if err := limiter.Wait(runCtx); err != nil {
			return false
		}
		select {
		case work <- index:
			return true
		case <-runCtx.Done():
			return false
		}
	}
	for index := range segments {
		if !limited(index) {
			break
		}
	}
	close(work)
	wg.Wait()
	g.reporter.Done()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return clips, nil
}

func (g *Generator) synthesizeOne(ctx context.Context, workspace string, job Job, voice string, markup chunk.Markup, useSSML bool, segment chunk.Segment, slot *audio.ClipRef) error {
	text := segment.Text
	if useSSML {
		text = markup.Wrap(text)
	}

	reqCtx, cancel := context.WithTimeout(ctx, g.cfg.SynthesisTimeout())
	defer cancel()

	clip, err := g.synthesizer.Synthesize(reqCtx, synth.Request{
		Text:         text,
		SSML:         useSSML,
		Language:     job.Language,
		Voice:        voice,
		SpeakingRate: g.cfg.TTS.SpeakingRate,
		Pitch:        g.cfg.TTS.Pitch,
		VolumeGainDB: g.cfg.TTS.VolumeGainDB,
	})
	if err != nil {
		return &synth.Error{Chapter: segment.Chapter, Sequence: segment.Sequence, Err: err}
	}

	path := filepath.Join(workspace, fmt.Sprintf("seg_%05d.mp3", segment.Sequence))
	if err := os.WriteFile(path, clip.Audio, 0o644); err != nil {
		return &synth.Error{Chapter: segment.Chapter, Sequence: segment.Sequence, Err: err}
	}

	*slot = audio.ClipRef{
		Chapter:    segment.Chapter,
		Sequence:   segment.Sequence,
		Path:       path,
		PauseAfter: segment.PauseAfter,
	}
	return nil
}

func chapterTitles(chapters []book.Chapter) map[int]string {
	titles := make(map[int]string, len(chapters))
	for _, chapter := range chapters {
		if chapter.Titled() {
			titles[chapter.Index] = chapter.Title
		}
	}
	return titles
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSpace(stem)
}
