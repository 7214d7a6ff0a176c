package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lectern/internal/fileutil"
	"lectern/internal/services"
	"lectern/internal/services/ffmpeg"
	"lectern/internal/textutil"
)

// ClipRef points at one synthesized clip on disk with its trailing pause.
type ClipRef struct {
	Chapter    int
	Sequence   int
	Path       string
	PauseAfter time.Duration
}

// Params carries the mastering and encode settings for a run.
type Params struct {
	TargetLevelDB float64
	FadeIn        time.Duration
	FadeOut       time.Duration
	Bitrate       string
	SampleRateHz  int
	Artist        string
	Album         string
	Genre         string
}

// Request describes one assembly run.
type Request struct {
	// Title names the book; it becomes the title tag and the file stem.
	Title string
	// Clips must be ordered by sequence.
	Clips []ClipRef
	// ChapterTitles maps chapter index to heading for split output naming.
	ChapterTitles map[int]string
	// SplitChapters produces one file per chapter instead of a single file.
	SplitChapters bool
	WorkDir       string
	OutputDir     string
	Params        Params
}

// Processor is the audio tool surface the assembler drives.
type Processor interface {
	Silence(ctx context.Context, duration time.Duration, sampleRateHz int, outPath string) error
	Concat(ctx context.Context, listPath, outPath string) error
	Master(ctx context.Context, inPath, outPath string, params ffmpeg.MasterParams) error
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
}

// Assembler turns clip sets into finished output files.
type Assembler struct {
	processor Processor
}

// NewAssembler builds an Assembler around an audio processor.
func NewAssembler(processor Processor) *Assembler {
	return &Assembler{processor: processor}
}

type group struct {
	fileName string
	title    string
	track    int
	clips    []ClipRef
}

// Assemble produces the output files for a request and returns their final
// paths. Every file is mastered into the work directory first; placement into
// the output directory happens only after all files succeeded.
func (a *Assembler) Assemble(ctx context.Context, req Request) ([]string, error) {
	if len(req.Clips) == 0 {
		return nil, services.Wrap(services.ErrAssembly, "assembly", "plan", "no clips to assemble", nil)
	}

	groups := planGroups(req)
	silence := newSilenceCache(a.processor, req.WorkDir, req.Params.SampleRateHz)

	type mastered struct {
		workPath  string
		finalPath string
	}
	results := make([]mastered, 0, len(groups))

	for i, grp := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		listPath := filepath.Join(req.WorkDir, fmt.Sprintf("concat_%02d.txt", i))
		if err := writeConcatList(ctx, listPath, grp.clips, silence); err != nil {
			return nil, err
		}

		rawPath := filepath.Join(req.WorkDir, fmt.Sprintf("raw_%02d.mp3", i))
		if err := a.processor.Concat(ctx, listPath, rawPath); err != nil {
			return nil, err
		}

		duration, err := a.processor.ProbeDuration(ctx, rawPath)
		if err != nil {
			return nil, err
		}

		tags := map[string]string{
			"title":  grp.title,
			"artist": req.Params.Artist,
			"album":  req.Params.Album,
			"genre":  req.Params.Genre,
		}
		if len(groups) > 1 {
			tags["track"] = fmt.Sprintf("%d/%d", grp.track, len(groups))
		}

		workPath := filepath.Join(req.WorkDir, grp.fileName)
		masterParams := ffmpeg.MasterParams{
			TargetLevelDB: req.Params.TargetLevelDB,
			FadeIn:        req.Params.FadeIn,
			FadeOut:       req.Params.FadeOut,
			Duration:      duration,
			Bitrate:       req.Params.Bitrate,
			SampleRateHz:  req.Params.SampleRateHz,
			Tags:          tags,
		}
		if err := a.processor.Master(ctx, rawPath, workPath, masterParams); err != nil {
			return nil, err
		}
		results = append(results, mastered{workPath: workPath, finalPath: filepath.Join(req.OutputDir, grp.fileName)})
	}

	finalPaths := make([]string, 0, len(results))
	for _, result := range results {
		if err := fileutil.MoveFile(result.workPath, result.finalPath); err != nil {
			return nil, services.Wrap(services.ErrAssembly, "assembly", "place output", result.finalPath, err)
		}
		finalPaths = append(finalPaths, result.finalPath)
	}
	return finalPaths, nil
}

// planGroups decides how clips map onto output files and what each file is
// called.
func planGroups(req Request) []group {
	stem := textutil.TitleStem(req.Title)
	if stem == "" {
		stem = "audiobook"
	}

	if !req.SplitChapters {
		return []group{{
			fileName: stem + ".mp3",
			title:    req.Title,
			track:    1,
			clips:    req.Clips,
		}}
	}

	var groups []group
	byChapter := map[int]int{}
	for _, clip := range req.Clips {
		idx, ok := byChapter[clip.Chapter]
		if !ok {
			idx = len(groups)
			byChapter[clip.Chapter] = idx
			groups = append(groups, group{track: idx + 1})
		}
		groups[idx].clips = append(groups[idx].clips, clip)
	}

	for i := range groups {
		chapter := groups[i].clips[0].Chapter
		title := strings.TrimSpace(req.ChapterTitles[chapter])
		name := fmt.Sprintf("%s_ch%02d", stem, chapter)
		if title != "" {
			groups[i].title = title
			name += "_" + textutil.TitleStem(title)
		} else {
			groups[i].title = fmt.Sprintf("%s (%d)", req.Title, i+1)
		}
		groups[i].fileName = name + ".mp3"
	}
	return groups
}

// writeConcatList emits an ffconcat list interleaving clips with their pause
// silence. The final clip of a file gets no trailing pause; the fade-out
// covers the ending instead.
func writeConcatList(ctx context.Context, path string, clips []ClipRef, silence *silenceCache) error {
	var list strings.Builder
	list.WriteString("ffconcat version 1.0\n")
	for i, clip := range clips {
		list.WriteString("file ")
		list.WriteString(quoteConcatPath(clip.Path))
		list.WriteByte('\n')
		if i == len(clips)-1 || clip.PauseAfter <= 0 {
			continue
		}
		silencePath, err := silence.pathFor(ctx, clip.PauseAfter)
		if err != nil {
			return err
		}
		list.WriteString("file ")
		list.WriteString(quoteConcatPath(silencePath))
		list.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(list.String()), 0o644); err != nil {
		return services.Wrap(services.ErrAssembly, "assembly", "write concat list", path, err)
	}
	return nil
}

func quoteConcatPath(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}

// silenceCache generates each distinct pause length once per run.
type silenceCache struct {
	processor    Processor
	workDir      string
	sampleRateHz int
	paths        map[time.Duration]string
}

func newSilenceCache(processor Processor, workDir string, sampleRateHz int) *silenceCache {
	return &silenceCache{
		processor:    processor,
		workDir:      workDir,
		sampleRateHz: sampleRateHz,
		paths:        make(map[time.Duration]string),
	}
}

func (s *silenceCache) pathFor(ctx context.Context, duration time.Duration) (string, error) {
	if path, ok := s.paths[duration]; ok {
		return path, nil
	}
	path := filepath.Join(s.workDir, fmt.Sprintf("silence_%dms.mp3", duration.Milliseconds()))
	if err := s.processor.Silence(ctx, duration, s.sampleRateHz, path); err != nil {
		return "", err
	}
	s.paths[duration] = path
	return path, nil
}
