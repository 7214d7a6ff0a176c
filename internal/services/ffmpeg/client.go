// Package ffmpeg drives the ffmpeg binary for silence generation,
// concatenation, and mastering of audiobook tracks.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"lectern/internal/services"
)

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// execRunner runs ffmpeg and returns its combined output. ffmpeg writes its
// diagnostics, including the Duration line, to stderr.
func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var combined bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Stdout = &combined
	cmd.Stderr = &combined
	err := cmd.Run()
	return combined.Bytes(), err
}

// Client shells out to ffmpeg.
type Client struct {
	binary string
	run    commandRunner
}

// Option adjusts client construction.
type Option func(*Client)

// WithCommandRunner substitutes the process launcher, primarily for tests.
func WithCommandRunner(run commandRunner) Option {
	return func(c *Client) {
		if run != nil {
			c.run = run
		}
	}
}

// New builds a Client around the given ffmpeg binary name.
func New(binary string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	client := &Client{binary: binary, run: execRunner}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Silence writes an MP3 of silence with the given duration to outPath.
func (c *Client) Silence(ctx context.Context, duration time.Duration, sampleRateHz int, outPath string) error {
	args := []string{
		"-hide_banner", "-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=r=%d:cl=mono", sampleRateHz),
		"-t", formatSeconds(duration),
		"-q:a", "9",
		"-acodec", "libmp3lame",
		outPath,
	}
	if output, err := c.run(ctx, c.binary, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "assembly", "generate silence", tail(output), err)
	}
	return nil
}

// Concat joins the files named in the ffconcat list at listPath into a single
// MP3 at outPath without re-encoding artifacts between entries.
func (c *Client) Concat(ctx context.Context, listPath, outPath string) error {
	args := []string{
		"-hide_banner", "-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-acodec", "libmp3lame",
		outPath,
	}
	if output, err := c.run(ctx, c.binary, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "assembly", "concatenate", tail(output), err)
	}
	return nil
}

// MasterParams describes the mastering pass applied to a concatenated track.
type MasterParams struct {
	TargetLevelDB float64
	FadeIn        time.Duration
	FadeOut       time.Duration
	// Duration is the track length, used to position the fade-out.
	Duration     time.Duration
	Bitrate      string
	SampleRateHz int
	// Tags are written as ID3 metadata, ordered by key for stable commands.
	Tags map[string]string
}

// Master normalizes loudness, applies fades, stamps metadata, and encodes the
// final track from inPath to outPath.
func (c *Client) Master(ctx context.Context, inPath, outPath string, params MasterParams) error {
	filters := []string{
		fmt.Sprintf("loudnorm=I=%s:TP=-1.5:LRA=11", formatDB(params.TargetLevelDB)),
	}
	if params.FadeIn > 0 {
		filters = append(filters, fmt.Sprintf("afade=t=in:st=0:d=%s", formatSeconds(params.FadeIn)))
	}
	if params.FadeOut > 0 && params.Duration > params.FadeOut {
		start := params.Duration - params.FadeOut
		filters = append(filters, fmt.Sprintf("afade=t=out:st=%s:d=%s", formatSeconds(start), formatSeconds(params.FadeOut)))
	}

	args := []string{
		"-hide_banner", "-y",
		"-i", inPath,
		"-af", strings.Join(filters, ","),
	}
	for _, key := range sortedTagKeys(params.Tags) {
		args = append(args, "-metadata", fmt.Sprintf("%s=%s", key, params.Tags[key]))
	}
	if params.SampleRateHz > 0 {
		args = append(args, "-ar", fmt.Sprintf("%d", params.SampleRateHz))
	}
	if params.Bitrate != "" {
		args = append(args, "-b:a", params.Bitrate)
	}
	args = append(args, "-acodec", "libmp3lame", outPath)

	if output, err := c.run(ctx, c.binary, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "assembly", "master", tail(output), err)
	}
	return nil
}

func sortedTagKeys(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func formatSeconds(d time.Duration) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", d.Seconds()), "0"), ".")
}

func formatDB(db float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", db), "0"), ".")
}

// tail keeps the last part of ffmpeg output for error messages; the useful
// diagnostic is almost always at the end.
func tail(output []byte) string {
	text := strings.TrimSpace(string(output))
	const limit = 512
	if len(text) > limit {
		text = "..." + text[len(text)-limit:]
	}
	return text
}
