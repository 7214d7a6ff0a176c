package ffmpeg

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"lectern/internal/services"
)

var durationRe = regexp.MustCompile(`Duration:\s*(\d+):(\d+):(\d+)\.(\d+)`)

// ProbeDuration reads the duration of an audio file from ffmpeg's own
// diagnostics. Running with no output file makes ffmpeg print the input
// summary and exit non-zero, which is expected.
func (c *Client) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	output, _ := c.run(ctx, c.binary, "-hide_banner", "-i", path)
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	duration, ok := parseDuration(output)
	if !ok {
		return 0, services.Wrap(services.ErrExternalTool, "assembly", "probe duration",
			fmt.Sprintf("no duration reported for %s", path), nil)
	}
	return duration, nil
}

func parseDuration(output []byte) (time.Duration, bool) {
	groups := durationRe.FindSubmatch(output)
	if groups == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(string(groups[1]))
	minutes, _ := strconv.Atoi(string(groups[2]))
	seconds, _ := strconv.Atoi(string(groups[3]))
	centis, _ := strconv.Atoi(string(groups[4]))

	duration := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second
	// ffmpeg prints fractional seconds with two digits.
	switch len(groups[4]) {
	case 1:
		duration += time.Duration(centis) * 100 * time.Millisecond
	case 2:
		duration += time.Duration(centis) * 10 * time.Millisecond
	default:
		duration += time.Duration(centis) * time.Millisecond
	}
	return duration, true
}
