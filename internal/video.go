package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// Thumbnails are captured 5 seconds in, sized by source orientation.
const thumbnailOffsetSeconds = 5

// Thumbnailer shells out to ffprobe/ffmpeg. The binaries' paths come from
// the environment so deployments can pin specific builds.
type Thumbnailer struct {
	FFmpegPath  string
	FFprobePath string
}

func NewThumbnailer(cfg Config) *Thumbnailer {
	return &Thumbnailer{FFmpegPath: cfg.FFmpegPath, FFprobePath: cfg.FFprobePath}
}

// thumbnailSize picks 640x360 for landscape sources and 360x640 for portrait.
func thumbnailSize(width, height int) (int, int) {
	if height > width {
		return 360, 640
	}
	return 640, 360
}

type ffprobeOutput struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
}

// ProbeDimensions returns the pixel width and height of the first video
// stream of the file at path.
func (t *Thumbnailer) ProbeDimensions(ctx context.Context, path string) (int, int, error) {
	out, err := exec.CommandContext(ctx, t.FFprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "json",
		path,
	).Output()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return 0, 0, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 || probe.Streams[0].Width == 0 || probe.Streams[0].Height == 0 {
		return 0, 0, fmt.Errorf("no video stream in %s", path)
	}
	return probe.Streams[0].Width, probe.Streams[0].Height, nil
}

// CaptureThumbnail probes the video at src and writes a single JPEG frame to
// a temp file, returning its path. The caller removes the file when done.
func (t *Thumbnailer) CaptureThumbnail(ctx context.Context, src string) (string, error) {
	width, height, err := t.ProbeDimensions(ctx, src)
	if err != nil {
		return "", err
	}
	w, h := thumbnailSize(width, height)

	dst := filepath.Join(os.TempDir(), "thumb-"+uuid.NewString()+".jpg")
	cmd := exec.CommandContext(ctx, t.FFmpegPath,
		"-y",
		"-ss", fmt.Sprintf("%d", thumbnailOffsetSeconds),
		"-i", src,
		"-vframes", "1",
		"-vf", fmt.Sprintf("scale=%d:%d", w, h),
		dst,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg screenshot %s: %w: %s", src, err, out)
	}
	return dst, nil
}
