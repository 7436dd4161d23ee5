package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/your-org/historyshorts/pkg/config"
)

// FFmpeg shells out to the ffmpeg and ffprobe binaries for encoding and
// probing. Both must be on PATH or configured with absolute paths.
type FFmpeg struct {
	bin      string
	probeBin string
}

// NewFFmpeg constructs an FFmpeg runner from video configuration.
func NewFFmpeg(cfg config.VideoConfig) *FFmpeg {
	return &FFmpeg{bin: cfg.FFmpegBin, probeBin: cfg.FFprobeBin}
}

// Run executes ffmpeg with the given arguments, returning combined output in
// the error on failure.
func (f *FFmpeg) Run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, f.bin, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %v: %w, output: %s", args, err, output)
	}
	return nil
}

// ProbeDuration returns the container duration of a media file in seconds.
func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, f.probeBin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w, stderr: %s", path, err, stderr.String())
	}

	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &probe); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}
	if probe.Format.Duration == "" {
		return 0, fmt.Errorf("ffprobe returned no duration for %s", path)
	}

	seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", probe.Format.Duration, err)
	}
	return seconds, nil
}

// slideArgs builds the ffmpeg arguments for rendering a single slide clip:
// the background image scaled and cropped to the target frame with the
// wrapped caption drawn over a translucent band.
func slideArgs(background, textFile, output string, duration float64, cfg config.VideoConfig) []string {
	filter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,"+
			"drawtext=textfile=%s:fontcolor=white:fontsize=%d:box=1:boxcolor=black@0.8:boxborderw=24:x=(w-text_w)/2:y=(h-text_h)/2",
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, textFile, cfg.FontSize,
	)

	return []string{
		"-y",
		"-loop", "1",
		"-i", background,
		"-t", fmt.Sprintf("%.3f", duration),
		"-vf", filter,
		"-r", strconv.Itoa(cfg.FPS),
		"-c:v", "libx264",
		"-preset", cfg.Preset,
		"-pix_fmt", "yuv420p",
		output,
	}
}

// concatArgs builds the ffmpeg arguments for concatenating the slide clips
// and muxing in the narration track.
func concatArgs(listFile, audio, output string) []string {
	return []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-i", audio,
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		output,
	}
}
