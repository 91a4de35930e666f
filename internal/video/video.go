// Package video streams rendered stage frames into ffmpeg.
package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"

	"golang.org/x/image/draw"
)

// Settings describe one output file.
type Settings struct {
	Width, Height int
	FPS           int
	Encoder       string // ffmpeg video codec, libx264 when empty
	Quality       int
	AudioPath     string // muxed in when set; the video is cut to the shorter stream
	Output        string
}

// FrameWriter accepts frames in presentation order.
type FrameWriter interface {
	WriteFrame(img image.Image) error
	Close() error
}

type VideoEncoder interface {
	Open(ctx context.Context, s Settings) (FrameWriter, error)
}

type FFmpegEncoder struct{}

func (e *FFmpegEncoder) Open(ctx context.Context, s Settings) (FrameWriter, error) {
	if s.Encoder == "" {
		s.Encoder = "libx264"
	}
	cmd := exec.CommandContext(ctx, "ffmpeg", buildArgs(s)...)
	w := &ffmpegWriter{cmd: cmd, width: s.Width, height: s.Height}
	cmd.Stdout = &w.log
	cmd.Stderr = &w.log

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	w.stdin = stdin
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	return w, nil
}

func buildArgs(s Settings) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", s.Width, s.Height),
		"-framerate", fmt.Sprintf("%d", s.FPS),
		"-i", "-",
	}
	if s.AudioPath != "" {
		args = append(args, "-i", s.AudioPath, "-map", "0:v", "-map", "1:a", "-c:a", "aac", "-shortest")
	}
	args = append(args, "-pix_fmt", "yuv420p", "-c:v", s.Encoder)
	args = append(args, qualityArgs(s.Encoder, s.Quality)...)
	return append(args, s.Output)
}

func qualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox takes a bitrate: 75 -> 7.5 Mbit/s
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default:
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

type ffmpegWriter struct {
	cmd           *exec.Cmd
	stdin         io.WriteCloser
	log           bytes.Buffer
	width, height int
	frames        int
}

func (w *ffmpegWriter) WriteFrame(img image.Image) error {
	if b := img.Bounds(); b.Dx() != w.width || b.Dy() != w.height {
		return fmt.Errorf("frame %d is %dx%d, want %dx%d", w.frames, b.Dx(), b.Dy(), w.width, w.height)
	}
	if err := writeRawRGBA(w.stdin, img); err != nil {
		return fmt.Errorf("write frame %d: %w", w.frames, err)
	}
	w.frames++
	return nil
}

func (w *ffmpegWriter) Close() error {
	w.stdin.Close()
	if err := w.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w\n%s", err, w.log.String())
	}
	return nil
}

// writeRawRGBA writes tightly packed RGBA rows, copying only when img is
// not already laid out that way.
func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}
