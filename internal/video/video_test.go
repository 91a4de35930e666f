package video

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name string
		s    Settings
		want []string
		deny []string
	}{
		{
			name: "x264 no audio",
			s:    Settings{Width: 1280, Height: 720, FPS: 30, Encoder: "libx264", Quality: 23, Output: "out.mp4"},
			want: []string{"-video_size 1280x720", "-framerate 30", "-c:v libx264", "-crf 23 -preset medium", "out.mp4"},
			deny: []string{"-shortest", "aac"},
		},
		{
			name: "nvenc with audio",
			s:    Settings{Width: 720, Height: 1280, FPS: 25, Encoder: "h264_nvenc", Quality: 28, AudioPath: "a.wav", Output: "o.mp4"},
			want: []string{"-i a.wav", "-map 0:v -map 1:a", "-shortest", "-cq 28"},
		},
		{
			name: "videotoolbox bitrate",
			s:    Settings{Width: 2, Height: 2, FPS: 1, Encoder: "h264_videotoolbox", Quality: 75, Output: "o.mp4"},
			want: []string{"-b:v 7500k"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := strings.Join(buildArgs(tt.s), " ")
			t.Logf("ffmpeg %s", args)
			for _, w := range tt.want {
				if !strings.Contains(args, w) {
					t.Errorf("missing %q", w)
				}
			}
			for _, d := range tt.deny {
				if strings.Contains(args, d) {
					t.Errorf("unexpected %q", d)
				}
			}
			if !strings.HasSuffix(args, tt.s.Output) {
				t.Error("output must be the last argument")
			}
		})
	}
}

func TestWriteRawRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(1, 0, color.RGBA{R: 1, G: 2, B: 3, A: 4})

	var buf bytes.Buffer
	if err := writeRawRGBA(&buf, img); err != nil {
		t.Fatal(err)
	}
	if want := []byte{0, 0, 0, 0, 1, 2, 3, 4}; !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("raw = %v, want %v", buf.Bytes(), want)
	}

	// a sub-image has a wider stride and must be repacked
	big := image.NewRGBA(image.Rect(0, 0, 4, 4))
	big.SetRGBA(2, 2, color.RGBA{R: 9, A: 255})
	buf.Reset()
	if err := writeRawRGBA(&buf, big.SubImage(image.Rect(2, 2, 3, 3))); err != nil {
		t.Fatal(err)
	}
	if want := []byte{9, 0, 0, 255}; !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("sub-image raw = %v", buf.Bytes())
	}
}
