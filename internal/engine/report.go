package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/ivlev/choreo/internal/system"
)

// Report times one export.
type Report struct {
	Build      string
	Frames     int
	ShowLength float64 // ms
	Render     time.Duration
	Encode     time.Duration
	Total      time.Duration
	Host       system.HostStats
}

// FPS is the effective export speed in frames per wall-clock second.
func (r *Report) FPS() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Total.Seconds()
}

func (r *Report) String() string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Rendering (CPU): %.2fs\n"+
			"Encoding: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"Host: %s\n"+
			"----------------------------\n",
		r.Build, r.Total.Seconds(), r.Render.Seconds(), r.Encode.Seconds(), r.FPS(), r.Host,
	)
}

// AppendBenchmark adds a one-line summary of r to the log at path.
func AppendBenchmark(path, show string, r *Report, now time.Time) error {
	entry := fmt.Sprintf("[%s] Build: %s | Show: %s | Frames: %d | Total: %.2fs | Render: %.2fs | Encode: %.2fs | FPS: %.2f\n",
		now.Format("2006-01-02 15:04:05"),
		r.Build,
		show,
		r.Frames,
		r.Total.Seconds(),
		r.Render.Seconds(),
		r.Encode.Seconds(),
		r.FPS(),
	)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(entry)
	return err
}
