// Package engine exports a show as a rehearsal video: it samples the
// timeline at the output frame rate, renders in parallel and encodes in
// order.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/ivlev/choreo/internal/config"
	"github.com/ivlev/choreo/internal/formation"
	"github.com/ivlev/choreo/internal/renderer"
	"github.com/ivlev/choreo/internal/system"
	"github.com/ivlev/choreo/internal/timeline"
	"github.com/ivlev/choreo/internal/video"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyShow is returned when there is nothing to export.
var ErrEmptyShow = errors.New("show has no frames")

// framesPerWorker sizes a render batch; batches bound memory while keeping
// every worker busy.
const framesPerWorker = 4

type Exporter struct {
	Config  *config.Config
	Stage   *renderer.Stage
	Encoder video.VideoEncoder
}

func NewExporter(cfg *config.Config, stage *renderer.Stage, ve video.VideoEncoder) *Exporter {
	return &Exporter{Config: cfg, Stage: stage, Encoder: ve}
}

// SampleTimes lists the show time of every output frame from 0 through
// end inclusive.
func SampleTimes(end float64, fps int) []float64 {
	if end < 0 || fps <= 0 {
		return nil
	}
	n := int(math.Ceil(end*float64(fps)/1000)) + 1
	times := make([]float64, n)
	for i := range times {
		times[i] = math.Min(float64(i)*1000/float64(fps), end)
	}
	return times
}

// Run renders the whole show, from 0 to its playback end, into the
// configured output.
func (x *Exporter) Run(ctx context.Context, performers []formation.Performer, frames []formation.Frame) (*Report, error) {
	start := time.Now()
	end, ok := timeline.PlaybackEnd(frames)
	if !ok {
		return nil, ErrEmptyShow
	}
	cfg := x.Config
	times := SampleTimes(end, cfg.FPS)
	index := timeline.NewIndex(frames)

	system.Log.Infof("[*] Show: %d performers, %d frames, %s", len(performers), len(frames), timeline.FormatTime(end))
	system.Log.Infof("[*] Output: %dx%d @ %d FPS, %d video frames", cfg.Width, cfg.Height, cfg.FPS, len(times))

	w, err := x.Encoder.Open(ctx, video.Settings{
		Width:     cfg.Width,
		Height:    cfg.Height,
		FPS:       cfg.FPS,
		Encoder:   cfg.VideoEncoder,
		Quality:   cfg.Quality,
		AudioPath: cfg.AudioPath,
		Output:    cfg.OutputVideo,
	})
	if err != nil {
		return nil, err
	}

	report := &Report{Frames: len(times), ShowLength: end, Build: cfg.BuildVersion}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	batch := workers * framesPerWorker

	for lo := 0; lo < len(times); lo += batch {
		hi := lo + batch
		if hi > len(times) {
			hi = len(times)
		}

		renderStart := time.Now()
		imgs, err := x.renderBatch(ctx, index, performers, times[lo:hi], workers)
		report.Render += time.Since(renderStart)
		if err != nil {
			w.Close()
			return nil, err
		}

		encodeStart := time.Now()
		for i, img := range imgs {
			if err == nil {
				if werr := w.WriteFrame(img); werr != nil {
					err = fmt.Errorf("frame %d: %w", lo+i, werr)
				}
			}
			system.PutImage(img)
		}
		report.Encode += time.Since(encodeStart)
		if err != nil {
			w.Close()
			return nil, err
		}
		system.Log.Debugf("[>] Ready: %d/%d", hi, len(times))
	}

	encodeStart := time.Now()
	if err := w.Close(); err != nil {
		return nil, err
	}
	report.Encode += time.Since(encodeStart)
	report.Total = time.Since(start)
	report.Host = system.ReadHostStats()
	return report, nil
}

// renderBatch renders times in parallel and returns images in input order.
// Images come from the shared pool; the caller returns them.
func (x *Exporter) renderBatch(ctx context.Context, index *timeline.Index, performers []formation.Performer, times []float64, workers int) ([]*image.RGBA, error) {
	imgs := make([]*image.RGBA, len(times))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, t := range times {
		i, t := i, t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img := system.GetImage(x.Stage.Bounds())
			scene := renderer.Scene{
				Performers: performers,
				Positions:  index.Evaluate(performers, t),
				Time:       t,
			}
			if err := x.Stage.Render(img, scene); err != nil {
				system.PutImage(img)
				return fmt.Errorf("render %s: %w", timeline.FormatTime(t), err)
			}
			imgs[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, img := range imgs {
			system.PutImage(img)
		}
		return nil, err
	}
	return imgs, nil
}
