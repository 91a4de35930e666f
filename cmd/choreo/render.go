package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/choreo/internal/audio"
	"github.com/ivlev/choreo/internal/config"
	"github.com/ivlev/choreo/internal/engine"
	"github.com/ivlev/choreo/internal/renderer"
	"github.com/ivlev/choreo/internal/source"
	"github.com/ivlev/choreo/internal/system"
	"github.com/ivlev/choreo/internal/timeline"
	"github.com/ivlev/choreo/internal/video"
	"github.com/spf13/cobra"
)

const benchmarkLog = "benchmarks.log"

func addStageFlags(cmd *cobra.Command) {
	cmd.Flags().Int(config.KeyWidth, 1280, "Width")
	cmd.Flags().Int(config.KeyHeight, 720, "Height")
	cmd.Flags().String(config.KeyFormat, "", "Format preset: 16:9, 9:16, 4:5 (overrides width and height)")
	cmd.Flags().String(config.KeyBackdrop, "", "Floor plan under the stage: PDF, image or a directory of images")
	cmd.Flags().Int(config.KeyDPI, 150, "DPI for PDF backdrops")
	cmd.Flags().Bool(config.KeyLabels, true, "Draw performer labels")
	cmd.Flags().Bool(config.KeyTimecode, false, "Stamp a timecode QR code on every frame")
	cmd.Flags().Float64(config.KeyGridZoom, 1, "Grid zoom, 1 to 5")
}

// newStage builds the rasteriser, loading the backdrop when one is set.
func newStage(cfg *config.Config) (*renderer.Stage, error) {
	var bg image.Image
	if cfg.BackdropPath != "" {
		src, err := source.Open(cfg.BackdropPath, cfg.DPI)
		if err != nil {
			return nil, fmt.Errorf("backdrop: %w", err)
		}
		defer src.Close()
		if bg, err = src.Image(); err != nil {
			return nil, fmt.Errorf("backdrop: %w", err)
		}
		system.Log.Infof("[*] Backdrop: %s", cfg.BackdropPath)
	}
	return renderer.NewStage(renderer.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowLabels: cfg.ShowLabels,
		GridZoom:   cfg.GridZoom,
		Timecode:   cfg.Timecode,
	}, bg), nil
}

// outputName builds name_timestamp.ext in dir from a source path.
func outputName(dir, from, ext string, now time.Time) string {
	base := filepath.Base(from)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ReplaceAll(name, " ", "_")
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", name, now.Format("2006-01-02_15-04-05"), ext))
}

var renderCmd = &cobra.Command{
	Use:   "render [project]",
	Short: "Draws the stage at one moment to a PNG.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, _ := cmd.Flags().GetFloat64("at")

		cfg, ed, path, err := openProject(args)
		if err != nil {
			return err
		}
		stage, err := newStage(cfg)
		if err != nil {
			return err
		}

		img := image.NewRGBA(stage.Bounds())
		err = stage.Render(img, renderer.Scene{
			Performers: ed.Store().Performers(),
			Positions:  ed.Store().Evaluate(at),
			Time:       at,
		})
		if err != nil {
			return err
		}

		out := cfg.OutputVideo
		if out == "" {
			if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
				return err
			}
			out = outputName(cfg.OutputDir, path, ".png", time.Now())
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		system.Log.Infof("[+++] %s at %s -> %s", filepath.Base(path), timeline.FormatTime(at), out)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [project]",
	Short: "Exports the show as a rehearsal video with ffmpeg.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		system.InitResourceLimits()

		cfg, ed, path, err := openProject(args)
		if err != nil {
			return err
		}

		cfg.AudioPath = musicPath(cfg, ed, path)
		if cfg.AudioPath != "" {
			system.Log.Infof("[*] Audio: %s", cfg.AudioPath)
			if d, err := audio.Duration(cfg.AudioPath); err != nil {
				system.Log.Warnf("[!] Could not read audio length: %v", err)
			} else if end, ok := timeline.PlaybackEnd(ed.Frames()); ok && d < end {
				system.Log.Warnf("[!] Audio (%s) is shorter than the show (%s)", timeline.FormatTime(d), timeline.FormatTime(end))
			}
		}

		if cfg.OutputVideo == "" {
			if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
				return err
			}
			cfg.OutputVideo = outputName(cfg.OutputDir, path, ".mp4", time.Now())
		}

		if cfg.VideoEncoder == "" {
			cfg.VideoEncoder = system.GetBestH264Encoder()
			if cfg.VideoEncoder != "libx264" {
				system.Log.Infof("[*] Hardware encoder detected: %s", cfg.VideoEncoder)
			}
		}
		if cfg.Quality == 0 {
			cfg.Quality = system.DefaultQuality(cfg.VideoEncoder)
		}

		stage, err := newStage(cfg)
		if err != nil {
			return err
		}
		exporter := engine.NewExporter(cfg, stage, &video.FFmpegEncoder{})
		report, err := exporter.Run(cmd.Context(), ed.Store().Performers(), ed.Frames())
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}

		if cfg.ShowStats {
			fmt.Println(report)
			if err := engine.AppendBenchmark(benchmarkLog, filepath.Base(path), report, time.Now()); err != nil {
				system.Log.Warnf("[!] Could not write %s: %v", benchmarkLog, err)
			}
		}
		system.Log.Infof("[+++] Done: %s", cfg.OutputVideo)
		return nil
	},
}

func init() {
	renderCmd.Flags().Float64("at", 0, "Time in ms")
	renderCmd.Flags().StringP(config.KeyOutput, "o", "", "PNG path (default is generated in the output directory)")
	addStageFlags(renderCmd)

	exportCmd.Flags().StringP(config.KeyOutput, "o", "", "Video path (default is generated in the output directory)")
	exportCmd.Flags().String(config.KeyAudio, "", "Soundtrack (default is the project's music, then the latest file in input/audio)")
	exportCmd.Flags().Int(config.KeyFPS, 30, "FPS")
	exportCmd.Flags().Int(config.KeyWorkers, 0, "Render workers (default is the CPU count)")
	exportCmd.Flags().String(config.KeyEncoder, "", "ffmpeg video encoder (default is the best available H.264)")
	exportCmd.Flags().Int(config.KeyQuality, 0, "Quality (0 is auto; x264: CRF 1-51, VideoToolbox: bitrate = Q*100 kbit/s)")
	exportCmd.Flags().Bool(config.KeyStats, false, "Print the performance report and append it to "+benchmarkLog)
	addStageFlags(exportCmd)

	rootCmd.AddCommand(renderCmd, exportCmd)
}
