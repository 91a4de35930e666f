package main

import (
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/ivlev/choreo/internal/audio"
	"github.com/ivlev/choreo/internal/config"
	"github.com/ivlev/choreo/internal/editor"
	"github.com/ivlev/choreo/internal/preview"
	"github.com/ivlev/choreo/internal/system"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview [project]",
	Short: "Plays the show on a terminal stage.",
	Long: `Plays the show on a terminal stage with the soundtrack when it is a WAV file.

Keys: space play/pause, left/right seek, home rewind, n/p next/previous frame,
c capture, +/- grid zoom, q quit. Captured frames are saved on quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, ed, path, err := openProject(args)
		if err != nil {
			return err
		}
		ed.ZoomGrid(cfg.GridZoom - editor.MinGridZoom)
		before := len(ed.Frames())

		if music := musicPath(cfg, ed, path); music != "" {
			player, err := audio.NewPlayer(music)
			if err != nil {
				system.Log.Warnf("[!] Playing without sound: %v", err)
			} else {
				defer player.Close()
				ed.SetMusic(filepath.Base(music), player)
			}
		}

		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}
		err = preview.New(screen, ed).Run(cmd.Context())
		screen.Fini()
		if err != nil && cmd.Context().Err() == nil {
			return err
		}

		if n := len(ed.Frames()); n != before {
			if err := ed.Export(path); err != nil {
				return err
			}
			system.Log.Infof("[+++] Saved %d new frames to %s", n-before, path)
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().String(config.KeyAudio, "", "Soundtrack (default is the project's music, then the latest file in input/audio)")
	previewCmd.Flags().Float64(config.KeyGridZoom, 1, "Grid zoom, 1 to 5")
	rootCmd.AddCommand(previewCmd)
}
