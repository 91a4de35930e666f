package main

import (
	"fmt"
	"strings"

	"github.com/ivlev/choreo/internal/editor"
	"github.com/ivlev/choreo/internal/formation"
	"github.com/ivlev/choreo/internal/presets"
	"github.com/ivlev/choreo/internal/system"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <file>",
	Short: "Creates an empty project with a single opening frame.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		ed := editor.New()
		if name != "" {
			ed.SetName(name)
		}
		if err := ed.Export(args[0]); err != nil {
			return err
		}
		system.Log.Infof("[+++] Created %s", args[0])
		return nil
	},
}

var addPerformerCmd = &cobra.Command{
	Use:   "add-performer [project]",
	Short: "Adds a performer at centre stage in every frame.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		color, _ := cmd.Flags().GetString("color")
		shapeName, _ := cmd.Flags().GetString("shape")

		shape, err := formation.ParseShape(shapeName)
		if err != nil {
			return err
		}
		_, ed, path, err := openProject(args)
		if err != nil {
			return err
		}
		p, err := ed.Store().AddPerformer(name, color, shape)
		if err != nil {
			return err
		}
		if err := ed.Export(path); err != nil {
			return err
		}
		system.Log.Infof("[+++] Added %s (%s, %s) as %s", p.Name, p.Label, p.Color, p.ID)
		return nil
	},
}

var captureCmd = &cobra.Command{
	Use:   "capture [project]",
	Short: "Captures the stage at a moment as a new frame.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, _ := cmd.Flags().GetFloat64("at")
		name, _ := cmd.Flags().GetString("name")

		_, ed, path, err := openProject(args)
		if err != nil {
			return err
		}
		if err := ed.Seek(at); err != nil {
			return err
		}
		f := ed.Capture()
		if name != "" {
			ed.Store().RenameFrame(f.ID, name)
			f.Name = name
		}
		if err := ed.Export(path); err != nil {
			return err
		}
		system.Log.Infof("[+++] Captured %q at %s (%d on stage)", f.Name, formatMs(f.StartTime), len(f.Positions))
		return nil
	},
}

var presetCmd = &cobra.Command{
	Use:   "preset [project]",
	Short: "Arranges performers of a frame with a preset or another coordinate source.",
	Long: `Arranges the performers of the frame holding --at. Selected performers
(--select) are placed in selection order; without a selection every performer
on stage in that frame is placed in roster order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			for _, name := range presets.Names() {
				fmt.Println(name)
			}
			return nil
		}

		name, _ := cmd.Flags().GetString("preset")
		variant, _ := cmd.Flags().GetString("source")
		scale, _ := cmd.Flags().GetFloat64("scale")
		seed, _ := cmd.Flags().GetInt64("seed")
		at, _ := cmd.Flags().GetFloat64("at")
		selection, _ := cmd.Flags().GetStringSlice("select")

		var src presets.Source
		var err error
		if variant == "scatter" && seed != 0 {
			src = presets.NewScatterSource(seed)
		} else if src, err = presets.NewSource(variant, name, scale); err != nil {
			return err
		}

		_, ed, path, err := openProject(args)
		if err != nil {
			return err
		}
		if err := ed.Seek(at); err != nil {
			return err
		}
		f, ok := ed.Store().Frame(ed.CurrentFrameID())
		if !ok || !f.Holds(at) {
			return fmt.Errorf("no frame holds %s", formatMs(at))
		}
		ed.Store().Select(selection)

		if err := ed.ApplySource(cmd.Context(), src); err != nil {
			return err
		}
		if err := ed.Export(path); err != nil {
			return err
		}
		label := variant
		if variant == "" || variant == "preset" {
			label = name
		}
		system.Log.Infof("[+++] Applied %s to %q", label, f.Name)
		return nil
	},
}

func init() {
	newCmd.Flags().String("name", "", "Project name")

	addPerformerCmd.Flags().String("name", "", "Performer name")
	addPerformerCmd.Flags().String("color", "", "Hex colour (default is the next palette colour)")
	addPerformerCmd.Flags().String("shape", formation.ShapeCircle.String(), "Shape: "+strings.Join(shapeNames(), ", "))
	addPerformerCmd.MarkFlagRequired("name")

	captureCmd.Flags().Float64("at", 0, "Playhead time in ms")
	captureCmd.Flags().String("name", "", "Frame name (default is Formation N)")

	presetCmd.Flags().Bool("list", false, "List preset names and exit")
	presetCmd.Flags().String("preset", "Horizontal Line", "Preset name")
	presetCmd.Flags().String("source", "preset", "Coordinate source: preset, scatter, ai")
	presetCmd.Flags().Float64("scale", presets.DefaultScale, "Preset scale")
	presetCmd.Flags().Int64("seed", 0, "Scatter seed (0 is random)")
	presetCmd.Flags().Float64("at", 0, "Time in ms inside the frame to arrange")
	presetCmd.Flags().StringSlice("select", nil, "Performer ids to arrange, in order")

	rootCmd.AddCommand(newCmd, addPerformerCmd, captureCmd, presetCmd)
}

func shapeNames() []string {
	var names []string
	for _, s := range formation.Shapes() {
		names = append(names, s.String())
	}
	return names
}
