package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/choreo/internal/config"
	"github.com/ivlev/choreo/internal/editor"
	"github.com/ivlev/choreo/internal/system"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "choreo",
	Short: "Formation choreography editor.",
	Long: `choreo keeps a show of performers and timed formations in a JSON or YAML
project file. It evaluates the stage at any moment, edits frames and presets,
previews playback in the terminal and exports a rehearsal video.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		return system.SetLogLevel(viper.GetString(config.KeyLogLevel))
	},
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		system.Log.Errorf("[-] %v", err)
		return 1
	}
	return 0
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.choreo.yaml)")
	rootCmd.PersistentFlags().StringP(config.KeyLogLevel, "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringP(config.KeyProject, "p", "", "Project file (default is the most recent project in the input directory)")
	rootCmd.PersistentFlags().String(config.KeyInputDir, "input", "Where projects, audio and backdrops are looked up when not given")
	rootCmd.PersistentFlags().String(config.KeyOutputDir, "output", "Where exported videos go")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(config.ConfigName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			system.Log.Warnf("[!] Config %s: %v", viper.ConfigFileUsed(), err)
		}
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	cfg.BuildVersion = BuildVersion
	return cfg, nil
}

// resolveProject picks the project from the argument, the --project
// setting, or the most recent project in the input directory.
func resolveProject(cfg *config.Config, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg.ProjectPath != "" {
		return cfg.ProjectPath, nil
	}
	latest, err := system.FindLatestProject(cfg.InputDir)
	if err != nil {
		return "", fmt.Errorf("%w; pass a project file or put one in %s", err, cfg.InputDir)
	}
	system.Log.Infof("[*] Project: %s", latest)
	return latest, nil
}

func openEditor(path string) (*editor.Editor, error) {
	ed := editor.New()
	if err := ed.Import(path); err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return ed, nil
}

// openProject resolves and loads the project named by args.
func openProject(args []string) (*config.Config, *editor.Editor, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, "", err
	}
	path, err := resolveProject(cfg, args)
	if err != nil {
		return nil, nil, "", err
	}
	ed, err := openEditor(path)
	if err != nil {
		return nil, nil, "", err
	}
	return cfg, ed, path, nil
}

// musicPath finds the soundtrack: the --audio setting, the project's music
// next to the project file, or the latest audio in the input directory.
func musicPath(cfg *config.Config, ed *editor.Editor, projectPath string) string {
	if cfg.AudioPath != "" {
		return cfg.AudioPath
	}
	if name := ed.Meta().MusicName; name != nil && *name != "" {
		p := filepath.Join(filepath.Dir(projectPath), *name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		system.Log.Warnf("[!] Music %q not found next to the project", *name)
	}
	latest, err := system.FindLatestAudio(filepath.Join(cfg.InputDir, "audio"))
	if err != nil {
		return ""
	}
	return latest
}
