package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"planet-render/app"
	"planet-render/config"
	"planet-render/core"
	"planet-render/internal/logger"
	"planet-render/internal/opengl"
	"planet-render/pipeline"
	"planet-render/planets"
	"planet-render/scene"
	"planet-render/settings"
)

type options struct {
	configPath   string
	logLevel     string
	watchShaders bool
}

func main() {
	var opts options
	root := &cobra.Command{
		Use:           "planets",
		Short:         "Real-time Earth, Moon and Sun viewer with HDR bloom",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = opts.logLevel
			}
			if cmd.Flags().Changed("watch-shaders") {
				cfg.Resources.WatchShaders = opts.watchShaders
			}
			if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()
			return run(cmd.Context(), cfg)
		},
	}
	root.Flags().StringVarP(&opts.configPath, "config", "c", "planets.yaml", "path to the YAML configuration file")
	root.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	root.Flags().BoolVar(&opts.watchShaders, "watch-shaders", false, "recompile shaders when their files change")

	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.Log.Error("planets failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "planets:", err)
		os.Exit(1)
	}
}

func initialState(cfg *config.Config) settings.State {
	s := settings.Default()
	s.Bloom = cfg.Pipeline.Bloom
	s.HDR = cfg.Pipeline.HDR
	s.Exposure = cfg.Pipeline.Exposure
	return s
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Log
	log.Info("starting planets", zap.String("resources", cfg.Resources.Root))

	settingsPath := cfg.Resources.SettingsPath()
	// Load falls back to the config defaults when the file is malformed.
	state, err := settings.Load(settingsPath, initialState(cfg))
	if err != nil {
		log.Warn("settings file ignored", zap.String("path", settingsPath), zap.Error(err))
	}

	window, err := core.NewWindow(core.WindowConfig{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		Resizable: true,
		VSync:     cfg.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	dev, err := opengl.NewDevice()
	if err != nil {
		return err
	}
	defer dev.Destroy()

	progs, err := loadPrograms(cfg.Resources)
	if err != nil {
		return err
	}
	defer progs.delete()

	// Handles first, so the size callback can reallocate from the very
	// first event; storage is created by Init below.
	targets := pipeline.NewTargets(dev)
	actx := app.NewContext(dev, targets, progs.blur, progs.composite,
		cfg.Pipeline.BlurPasses, state, window.Width, window.Height)
	defer actx.Destroy()
	window.SetFramebufferSizeCallback(actx.Resize)
	targets.Init(window.Width, window.Height)
	dev.Viewport(window.Width, window.Height)

	renderer := opengl.NewSceneRenderer(progs.scene(), scene.NewSunLight(planets.SunPosition))
	defer renderer.Destroy()
	actx.Scene = renderer

	loadModels(cfg.Resources, renderer)
	if err := loadSkybox(ctx, cfg.Resources, renderer); err != nil {
		log.Warn("skybox disabled", zap.Error(err))
	}

	var watcher *opengl.ShaderWatcher
	if cfg.Resources.WatchShaders {
		watcher, err = opengl.NewShaderWatcher(progs.all()...)
		if err != nil {
			log.Warn("shader hot reload disabled", zap.Error(err))
			watcher = nil
		} else {
			defer watcher.Close()
			log.Info("watching shaders", zap.String("dir", cfg.Resources.Path(cfg.Resources.Shaders)))
		}
	}

	in := newInput(window, actx, cfg.Window.Title)
	in.install()
	logControls()

	for !window.ShouldClose() {
		actx.Tick(float32(core.Time()))
		in.poll()
		if watcher != nil {
			watcher.Poll()
		}
		actx.Render()

		window.SwapBuffers()
		window.PollEvents()
	}

	if err := settings.Save(settingsPath, actx.State); err != nil {
		log.Error("failed to save settings", zap.String("path", settingsPath), zap.Error(err))
	} else {
		log.Info("settings saved", zap.String("path", settingsPath))
	}
	return nil
}

func logControls() {
	logger.Log.Info("controls",
		zap.String("camera", "mouse look, scroll zoom, W/A/S/D move, Q/E roll"),
		zap.String("overlay", "F1 toggles; B bloom, H hdr, [ ] exposure, F follow, P phong, C clear color"),
		zap.String("quit", "Esc"))
}
