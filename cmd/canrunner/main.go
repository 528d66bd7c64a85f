// Command canrunner is the game.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/profile"
	"github.com/plus3/canrunner/audio"
	"github.com/plus3/canrunner/config"
	"github.com/plus3/canrunner/ecs"
	"github.com/plus3/canrunner/ecs/debugui"
	debugui_ebiten "github.com/plus3/canrunner/ecs/debugui/ebiten"
	inputebiten "github.com/plus3/canrunner/input/ebiten"
	"github.com/plus3/canrunner/logging"
	"github.com/plus3/canrunner/states"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "YAML config file; defaults are used when empty.")
	level := flag.Int("level", 0, "Start this level directly instead of the menu.")
	debug := flag.Bool("debug", false, "Show the world inspector and log at debug level.")
	profileMode := flag.String("profile", "", "Write a cpu or mem profile to the working directory.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	logger, err := logging.New(logging.WithEnv(cfg.Log))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		logger.Fatal("unknown profile mode", zap.String("profile", *profileMode))
	}

	if err := run(cfg, *level, *debug, logger); err != nil {
		logger.Error("game ended with an error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, level int, debug bool, logger *zap.Logger) error {
	player, err := audio.New(cfg.Audio, cfg.Asset, logger)
	if err != nil {
		logger.Warn("audio unavailable, continuing without sound", zap.Error(err))
		player = audio.Nop{}
	}
	defer player.Close()

	opts := []states.Option{
		states.WithLogger(logger),
		states.WithInput(inputebiten.New()),
		states.WithAudio(player),
	}
	if debug {
		overlay := debugui_ebiten.NewOverlay(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
		opts = append(opts, states.WithOverlay(overlay, func(world *ecs.World, scheduler *ecs.Scheduler) ecs.System {
			return debugui.NewDebugSystem(world, scheduler)
		}))
	} else {
		ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
		ebiten.SetWindowTitle(cfg.Window.Title)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)
	ebiten.SetTPS(cfg.Window.TPS)

	app := states.NewApplication(cfg, opts...)
	defer app.Close()

	if level > 0 {
		if err := app.StartLevel(level); err != nil {
			return err
		}
	} else {
		app.ChangeState(states.StateMenu)
	}

	logger.Info("starting", zap.String("title", cfg.Window.Title), zap.Bool("debug", debug))
	if err := ebiten.RunGame(app); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
