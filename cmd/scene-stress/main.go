// Command scene-stress loads a level headless over and over and plays it with
// scripted input, then prints timing and memory figures.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/canrunner/config"
	"github.com/plus3/canrunner/input"
	"github.com/plus3/canrunner/logging"
	"github.com/plus3/canrunner/states"
	"go.uber.org/zap"
)

// Frames a single run may last before it is abandoned
const maxFrames = 60 * 60

func main() {
	configPath := flag.String("config", "", "YAML config file; defaults are used when empty.")
	level := flag.Int("level", 1, "Level to play.")
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	seed := flag.Uint64("seed", 1, "Seed for the scripted input.")
	profileMode := flag.String("profile", "", "Write a cpu or mem profile to the working directory.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(logging.WithEnv(cfg.Log))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	lvl, ok := cfg.Level(*level)
	if !ok {
		logger.Fatal("unknown level", zap.Int("level", *level))
	}

	report := &Report{
		Duration:       *duration,
		Level:          lvl.ID,
		Scene:          cfg.Asset(lvl.Scene),
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("running scene stress test", zap.Duration("duration", *duration), zap.Int("level", lvl.ID))
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	rng := rand.New(rand.NewPCG(*seed, *seed))
	start := time.Now()
	for ctx.Err() == nil {
		if err := run(ctx, cfg, lvl.ID, rng, report, logger); err != nil {
			logger.Fatal("run failed", zap.Error(err))
		}
	}

	report.TotalTime = time.Since(start)
	report.LoadTime.Finalize()
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	fmt.Println("\n--- Scene Stress Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")
}

// run plays one level from load to game over or until maxFrames elapse
func run(ctx context.Context, cfg *config.Config, level int, rng *rand.Rand, report *Report, logger *zap.Logger) error {
	keys := input.NewFake()
	app := states.NewApplication(cfg,
		states.WithHeadless(),
		states.WithInput(keys),
		states.WithLogger(logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))))
	defer app.Close()

	if err := app.StartLevel(level); err != nil {
		return err
	}
	loadStart := time.Now()
	if err := app.Update(); err != nil {
		return err
	}
	report.LoadTime.Add(time.Since(loadStart))
	report.Runs++
	if play, ok := app.CurrentState().(*states.PlayState); ok {
		report.Entities = play.World().Len()
	}

	keys.Press(input.KeyEnter)
	for frame := 0; frame < maxFrames && ctx.Err() == nil; frame++ {
		script(keys, rng)

		updateStart := time.Now()
		if err := app.Update(); err != nil {
			return err
		}
		report.UpdateTime.Add(time.Since(updateStart))
		report.TotalUpdates++
		keys.Step()

		if app.Current() != states.StatePlay {
			break
		}
	}

	session := app.Session()
	report.Cans += session.Cans
	if session.Over {
		report.GameOvers++
	}
	return nil
}

var scripted = []input.Key{input.KeyA, input.KeyD, input.KeySpace, input.KeyDown}

// script holds one random move key at a time, changing it now and then
func script(keys *input.Fake, rng *rand.Rand) {
	if rng.IntN(20) != 0 {
		return
	}
	keys.Release(scripted...)
	keys.Press(scripted[rng.IntN(len(scripted))])
}
