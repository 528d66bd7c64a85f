// Package config loads the game configuration from YAML on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/plus3/canrunner/logging"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	AssetsRoot string           `yaml:"assets_root"`
	Window     WindowConfig     `yaml:"window"`
	Log        logging.Config   `yaml:"log"`
	Audio      AudioConfig      `yaml:"audio"`
	Controller ControllerConfig `yaml:"controller"`
	Grid       GridConfig       `yaml:"grid"`
	Levels     []LevelConfig    `yaml:"levels"`
}

type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	TPS        int    `yaml:"tps"`
}

type AudioConfig struct {
	Enabled    bool          `yaml:"enabled"`
	SampleRate int           `yaml:"sample_rate"`
	Buffer     time.Duration `yaml:"buffer"`
	// Volume is a gain in halvings/doublings: -1 is half as loud, 0 unchanged.
	Volume float64   `yaml:"volume"`
	Cues   CueConfig `yaml:"cues"`
}

// CueConfig names the sound file played for each game event, relative to the assets root.
type CueConfig struct {
	Jump        string `yaml:"jump"`
	Land        string `yaml:"land"`
	Slide       string `yaml:"slide"`
	Pickup      string `yaml:"pickup"`
	Hit         string `yaml:"hit"`
	Button      string `yaml:"button"`
	MenuMusic   string `yaml:"menu_music"`
	LevelsMusic string `yaml:"levels_music"`
	PlayMusic   string `yaml:"play_music"`
	GameOver    string `yaml:"game_over"`
}

type ControllerConfig struct {
	JumpSpeed     float32       `yaml:"jump_speed"`
	JumpMaxHeight float32       `yaml:"jump_max_height"`
	GroundHeight  float32       `yaml:"ground_height"`
	RunSpeed      float32       `yaml:"run_speed"`
	LaneHalfWidth float32       `yaml:"lane_half_width"`
	SlideDuration time.Duration `yaml:"slide_duration"`
	PickupRadius  float32       `yaml:"pickup_radius"`
}

// GridConfig describes the occupancy grid used to scatter duplicated scene entities.
type GridConfig struct {
	Rows       int     `yaml:"rows"`
	Columns    int     `yaml:"columns"`
	SliceSize  float32 `yaml:"slice_size"`
	LaneOrigin float32 `yaml:"lane_origin"`
	LaneWidth  float32 `yaml:"lane_width"`
}

type LevelConfig struct {
	ID     int    `yaml:"id"`
	Name   string `yaml:"name"`
	Scene  string `yaml:"scene"`
	Hearts int    `yaml:"hearts"`
	// Reversed levels are run facing the other way, so lateral input and lane bounds flip.
	Reversed bool `yaml:"reversed"`
	// Grounded levels disable jumping and sliding.
	Grounded bool `yaml:"grounded"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		AssetsRoot: "assets",
		Window: WindowConfig{
			Title:  "Can Runner",
			Width:  1280,
			Height: 720,
			TPS:    60,
		},
		Log: logging.DefaultConfig(),
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Buffer:     100 * time.Millisecond,
			Cues: CueConfig{
				Jump:        "audio/jump.mp3",
				Land:        "audio/jumpLand.mp3",
				Slide:       "audio/sliding.mp3",
				Pickup:      "audio/can.mp3",
				Hit:         "audio/hit.mp3",
				Button:      "audio/button.mp3",
				MenuMusic:   "audio/menuState.mp3",
				LevelsMusic: "audio/levelsState.mp3",
				PlayMusic:   "audio/playState.mp3",
				GameOver:    "audio/gameOver.mp3",
			},
		},
		Controller: ControllerConfig{
			JumpSpeed:     6,
			JumpMaxHeight: 4,
			GroundHeight:  1,
			RunSpeed:      20,
			LaneHalfWidth: 5,
			SlideDuration: 50 * time.Second / 60,
			PickupRadius:  1,
		},
		Grid: GridConfig{
			Rows:       400,
			Columns:    7,
			SliceSize:  13,
			LaneOrigin: -7.5,
			LaneWidth:  2.5,
		},
		Levels: []LevelConfig{
			{ID: 1, Name: "Level 1", Scene: "scenes/level1.json", Hearts: 3},
			{ID: 2, Name: "Level 2", Scene: "scenes/level2.json", Hearts: 2},
			{ID: 3, Name: "Level 3", Scene: "scenes/level3.json", Hearts: 1, Reversed: true, Grounded: true},
		},
	}
}

// Load reads path over the defaults. An empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the game cannot run with
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("%w: tps must be positive", ErrInvalid)
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: audio sample rate must be positive", ErrInvalid)
	}

	ctl := c.Controller
	if ctl.JumpSpeed <= 0 {
		return fmt.Errorf("%w: jump speed must be positive", ErrInvalid)
	}
	if ctl.JumpMaxHeight <= ctl.GroundHeight {
		return fmt.Errorf("%w: jump max height %.2f not above ground height %.2f", ErrInvalid, ctl.JumpMaxHeight, ctl.GroundHeight)
	}
	if ctl.SlideDuration <= 0 {
		return fmt.Errorf("%w: slide duration must be positive", ErrInvalid)
	}
	if ctl.LaneHalfWidth <= 0 {
		return fmt.Errorf("%w: lane half width must be positive", ErrInvalid)
	}

	if c.Grid.Rows <= 0 || c.Grid.Columns <= 0 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.Grid.Rows, c.Grid.Columns)
	}

	if len(c.Levels) == 0 {
		return fmt.Errorf("%w: no levels", ErrInvalid)
	}
	seen := make(map[int]bool, len(c.Levels))
	for _, l := range c.Levels {
		if seen[l.ID] {
			return fmt.Errorf("%w: duplicate level id %d", ErrInvalid, l.ID)
		}
		seen[l.ID] = true
		if l.Scene == "" {
			return fmt.Errorf("%w: level %d has no scene", ErrInvalid, l.ID)
		}
		if l.Hearts <= 0 {
			return fmt.Errorf("%w: level %d needs at least one heart", ErrInvalid, l.ID)
		}
	}
	return nil
}

// Level returns the level with the given id
func (c *Config) Level(id int) (LevelConfig, bool) {
	for _, l := range c.Levels {
		if l.ID == id {
			return l, true
		}
	}
	return LevelConfig{}, false
}

// Asset resolves a path relative to the assets root
func (c *Config) Asset(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.AssetsRoot, rel)
}
