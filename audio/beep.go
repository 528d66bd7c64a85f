//go:build !nosound

package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
	"github.com/plus3/canrunner/config"
	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Engine mixes every playing sound into a single output stream.
type Engine struct {
	mu         sync.Mutex
	output     Output
	sampleRate beep.SampleRate
	volume     float64
	mixer      *beep.Mixer
	voices     []*voice
	resolve    func(string) string
	logger     *zap.Logger
	closed     bool
}

type voice struct {
	path   string
	source beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	done   atomic.Bool
}

// New starts the beep engine on the system speaker. A disabled config
// returns a Nop player.
func New(cfg config.AudioConfig, resolve func(string) string, logger *zap.Logger) (Player, error) {
	if !cfg.Enabled {
		logger.Debug("audio disabled")
		return Nop{}, nil
	}
	return NewEngine(cfg, speakerOutput{}, resolve, logger)
}

func NewEngine(cfg config.AudioConfig, output Output, resolve func(string) string, logger *zap.Logger) (*Engine, error) {
	if resolve == nil {
		resolve = func(p string) string { return p }
	}
	e := &Engine{
		output:     output,
		sampleRate: beep.SampleRate(cfg.SampleRate),
		volume:     cfg.Volume,
		mixer:      &beep.Mixer{},
		resolve:    resolve,
		logger:     logger,
	}

	if err := output.Init(e.sampleRate, e.sampleRate.N(cfg.Buffer)); err != nil {
		return nil, fmt.Errorf("audio: init output: %w", err)
	}
	output.Play(e.mixer)

	logger.Info("audio started", zap.Int("sample_rate", cfg.SampleRate), zap.Duration("buffer", cfg.Buffer))
	return e, nil
}

func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		s, format, err = mp3.Decode(f)
	case ".wav":
		s, format, err = wav.Decode(f)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return s, format, nil
}

func (e *Engine) Play(path string, loop bool) error {
	source, format, err := decode(e.resolve(path))
	if err != nil {
		return fmt.Errorf("audio: %s: %w", path, err)
	}

	v := &voice{path: path, source: source}

	var s beep.Streamer = source
	if loop {
		s = beep.Loop(-1, source)
	}
	if format.SampleRate != e.sampleRate {
		s = beep.Resample(4, format.SampleRate, e.sampleRate, s)
	}
	if e.volume != 0 {
		s = &effects.Volume{Streamer: s, Base: 2, Volume: e.volume}
	}
	v.ctrl = &beep.Ctrl{Streamer: beep.Seq(s, beep.Callback(func() { v.done.Store(true) }))}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		source.Close()
		return nil
	}

	e.prune()
	e.voices = append(e.voices, v)

	e.output.Lock()
	e.mixer.Add(v.ctrl)
	e.output.Unlock()

	e.logger.Debug("playing sound", zap.String("path", path), zap.Bool("loop", loop))
	return nil
}

// prune closes the decoders of finished voices. Callers hold e.mu.
func (e *Engine) prune() {
	live := e.voices[:0]
	for _, v := range e.voices {
		if v.done.Load() {
			v.source.Close()
			continue
		}
		live = append(live, v)
	}
	clear(e.voices[len(live):])
	e.voices = live
}

func (e *Engine) StopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopAll()
}

func (e *Engine) stopAll() {
	e.output.Lock()
	for _, v := range e.voices {
		v.ctrl.Paused = true
	}
	e.mixer.Clear()
	e.output.Unlock()

	for _, v := range e.voices {
		v.source.Close()
	}
	e.voices = nil
}

func (e *Engine) IsPlaying(path string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, v := range e.voices {
		if v.path == path && !v.done.Load() {
			return true
		}
	}
	return false
}

// Close stops every sound and releases the output device
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.stopAll()
	e.output.Close()
	e.closed = true
	return nil
}

var _ Player = (*Engine)(nil)
