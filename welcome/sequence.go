// Package welcome runs the once-per-session startup briefing: a bounded race
// for weather, a generated briefing, synthesized speech, and playback that
// respects the audio autoplay lock.
package welcome

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"myassistant/model"

	"go.uber.org/zap"
)

type WeatherSource interface {
	// Current returns nil when weather is unavailable.
	Current(ctx context.Context) *model.WeatherSnapshot
}

type Briefer interface {
	WelcomeBriefing(ctx context.Context, briefingContext string) string
	GenerateSpeech(ctx context.Context, text string) string
}

type AudioOutput interface {
	Suspended() bool
	Unlock()
	PlayPCM(ctx context.Context, b64 string) error
	Speak(text string)
}

type Options struct {
	RaceTimeout time.Duration
	Currency    string
}

type Sequencer struct {
	weather WeatherSource
	briefer Briefer
	audio   AudioOutput
	opts    Options
	now     func() time.Time
	logger  *zap.Logger

	started atomic.Bool
	wg      sync.WaitGroup
	pending Pending[string]

	mu       sync.Mutex
	state    model.WelcomeState
	onChange func(model.WelcomeState)
}

func NewSequencer(weather WeatherSource, briefer Briefer, audio AudioOutput, opts Options, logger *zap.Logger) *Sequencer {
	return &Sequencer{
		weather: weather,
		briefer: briefer,
		audio:   audio,
		opts:    opts,
		now:     time.Now,
		logger:  logger.Named("welcome"),
		state:   model.WelcomeState{Status: model.WelcomeIdle},
	}
}

// OnChange registers fn for status transitions. Must be called before Run.
func (s *Sequencer) OnChange(fn func(model.WelcomeState)) {
	s.onChange = fn
}

func (s *Sequencer) State() model.WelcomeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Sequencer) setStateLocked(status model.WelcomeStatus, awaiting bool) model.WelcomeState {
	s.state = model.WelcomeState{Status: status, AwaitingGesture: awaiting}
	return s.state
}

func (s *Sequencer) setState(status model.WelcomeStatus, awaiting bool) {
	s.mu.Lock()
	st := s.setStateLocked(status, awaiting)
	s.mu.Unlock()
	s.emit(st)
}

func (s *Sequencer) emit(st model.WelcomeState) {
	if s.onChange != nil {
		s.onChange(st)
	}
}

// Run executes the startup sequence. Only the first call in the lifetime of
// the Sequencer does anything; later calls return false.
func (s *Sequencer) Run(ctx context.Context, snap Snapshot) bool {
	if !s.started.CompareAndSwap(false, true) {
		return false
	}

	if !snap.Settings.EnableWelcome {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.weather.Current(ctx)
		}()
		return true
	}

	s.setState(model.WelcomeInitializing, false)

	weatherCh := make(chan *model.WeatherSnapshot, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// A result that loses the race still lands in the shared weather
		// state through the source.
		weatherCh <- s.weather.Current(ctx)
	}()

	initial := s.raceWeather(ctx, weatherCh)

	bc := NewBriefingContext(snap, initial, s.now(), s.opts.Currency)
	s.logger.Debug("briefing context", zap.Bool("weather", initial != nil), zap.Int("pending", bc.Pending))

	text := s.briefer.WelcomeBriefing(ctx, bc.String())
	if text == "" {
		s.logger.Info("no briefing generated, skipping welcome")
		s.setState(model.WelcomeIdle, false)
		return true
	}

	audio := s.briefer.GenerateSpeech(ctx, text)
	if audio == "" {
		s.logger.Info("speech unavailable, using local synthesis")
		s.audio.Speak(text)
		s.setState(model.WelcomeIdle, false)
		return true
	}

	s.mu.Lock()
	if s.audio.Suspended() {
		s.pending.Set(audio)
		st := s.setStateLocked(model.WelcomeInitializing, true)
		s.mu.Unlock()
		s.logger.Info("audio locked, holding welcome until user gesture")
		s.emit(st)
		return true
	}
	s.mu.Unlock()

	s.play(ctx, audio)
	return true
}

func (s *Sequencer) raceWeather(ctx context.Context, weatherCh <-chan *model.WeatherSnapshot) *model.WeatherSnapshot {
	timer := time.NewTimer(s.opts.RaceTimeout)
	defer timer.Stop()
	select {
	case w := <-weatherCh:
		return w
	case <-timer.C:
		s.logger.Debug("weather lost the race", zap.Duration("timeout", s.opts.RaceTimeout))
		return nil
	case <-ctx.Done():
		return nil
	}
}

func (s *Sequencer) play(ctx context.Context, audio string) {
	s.setState(model.WelcomeSpeaking, false)
	if err := s.audio.PlayPCM(ctx, audio); err != nil {
		s.logger.Warn("welcome playback failed", zap.Error(err))
	}
	s.setState(model.WelcomeIdle, false)
}

// Unlock handles the user's tap: unlock audio output, then play any held
// welcome clip. It reports whether a clip was played.
func (s *Sequencer) Unlock(ctx context.Context) bool {
	s.mu.Lock()
	s.audio.Unlock()
	audio, ok := s.pending.Take()
	var st model.WelcomeState
	if !ok {
		st = s.setStateLocked(s.state.Status, false)
	}
	s.mu.Unlock()

	if !ok {
		s.emit(st)
		return false
	}
	s.play(ctx, audio)
	return true
}

// Queued reports whether a welcome clip is waiting for the user gesture.
func (s *Sequencer) Queued() bool {
	return s.pending.Ready()
}

// Start runs the sequence in the background.
func (s *Sequencer) Start(ctx context.Context, snap Snapshot) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run(ctx, snap)
	}()
}

// UnlockAsync runs Unlock in the background. Wait covers it.
func (s *Sequencer) UnlockAsync(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Unlock(ctx)
	}()
}

// Wait blocks until background work started by Start, UnlockAsync and Run has
// finished.
func (s *Sequencer) Wait() {
	s.wg.Wait()
}
