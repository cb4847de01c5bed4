package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"myassistant/model"

	"go.uber.org/zap"
)

const SpeechSampleRate = 24000

var ErrInvalidPCM = errors.New("invalid pcm payload")

type Publisher interface {
	Publish(typ model.EventType, data any)
}

// AudioHub is the single audio output of the process. It starts suspended
// and stays that way until a user gesture unlocks it.
type AudioHub struct {
	suspended atomic.Bool
	publisher Publisher
	logger    *zap.Logger

	mu       sync.Mutex
	lastClip []byte
}

func NewAudioHub(publisher Publisher, logger *zap.Logger) *AudioHub {
	h := &AudioHub{publisher: publisher, logger: logger.Named("audio")}
	h.suspended.Store(true)
	return h
}

func (h *AudioHub) Suspended() bool {
	return h.suspended.Load()
}

func (h *AudioHub) Unlock() {
	if h.suspended.CompareAndSwap(true, false) {
		h.logger.Info("audio output unlocked")
		h.publisher.Publish(model.EventAudioUnlocked, nil)
	}
}

func (h *AudioHub) PlayTones(tones []model.Tone) {
	if len(tones) == 0 {
		return
	}
	if h.Suspended() {
		h.logger.Debug("playing tones while suspended", zap.Int("tones", len(tones)))
	}
	h.publisher.Publish(model.EventTone, tones)
}

// PlayPCM sends a speech clip to the client and returns once the clip has had
// time to finish, or ctx is done.
func (h *AudioHub) PlayPCM(ctx context.Context, b64 string) error {
	pcm, err := DecodePCM(b64)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.lastClip = pcm
	h.mu.Unlock()

	samples := len(pcm) / 2
	h.publisher.Publish(model.EventSpeech, model.SpeechClip{
		Audio:      b64,
		SampleRate: SpeechSampleRate,
		Samples:    samples,
	})

	timer := time.NewTimer(PCMDuration(samples))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Speak asks the client to synthesize text locally.
func (h *AudioHub) Speak(text string) {
	if text == "" {
		return
	}
	h.publisher.Publish(model.EventSpeak, text)
}

// LastSpeechWAV returns the most recent clip wrapped in a WAV container.
func (h *AudioHub) LastSpeechWAV() ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.lastClip) == 0 {
		return nil, false
	}
	return EncodeWAV(h.lastClip, SpeechSampleRate), true
}

func DecodePCM(b64 string) ([]byte, error) {
	pcm, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPCM, err)
	}
	if len(pcm) == 0 || len(pcm)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not whole 16-bit samples", ErrInvalidPCM, len(pcm))
	}
	return pcm, nil
}

func PCMDuration(samples int) time.Duration {
	return time.Duration(samples) * time.Second / SpeechSampleRate
}
