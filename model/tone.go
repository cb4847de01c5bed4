package model

import (
	"time"
)

type Waveform string

const (
	WaveSine     Waveform = "sine"
	WaveSawtooth Waveform = "sawtooth"
	WaveSquare   Waveform = "square"
	WaveTriangle Waveform = "triangle"
)

// Tone is a short synthetic tone. Delay is relative to the start of its pattern.
type Tone struct {
	Frequency float64       `json:"frequency"`
	Waveform  Waveform      `json:"waveform"`
	Duration  time.Duration `json:"duration"`
	Delay     time.Duration `json:"delay"`
}

var (
	NotificationChirp = []Tone{
		{Frequency: 800, Waveform: WaveSine, Duration: 100 * time.Millisecond},
		{Frequency: 1200, Waveform: WaveSine, Duration: 100 * time.Millisecond, Delay: 100 * time.Millisecond},
	}
	CompletionChime = []Tone{
		{Frequency: 400, Waveform: WaveSine, Duration: 100 * time.Millisecond},
		{Frequency: 600, Waveform: WaveSine, Duration: 100 * time.Millisecond, Delay: 100 * time.Millisecond},
		{Frequency: 1000, Waveform: WaveSine, Duration: 300 * time.Millisecond, Delay: 200 * time.Millisecond},
	}
	AlarmPattern = []Tone{
		{Frequency: 880, Waveform: WaveSawtooth, Duration: 300 * time.Millisecond},
		{Frequency: 440, Waveform: WaveSawtooth, Duration: 300 * time.Millisecond, Delay: 300 * time.Millisecond},
	}
)
