package model

import (
	"time"
)

type EventType string

const (
	EventTone              EventType = "tone"
	EventSpeech            EventType = "speech"
	EventSpeak             EventType = "speak"
	EventAudioUnlocked     EventType = "audio.unlocked"
	EventNotification      EventType = "notification"
	EventPermissionRequest EventType = "notification.permission"
	EventTasks             EventType = "tasks"
	EventAlarm             EventType = "alarm"
	EventWeather           EventType = "weather"
	EventWelcome           EventType = "welcome"
)

// Event is an output command for the web client, streamed over SSE.
type Event struct {
	Type EventType `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

// SpeechClip is raw single-channel 16-bit little-endian PCM, base64 encoded.
type SpeechClip struct {
	Audio      string `json:"audio"`
	SampleRate int    `json:"sampleRate"`
	Samples    int    `json:"samples"`
}

// AlarmState is what the blocking alarm overlay renders.
type AlarmState struct {
	Task    *Task `json:"task"`
	Ringing bool  `json:"ringing"`
}

type WelcomeState struct {
	Status          WelcomeStatus `json:"status"`
	AwaitingGesture bool          `json:"awaitingGesture"`
}
