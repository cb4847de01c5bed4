package services

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"testing"
	"time"

	"myassistant/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAudioHubStartsSuspended(t *testing.T) {
	pub := &recordingPublisher{}
	hub := NewAudioHub(pub, zap.NewNop())
	assert.True(t, hub.Suspended())

	hub.Unlock()
	hub.Unlock()
	assert.False(t, hub.Suspended())
	assert.Len(t, pub.ofType(model.EventAudioUnlocked), 1)
}

func TestAudioHubPlayPCM(t *testing.T) {
	pub := &recordingPublisher{}
	hub := NewAudioHub(pub, zap.NewNop())

	// 240 samples is 10ms at 24kHz.
	pcm := make([]byte, 480)
	start := time.Now()
	require.NoError(t, hub.PlayPCM(context.Background(), base64.StdEncoding.EncodeToString(pcm)))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	clips := pub.ofType(model.EventSpeech)
	require.Len(t, clips, 1)
	clip := clips[0].Data.(model.SpeechClip)
	assert.Equal(t, 240, clip.Samples)
	assert.Equal(t, SpeechSampleRate, clip.SampleRate)

	wav, ok := hub.LastSpeechWAV()
	require.True(t, ok)
	assert.Len(t, wav, 44+480)
}

func TestAudioHubRejectsBadPCM(t *testing.T) {
	hub := NewAudioHub(&recordingPublisher{}, zap.NewNop())

	err := hub.PlayPCM(context.Background(), "not base64!")
	assert.ErrorIs(t, err, ErrInvalidPCM)

	err = hub.PlayPCM(context.Background(), base64.StdEncoding.EncodeToString([]byte{1, 2, 3}))
	assert.ErrorIs(t, err, ErrInvalidPCM)

	_, ok := hub.LastSpeechWAV()
	assert.False(t, ok)
}

func TestAudioHubPlayPCMCancelled(t *testing.T) {
	hub := NewAudioHub(&recordingPublisher{}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Ten seconds of audio returns at once.
	pcm := make([]byte, 2*SpeechSampleRate*10)
	err := hub.PlayPCM(ctx, base64.StdEncoding.EncodeToString(pcm))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAudioHubTonesAndSpeak(t *testing.T) {
	pub := &recordingPublisher{}
	hub := NewAudioHub(pub, zap.NewNop())

	hub.PlayTones(nil)
	hub.PlayTones(model.NotificationChirp)
	hub.Speak("")
	hub.Speak("Hello")

	assert.Len(t, pub.ofType(model.EventTone), 1)
	speak := pub.ofType(model.EventSpeak)
	require.Len(t, speak, 1)
	assert.Equal(t, "Hello", speak[0].Data)
}

func TestEncodeWAVHeader(t *testing.T) {
	pcm := []byte{1, 0, 2, 0}
	wav := EncodeWAV(pcm, 24000)

	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(36+len(pcm)), binary.LittleEndian.Uint32(wav[4:]))
	assert.Equal(t, "WAVEfmt ", string(wav[8:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:]))
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:]))
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(wav[28:]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(wav[40:]))
	assert.Equal(t, pcm, wav[44:])
}

func TestPCMDuration(t *testing.T) {
	assert.Equal(t, time.Second, PCMDuration(SpeechSampleRate))
	assert.Equal(t, 500*time.Millisecond, PCMDuration(SpeechSampleRate/2))
}
