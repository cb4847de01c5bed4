package scheduler

import (
	"sync"
	"time"

	"myassistant/model"
)

// ToneSink plays short synthetic tones.
type ToneSink interface {
	PlayTones(tones []model.Tone)
}

// AlarmLoop repeats the alarm pattern every interval until stopped or until
// ceiling has elapsed. At most one loop runs at a time.
type AlarmLoop struct {
	sink     ToneSink
	interval time.Duration
	ceiling  time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func NewAlarmLoop(sink ToneSink, interval, ceiling time.Duration) *AlarmLoop {
	return &AlarmLoop{sink: sink, interval: interval, ceiling: ceiling}
}

// Start stops any running loop, plays the pattern immediately and keeps
// repeating it in the background.
func (a *AlarmLoop) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()

	stop := make(chan struct{})
	done := make(chan struct{})
	a.stop, a.done = stop, done

	a.sink.PlayTones(model.AlarmPattern)
	go a.run(stop, done)
}

func (a *AlarmLoop) run(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	deadline := time.NewTimer(a.ceiling)
	defer deadline.Stop()

	for {
		select {
		case <-stop:
			return
		case <-deadline.C:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			a.sink.PlayTones(model.AlarmPattern)
		}
	}
}

// Stop silences the loop and waits for it to exit.
func (a *AlarmLoop) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

func (a *AlarmLoop) stopLocked() {
	if a.stop == nil {
		return
	}
	close(a.stop)
	<-a.done
	a.stop, a.done = nil, nil
}

// Running reports whether a loop is still sounding. A loop that hit its
// ceiling is no longer running.
func (a *AlarmLoop) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done == nil {
		return false
	}
	select {
	case <-a.done:
		return false
	default:
		return true
	}
}
