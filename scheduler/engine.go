// Package scheduler owns the task list and turns the passage of time into
// one-shot upcoming and due notifications, including the blocking alarm.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"myassistant/model"

	"go.uber.org/zap"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrDuplicateTask = errors.New("duplicate task id")
)

type SettingsSource interface {
	Settings() model.AppSettings
}

type Notifier interface {
	Notify(n model.Notification)
}

type Options struct {
	TickInterval   time.Duration
	UpcomingWindow time.Duration
	DueWindow      time.Duration
	Location       *time.Location
}

func DefaultOptions() Options {
	return Options{
		TickInterval:   time.Second,
		UpcomingWindow: 15 * time.Minute,
		DueWindow:      60 * time.Second,
		Location:       time.Local,
	}
}

// Listener receives a task snapshot after every change. Snapshots are
// delivered in order and must not be modified.
type Listener func(tasks []model.Task)

// Engine owns the task list. Mutations replace the slice (and the changed
// element) instead of editing in place, so earlier snapshots stay valid.
type Engine struct {
	opts     Options
	settings SettingsSource
	sink     ToneSink
	notifier Notifier
	alarm    *AlarmLoop
	onAlarm  func(model.AlarmState)
	logger   *zap.Logger

	mu      sync.Mutex
	tasks   []model.Task
	active  *model.Task
	version uint64

	pubMu     sync.Mutex
	published uint64
	nextSub   int
	listeners map[int]Listener
}

func NewEngine(tasks []model.Task, settings SettingsSource, sink ToneSink, notifier Notifier, alarm *AlarmLoop, opts Options, logger *zap.Logger) *Engine {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Engine{
		opts:      opts,
		settings:  settings,
		sink:      sink,
		notifier:  notifier,
		alarm:     alarm,
		logger:    logger.Named("scheduler"),
		tasks:     slices.Clone(tasks),
		listeners: make(map[int]Listener),
	}
}

func (e *Engine) Tasks() []model.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tasks
}

func (e *Engine) Subscribe(l Listener) (cancel func()) {
	e.pubMu.Lock()
	defer e.pubMu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.listeners[id] = l
	return func() {
		e.pubMu.Lock()
		defer e.pubMu.Unlock()
		delete(e.listeners, id)
	}
}

// commitLocked installs next as the current list. Caller holds e.mu.
func (e *Engine) commitLocked(next []model.Task) (uint64, []model.Task) {
	e.tasks = next
	e.version++
	return e.version, next
}

// publish skips snapshots older than one already delivered.
func (e *Engine) publish(version uint64, snapshot []model.Task) {
	e.pubMu.Lock()
	defer e.pubMu.Unlock()
	if version <= e.published {
		return
	}
	e.published = version
	for _, l := range e.listeners {
		l(snapshot)
	}
}

func (e *Engine) Add(task model.Task) {
	e.mu.Lock()
	next := make([]model.Task, 0, len(e.tasks)+1)
	next = append(next, task)
	next = append(next, e.tasks...)
	v, snap := e.commitLocked(next)
	e.mu.Unlock()
	e.publish(v, snap)
}

// Toggle flips completion. Completing a task plays the completion chime.
func (e *Engine) Toggle(id string) (model.Task, error) {
	e.mu.Lock()
	idx := slices.IndexFunc(e.tasks, func(t model.Task) bool { return t.ID == id })
	if idx < 0 {
		e.mu.Unlock()
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	next := slices.Clone(e.tasks)
	updated := next[idx]
	updated.Completed = !updated.Completed
	next[idx] = updated
	v, snap := e.commitLocked(next)
	e.mu.Unlock()

	if updated.Completed && e.settings.Settings().EnableSfx {
		e.sink.PlayTones(model.CompletionChime)
	}
	e.publish(v, snap)
	return updated, nil
}

func (e *Engine) Delete(id string) error {
	e.mu.Lock()
	idx := slices.IndexFunc(e.tasks, func(t model.Task) bool { return t.ID == id })
	if idx < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	next := slices.Delete(slices.Clone(e.tasks), idx, idx+1)
	v, snap := e.commitLocked(next)
	e.mu.Unlock()
	e.publish(v, snap)
	return nil
}

// Replace swaps the whole list, e.g. after a storage clear. Notification
// flags never go back to false for an id the engine already holds.
func (e *Engine) Replace(tasks []model.Task) error {
	next := slices.Clone(tasks)
	seen := make(map[string]struct{}, len(next))
	for _, t := range next {
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateTask, t.ID)
		}
		seen[t.ID] = struct{}{}
	}

	e.mu.Lock()
	held := make(map[string]model.Task, len(e.tasks))
	for _, t := range e.tasks {
		held[t.ID] = t
	}
	for i := range next {
		if old, ok := held[next[i].ID]; ok {
			next[i].NotifiedUpcoming = next[i].NotifiedUpcoming || old.NotifiedUpcoming
			next[i].NotifiedDue = next[i].NotifiedDue || old.NotifiedDue
		}
	}
	v, snap := e.commitLocked(next)
	e.mu.Unlock()
	e.publish(v, snap)
	return nil
}

func (e *Engine) ActiveAlarm() *model.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return nil
	}
	t := *e.active
	return &t
}

// OnAlarmChange registers fn to be called whenever the active alarm is set or
// dismissed. Must be called before Run. fn runs with the engine locked and
// must not call back into it.
func (e *Engine) OnAlarmChange(fn func(model.AlarmState)) {
	e.onAlarm = fn
}

func (e *Engine) notifyAlarm(state model.AlarmState) {
	if e.onAlarm != nil {
		e.onAlarm(state)
	}
}

func (e *Engine) AlarmRinging() bool {
	return e.alarm.Running()
}

// DismissAlarm silences the loop and clears the active alarm.
func (e *Engine) DismissAlarm() *model.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.alarm.Stop()
	dismissed := e.active
	e.active = nil

	if dismissed != nil {
		e.logger.Info("alarm dismissed", zap.String("task", dismissed.ID))
		e.notifyAlarm(model.AlarmState{})
	}
	return dismissed
}

type effect struct {
	task      model.Task
	kind      model.NotificationKind
	remaining time.Duration
}

// Tick evaluates every pending task against now. It reports whether any task
// changed.
func (e *Engine) Tick(now time.Time) bool {
	settings := e.settings.Settings()

	e.mu.Lock()
	var (
		next    []model.Task
		effects []effect
	)
	for i, t := range e.tasks {
		if t.Completed {
			continue
		}
		due, ok := t.DueAt(e.opts.Location)
		if !ok {
			continue
		}
		remaining := due.Sub(now)

		updated := t
		switch {
		case remaining > 0 && remaining <= e.opts.UpcomingWindow && !t.NotifiedUpcoming:
			updated.NotifiedUpcoming = true
			effects = append(effects, effect{task: updated, kind: model.NotificationUpcoming, remaining: remaining})
		case remaining <= 0 && remaining > -e.opts.DueWindow && !t.NotifiedDue:
			updated.NotifiedDue = true
			effects = append(effects, effect{task: updated, kind: model.NotificationDue, remaining: remaining})
		default:
			continue
		}
		if next == nil {
			next = slices.Clone(e.tasks)
		}
		next[i] = updated
	}
	if next == nil {
		e.mu.Unlock()
		return false
	}

	var alarmed *model.Task
	for _, ef := range effects {
		if ef.kind == model.NotificationDue && ef.task.HasAlarm && settings.EnableSfx {
			t := ef.task
			e.active = &t
			alarmed = &t
		}
	}
	v, snap := e.commitLocked(next)
	e.mu.Unlock()

	for _, ef := range effects {
		withAlarm := ef.kind == model.NotificationDue && ef.task.HasAlarm
		if settings.EnableSfx && !withAlarm {
			e.sink.PlayTones(model.NotificationChirp)
		}
		e.fire(ef, settings, now)
	}
	if alarmed != nil {
		// A dismissal may have landed while effects fired; only ring for an
		// alarm that still holds the slot.
		e.mu.Lock()
		if e.active == alarmed {
			e.alarm.Start()
			t := *alarmed
			e.notifyAlarm(model.AlarmState{Task: &t, Ringing: true})
		}
		e.mu.Unlock()
	}
	e.publish(v, snap)
	return true
}

func (e *Engine) fire(ef effect, settings model.AppSettings, now time.Time) {
	n := model.Notification{TaskID: ef.task.ID, Kind: ef.kind, SentAt: now}
	switch ef.kind {
	case model.NotificationUpcoming:
		minutes := int(ef.remaining.Round(time.Minute) / time.Minute)
		if minutes < 1 {
			minutes = 1
		}
		n.Title = "Upcoming Task: " + ef.task.Title
		n.Body = fmt.Sprintf("Due in %d minutes", minutes)
	case model.NotificationDue:
		n.Title = "TASK DUE: " + ef.task.Title
		n.Body = "The deadline has been reached."
	}
	e.logger.Info("task notification",
		zap.String("task", ef.task.ID),
		zap.String("kind", string(ef.kind)),
		zap.Bool("alarm", ef.task.HasAlarm && ef.kind == model.NotificationDue),
		zap.Bool("sfx", settings.EnableSfx))
	e.notifier.Notify(n)
}

// Run ticks until ctx is done, then stops any alarm loop.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.opts.TickInterval)
	defer ticker.Stop()
	defer e.alarm.Stop()

	e.Tick(time.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			e.Tick(now)
		}
	}
}
