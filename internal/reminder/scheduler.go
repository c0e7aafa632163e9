// Package reminder polls the shared state for due reminders and notifies each task
// at most once until its reminder is re-armed.
package reminder

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/blinkdo/internal/model"
	"github.com/sandeepkv93/blinkdo/internal/notify"
	"github.com/sandeepkv93/blinkdo/internal/state"
)

const (
	DefaultInterval = 10 * time.Second
	DefaultTitle    = "Task reminder"
)

type Options struct {
	Interval time.Duration
	Title    string
	Logger   *log.Logger
	// Now returns epoch milliseconds; nil means the wall clock.
	Now func() int64
}

type Scheduler struct {
	store    *state.Store
	notifier notify.Notifier
	interval time.Duration
	title    string
	logger   *log.Logger
	now      func() int64

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool

	delivered uint64
	failed    uint64
}

func New(store *state.Store, notifier notify.Notifier, opts Options) *Scheduler {
	s := &Scheduler{
		store:    store,
		notifier: notifier,
		interval: opts.Interval,
		title:    opts.Title,
		logger:   opts.Logger,
		now:      opts.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.title == "" {
		s.title = DefaultTitle
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.now == nil {
		s.now = model.NowMillis
	}
	return s
}

// Start launches the polling loop; the first tick runs immediately. A second call,
// or a call after Stop, does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	go s.loop()
}

// Stop ends the loop and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopCh)
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.doneCh
	}
}

func (s *Scheduler) Delivered() uint64 {
	return atomic.LoadUint64(&s.delivered)
}

func (s *Scheduler) Failed() uint64 {
	return atomic.LoadUint64(&s.failed)
}

func (s *Scheduler) loop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runTick()
	for {
		select {
		case <-ticker.C:
			s.runTick()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) runTick() {
	if err := s.Tick(s.now()); err != nil {
		s.logger.Error("reminder tick failed", "err", err)
	}
}

// Tick runs one scan at now. Active ids and due tasks come from a single read of the
// data region; the notified set is pruned to that active set before any delivery.
// Notifications happen with no lock held and only successes are recorded. The re-arm
// token is taken before the read, so a reminder edited after the read, including
// during delivery, stays pending.
func (s *Scheduler) Tick(now int64) error {
	tok, err := s.store.Token()
	if err != nil {
		return fmt.Errorf("read notified: %w", err)
	}

	active := make(map[string]bool)
	var due []model.Task
	if err := s.store.View(func(data model.AppData) {
		for _, t := range data.Todos {
			if !t.Active() {
				continue
			}
			active[t.ID] = true
			if t.Due(now) {
				due = append(due, t.Clone())
			}
		}
	}); err != nil {
		return fmt.Errorf("read tasks: %w", err)
	}

	if err := s.store.Retain(active); err != nil {
		return fmt.Errorf("prune notified: %w", err)
	}

	sort.SliceStable(due, func(i, j int) bool {
		return *due[i].ReminderAt < *due[j].ReminderAt
	})

	for _, t := range due {
		notified, err := s.store.IsNotified(t.ID)
		if err != nil {
			return fmt.Errorf("check notified: %w", err)
		}
		if notified {
			continue
		}

		msg := notify.Notification{TaskID: t.ID, Title: s.title, Body: t.Title}
		if err := s.notifier.Send(msg); err != nil {
			atomic.AddUint64(&s.failed, 1)
			s.logger.Error("reminder notification failed", "task", t.ID, "err", err)
			continue
		}
		atomic.AddUint64(&s.delivered, 1)
		marked, err := s.store.MarkNotified(t.ID, tok)
		if err != nil {
			return fmt.Errorf("mark notified: %w", err)
		}
		if !marked {
			s.logger.Debug("reminder re-armed during delivery", "task", t.ID)
		}
	}
	return nil
}
