package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/websocket"
)

// Spawner creates due recurring instances.
type Spawner interface {
	SpawnDue(ctx context.Context) ([]model.Task, error)
}

// Broadcaster fans events out to connected clients.
type Broadcaster interface {
	Broadcast(msg websocket.Message)
}

// SpawnNotifier is told about freshly spawned instances.
type SpawnNotifier interface {
	InstancesSpawned(tasks []model.Task)
}

// Janitor removes stale rows. It runs once per tick after spawning.
type Janitor func(now time.Time) error

// Scheduler periodically spawns recurring task instances.
type Scheduler struct {
	mu       sync.RWMutex
	spawner  Spawner
	hub      Broadcaster
	notifier SpawnNotifier
	janitors []Janitor
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(spawner Spawner, hub Broadcaster, notifier SpawnNotifier, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		spawner:  spawner,
		hub:      hub,
		notifier: notifier,
		logger:   logger.With("component", "scheduler"),
		interval: interval,
		now:      time.Now,
	}
}

// AddJanitor registers a cleanup job. Call before Start.
func (s *Scheduler) AddJanitor(j Janitor) {
	s.janitors = append(s.janitors, j)
}

// Start runs one pass immediately, then one per interval until ctx is
// cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		s.Tick(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Tick(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for the current pass to finish.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Tick runs a single spawn and cleanup pass.
func (s *Scheduler) Tick(ctx context.Context) {
	spawned, err := s.spawner.SpawnDue(ctx)
	if err != nil {
		s.logger.Error("spawn due instances", "error", err)
	}
	for _, t := range spawned {
		s.hub.Broadcast(websocket.NewMessage(websocket.EntityInstance, websocket.ActionSpawned, t.ID, map[string]any{
			"template_id": t.TemplateID,
		}).ForChild(t.AssignedTo))
	}
	if len(spawned) > 0 && s.notifier != nil {
		s.notifier.InstancesSpawned(spawned)
	}

	now := s.now()
	for _, j := range s.janitors {
		if err := j(now); err != nil {
			s.logger.Error("cleanup", "error", err)
		}
	}
}
