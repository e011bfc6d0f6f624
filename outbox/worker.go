package outbox

import (
	"context"
	"log/slog"
	"storefront/events"
	"storefront/models"
	"sync"
	"time"
)

// Repository is the slice of database.Repository the worker needs
type Repository interface {
	GetEvent(id string) (*models.OutboxEvent, error)
	GetPendingEvents(limit int, createdBefore time.Time) ([]models.OutboxEvent, error)
	MarkEventDispatching(id string) (bool, error)
	MarkEventDispatched(id string) error
	MarkEventFailed(id string, errMsg string) error
	ResetStuckEvents(olderThan time.Time) (int64, error)
}

// Config tunes the polling loop
type Config struct {
	BatchSize      int
	MinAge         time.Duration
	BaseInterval   time.Duration
	MaxInterval    time.Duration
	PublishTimeout time.Duration
	StuckAfter     time.Duration
}

// DefaultConfig returns the production settings
func DefaultConfig() Config {
	return Config{
		BatchSize:      50,
		MinAge:         10 * time.Second,
		BaseInterval:   30 * time.Second,
		MaxInterval:    2 * time.Minute,
		PublishTimeout: 15 * time.Second,
		StuckAfter:     5 * time.Minute,
	}
}

// Worker publishes outbox events written by the services.
// See:
// - executor.go: batch and immediate dispatch
// - retry.go: failure bookkeeping and stuck event recovery
type Worker struct {
	repo            Repository
	publisher       events.Publisher
	logger          *slog.Logger
	cfg             Config
	currentInterval time.Duration
	running         bool
	mu              sync.Mutex
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

// NewWorker creates a new outbox worker instance
func NewWorker(repo Repository, publisher events.Publisher, logger *slog.Logger, cfg Config) *Worker {
	defaults := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.BaseInterval <= 0 {
		cfg.BaseInterval = defaults.BaseInterval
	}
	if cfg.MaxInterval < cfg.BaseInterval {
		cfg.MaxInterval = cfg.BaseInterval
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaults.PublishTimeout
	}
	if cfg.StuckAfter <= 0 {
		cfg.StuckAfter = defaults.StuckAfter
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		repo:            repo,
		publisher:       publisher,
		logger:          logger.With("component", "outbox"),
		cfg:             cfg,
		currentInterval: cfg.BaseInterval,
		stopChan:        make(chan struct{}),
	}
}

// Start begins the background dispatch loop
func (w *Worker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.wg.Add(1)
	w.mu.Unlock()

	w.logger.Info("starting outbox worker", "interval", w.cfg.BaseInterval)

	go w.run()
}

// Stop halts the loop and waits for in-flight dispatches to finish
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.wg.Wait()
		return
	}
	w.logger.Info("stopping outbox worker")
	close(w.stopChan)
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
}

// Interval reports the current polling interval
func (w *Worker) Interval() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentInterval
}

// run is the main loop with adaptive backoff
func (w *Worker) run() {
	defer w.wg.Done()

	w.mu.Lock()
	stop := w.stopChan
	interval := w.currentInterval
	w.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.recoverStuck()
	w.dispatchPending()

	for {
		select {
		case <-ticker.C:
			w.recoverStuck()
			hadWork := w.dispatchPending()

			w.mu.Lock()
			next := w.nextInterval(hadWork)
			if next != w.currentInterval {
				w.currentInterval = next
				ticker.Reset(next)
				w.logger.Debug("outbox interval changed", "interval", next, "had_work", hadWork)
			}
			w.mu.Unlock()
		case <-stop:
			return
		}
	}
}

// nextInterval resets to base when work was found and backs off to max otherwise
func (w *Worker) nextInterval(hadWork bool) time.Duration {
	if hadWork {
		return w.cfg.BaseInterval
	}
	return w.cfg.MaxInterval
}

func (w *Worker) publishContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), w.cfg.PublishTimeout)
}
