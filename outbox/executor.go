package outbox

import (
	"storefront/models"
	"time"
)

// ==================== DISPATCH EXECUTION ====================

// dispatchPending publishes a batch of pending or failed events.
// Only events older than MinAge are taken so the immediate dispatch gets the first try.
// Returns true if work was found.
func (w *Worker) dispatchPending() bool {
	cutoff := time.Now().UTC().Add(-w.cfg.MinAge)
	pending, err := w.repo.GetPendingEvents(w.cfg.BatchSize, cutoff)
	if err != nil {
		w.logger.Error("failed to load pending events", "error", err)
		return false
	}

	if len(pending) == 0 {
		return false
	}

	w.logger.Info("dispatching pending events", "count", len(pending))

	result := &dispatchResult{}
	for i := range pending {
		w.dispatchEvent(&pending[i], result)
	}

	if result.dispatched > 0 || result.failed > 0 {
		w.logger.Info("dispatch batch complete",
			"dispatched", result.dispatched,
			"failed", result.failed,
			"skipped", result.skipped,
			"total", len(pending))
	}

	return true
}

// DispatchImmediate publishes a freshly written event in the background.
// Failures are left for the polling loop.
func (w *Worker) DispatchImmediate(eventID string) {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()

		event, err := w.repo.GetEvent(eventID)
		if err != nil {
			w.logger.Error("failed to load event for immediate dispatch", "event_id", eventID, "error", err)
			return
		}
		if event == nil {
			return
		}

		w.dispatchEvent(event, &dispatchResult{})
	}()
}

// dispatchEvent claims, publishes and records the outcome of one event
func (w *Worker) dispatchEvent(event *models.OutboxEvent, result *dispatchResult) {
	claimed, err := w.repo.MarkEventDispatching(event.ID)
	if err != nil {
		w.logger.Error("failed to claim event", "event_id", event.ID, "error", err)
		result.failed++
		return
	}
	if !claimed {
		result.skipped++
		return
	}

	ctx, cancel := w.publishContext()
	defer cancel()

	if err := w.publisher.Publish(ctx, event); err != nil {
		w.markFailed(event, err)
		result.failed++
		return
	}

	if err := w.repo.MarkEventDispatched(event.ID); err != nil {
		w.logger.Error("failed to mark event dispatched", "event_id", event.ID, "error", err)
		result.failed++
		return
	}
	result.dispatched++
}
