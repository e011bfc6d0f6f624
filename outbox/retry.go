package outbox

import (
	"storefront/models"
	"time"
	"unicode/utf8"
)

// ==================== RETRY LOGIC ====================

type dispatchResult struct {
	dispatched int
	failed     int
	skipped    int
}

// markFailed records a publish failure; the repository abandons the event at the retry limit
func (w *Worker) markFailed(event *models.OutboxEvent, cause error) {
	if err := w.repo.MarkEventFailed(event.ID, truncateError(cause.Error())); err != nil {
		w.logger.Error("failed to mark event failed", "event_id", event.ID, "error", err)
		return
	}

	attempt := event.RetryCount + 1
	if attempt >= models.MaxDispatchRetries {
		w.logger.Error("event abandoned",
			"event_id", event.ID,
			"type", event.EventType,
			"attempts", attempt,
			"error", cause)
		return
	}
	w.logger.Warn("event publish failed",
		"event_id", event.ID,
		"type", event.EventType,
		"attempt", attempt,
		"error", cause)
}

// recoverStuck returns events left in dispatching by a crashed process
func (w *Worker) recoverStuck() {
	n, err := w.repo.ResetStuckEvents(time.Now().UTC().Add(-w.cfg.StuckAfter))
	if err != nil {
		w.logger.Error("failed to reset stuck events", "error", err)
		return
	}
	if n > 0 {
		w.logger.Warn("reset stuck events", "count", n)
	}
}

const maxErrorLength = 500

// truncateError cuts msg to at most maxErrorLength bytes without splitting a rune
func truncateError(msg string) string {
	if len(msg) <= maxErrorLength {
		return msg
	}
	cut := maxErrorLength
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}
