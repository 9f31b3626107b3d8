package sim

import (
	"github.com/sirupsen/logrus"
)

// EventLogger is a hook that writes one log line for every stepped event.
type EventLogger struct {
	Logger logrus.FieldLogger
}

// NewEventLogger returns an EventLogger writing to logger. A nil logger
// means the standard logrus logger.
func NewEventLogger(logger logrus.FieldLogger) *EventLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &EventLogger{Logger: logger}
}

// Func logs the event after it has been handled.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosAfterEvent || ctx.Item == nil {
		return
	}

	entry := h.Logger.WithFields(logrus.Fields{
		"time":   ctx.Item.Time,
		"status": ctx.Item.Status(),
		"fired":  ctx.Fired,
	})
	if name, ok := ctx.Item.Context["name"]; ok {
		entry = entry.WithField("event", name)
	}

	switch {
	case ctx.Err != nil:
		entry.WithError(ctx.Err).Error("event failed")
	case ctx.Fired:
		entry.Info("event fired")
	default:
		entry.Info("event skipped")
	}
}
