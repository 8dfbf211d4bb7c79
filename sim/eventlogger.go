package sim

import (
	"github.com/sirupsen/logrus"
)

// TransitionLogger is a hook that prints the outputs and the internal
// transitions of the models at debug level.
type TransitionLogger struct {
	LogHookBase
}

// NewTransitionLogger returns a new TransitionLogger which will write in to
// the logger. A nil logger writes into the logrus standard logger.
func NewTransitionLogger(logger logrus.FieldLogger) *TransitionLogger {
	h := new(TransitionLogger)
	h.Logger = logger

	return h
}

// Func writes the transition information into the logger
func (h *TransitionLogger) Func(ctx HookCtx) {
	detail, ok := ctx.Detail.(TransitionDetail)
	if !ok {
		return
	}

	entry := h.logger().WithFields(logrus.Fields{
		"time":  ctx.Now.String(),
		"model": detail.Model.Name(),
	})

	switch ctx.Pos {
	case HookPosOutput:
		for _, o := range detail.Outputs {
			entry.WithFields(logrus.Fields{
				"port":  o.Port.Name(),
				"value": o.Value.String(),
			}).Debug("output")
		}
	case HookPosIntTransition:
		entry.WithFields(logrus.Fields{
			"elapsed": detail.Elapsed.String(),
			"phase":   detail.Model.Phase().String(),
			"ta":      detail.Model.TimeAdvance().String(),
		}).Debug("internal transition")
	case HookPosExtTransition:
		entry.WithFields(logrus.Fields{
			"elapsed": detail.Elapsed.String(),
			"phase":   detail.Model.Phase().String(),
			"ta":      detail.Model.TimeAdvance().String(),
		}).Debug("external transition")
	}
}
