package sim

import "github.com/sirupsen/logrus"

// A LogHook is a hook that is resonsible for recording information from the
// simulation
type LogHook interface {
	Hook
}

// LogHookBase provides the common logic for all LogHooks
type LogHookBase struct {
	Logger logrus.FieldLogger
}

func (h LogHookBase) logger() logrus.FieldLogger {
	if h.Logger == nil {
		return logrus.StandardLogger()
	}

	return h.Logger
}
