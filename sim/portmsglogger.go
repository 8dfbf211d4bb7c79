package sim

import (
	"github.com/sirupsen/logrus"
)

// MsgLogger is a hook for logging messages as they enter a model through an
// input port, are injected by a harness, or are dropped by the router.
type MsgLogger struct {
	LogHookBase
}

// NewMsgLogger returns a new MsgLogger which will write into the logger. A
// nil logger writes into the logrus standard logger.
func NewMsgLogger(logger logrus.FieldLogger) *MsgLogger {
	h := new(MsgLogger)
	h.Logger = logger

	return h
}

// Func writes the message information into the logger
func (h *MsgLogger) Func(ctx HookCtx) {
	msg, ok := ctx.Item.(ExternalMsg)
	if !ok {
		return
	}

	fields := logrus.Fields{
		"time":  ctx.Now.String(),
		"pos":   ctx.Pos.Name,
		"msg_id": msg.ID,
		"src":   string(msg.Src),
		"value": msg.Value.String(),
	}

	switch ctx.Pos {
	case HookPosExtTransition, HookPosMsgInjected:
		fields["dst"] = msg.Port.String()
		h.logger().WithFields(fields).Info("msg")
	case HookPosMsgDropped:
		if dst, ok := ctx.Detail.(PortID); ok {
			fields["dst"] = string(dst)
		}

		h.logger().WithFields(fields).Warn("msg dropped")
	}
}
