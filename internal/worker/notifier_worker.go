package worker

import (
	"github.com/spec-kit/sms-bridge/internal/service"
)

// StartNotifierWorker registers notification handlers.
func StartNotifierWorker(notifier *service.Notifier) {
	if notifier == nil {
		return
	}
	notifier.RegisterHandlers()
}
