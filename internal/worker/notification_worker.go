package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/booking-service/internal/service"
)

// StartNotificationWorker registers notification handlers on the dispatcher.
// Handlers run inline with the request that emitted the event.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification handlers registered")
}
