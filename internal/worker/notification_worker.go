package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/service"
)

// StartNotificationWorker subscribes the toast handlers to the auth and ticket events.
// It must run before the first request is served.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		logger.Warn("notification service missing; toasts are disabled")
		return
	}
	notifications.RegisterHandlers()
	logger.Info("notification handlers registered")
}
