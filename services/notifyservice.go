package services

import (
	"sync"

	"myassistant/model"

	"go.uber.org/zap"
)

// Notifier is the system notification surface. Without a granted permission
// every Notify is a no-op.
type Notifier struct {
	mu         sync.RWMutex
	permission model.Permission
	requested  sync.Once
	publisher  Publisher
	logger     *zap.Logger
}

func NewNotifier(publisher Publisher, logger *zap.Logger) *Notifier {
	return &Notifier{
		permission: model.PermissionDefault,
		publisher:  publisher,
		logger:     logger.Named("notify"),
	}
}

// RequestPermission asks the client once per process. Best-effort.
func (n *Notifier) RequestPermission() {
	n.requested.Do(func() {
		n.publisher.Publish(model.EventPermissionRequest, nil)
	})
}

func (n *Notifier) SetPermission(p model.Permission) {
	n.mu.Lock()
	n.permission = p
	n.mu.Unlock()
	n.logger.Info("notification permission changed", zap.String("permission", string(p)))
}

func (n *Notifier) Permission() model.Permission {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.permission
}

func (n *Notifier) Notify(notification model.Notification) {
	if n.Permission() != model.PermissionGranted {
		n.logger.Debug("notification suppressed", zap.String("title", notification.Title))
		return
	}
	n.publisher.Publish(model.EventNotification, notification)
}
