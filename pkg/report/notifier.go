package report

import (
	"context"

	"github.com/gen2brain/beeep"
	log "github.com/sirupsen/logrus"
)

type LogNotifier struct{}

func (LogNotifier) NotifyFailure(_ context.Context, message string, cause error) {
	log.Errorf("%s (%v)", message, cause)
}

// DesktopNotifier shows the failure message as a desktop notification.
type DesktopNotifier struct {
	Title string
}

func NewDesktopNotifier(appName string) *DesktopNotifier {
	beeep.AppName = appName
	return &DesktopNotifier{Title: appName}
}

func (n *DesktopNotifier) NotifyFailure(_ context.Context, message string, _ error) {
	if err := beeep.Notify(n.Title, message, ""); err != nil {
		log.Warnf("Failed to show desktop notification: %v", err)
	}
}

// MultiNotifier forwards to every notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) NotifyFailure(ctx context.Context, message string, cause error) {
	for _, n := range m {
		n.NotifyFailure(ctx, message, cause)
	}
}
