// Package notify is the outbound push channel for match events. Delivery
// is best effort: the ledger write that triggered a notification has
// already committed, so failures here are logged and counted, never
// propagated to the caller.
package notify

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type Event struct {
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
	Close()
}

// LogNotifier is the fallback when no push transport is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, event Event) error {
	logutil.GetLogger(ctx).Info("notification",
		zap.String("user_id", event.UserID),
		zap.String("title", event.Title),
		zap.String("message", event.Message),
		zap.Int64("timestamp", event.Timestamp),
	)
	return nil
}

func (n *LogNotifier) Close() {}
