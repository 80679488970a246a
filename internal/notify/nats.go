package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const defaultSubjectPrefix = "archimatch.notify"

// NATSNotifier publishes notification events to <prefix>.<user_id>. The
// mobile/web push relay subscribes on the other side; this process only
// needs the publish to be fast and non-blocking.
type NATSNotifier struct {
	nc            *nats.Conn
	subjectPrefix string
}

func NewNATSNotifier(natsURL, subjectPrefix string) (*NATSNotifier, error) {
	if subjectPrefix == "" {
		subjectPrefix = defaultSubjectPrefix
	}
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSNotifier{nc: nc, subjectPrefix: subjectPrefix}, nil
}

func (n *NATSNotifier) Notify(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	subject := fmt.Sprintf("%s.%s", n.subjectPrefix, event.UserID)
	if err := n.nc.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func (n *NATSNotifier) Close() {
	n.nc.Close()
}
