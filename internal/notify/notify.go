package notify

import (
	"context"

	"go.uber.org/zap"
)

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var firstErr error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, title, text); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Log writes alerts to the structured log so transitions are recorded even
// without a webhook.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Send(_ context.Context, title, text string) error {
	l.Logger.Info("alert", zap.String("title", title), zap.String("text", text))
	return nil
}

// New returns the log notifier plus Slack when a webhook is configured.
func New(logger *zap.Logger, slackWebhook string) Notifier {
	m := Multi{Log{Logger: logger}}
	if s := NewSlack(slackWebhook); s != nil {
		m = append(m, s)
	}
	return m
}
