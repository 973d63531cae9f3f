// Package notify is the port to the external notification dispatcher. The
// commit path fires it best-effort and only ever logs failures.
package notify

import (
	"context"

	"warungpos/terminal/internal/domain"
)

type Dispatcher interface {
	Send(ctx context.Context, msg domain.Notification) error
}

type NoopDispatcher struct{}

func (NoopDispatcher) Send(_ context.Context, _ domain.Notification) error {
	return nil
}
