package service

import (
	"context"
	"log/slog"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var _ port.ActivityPublisher = LogPublisher{}

// A LogPublisher only logs activity. It is used when no broker is
// configured.
type LogPublisher struct{}

func (LogPublisher) PublishActivity(
	ctx context.Context, evt domain.ActivityEvent,
) error {
	slog.InfoContext(ctx, "activity",
		"op", "LogPublisher.PublishActivity",
		"id", evt.ID,
		"username", evt.Username,
		"action", evt.Action,
		"productID", evt.ProductID,
	)
	return nil
}
