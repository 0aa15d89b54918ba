package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var (
	_ port.ActivitySaver  = ActivityRepository{}
	_ port.ActivityReader = ActivityRepository{}
)

const (
	insertActivityQuery = `INSERT INTO admin_events
(id, username, action, product_id, product_name, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO NOTHING`

	selectActivityQuery = `SELECT id, username, action, product_id, product_name, occurred_at
FROM admin_events
WHERE username = $1
ORDER BY occurred_at DESC
LIMIT $2`
)

// An ActivityRepository stores admin events. Saving is idempotent by
// event id so redelivered messages are harmless.
type ActivityRepository struct {
	sqldb sqldb
}

func NewActivityRepository(db sqldb) ActivityRepository {
	if db == nil {
		panic("NewActivityRepository: db is nil") // develop mistake
	}
	return ActivityRepository{db}
}

func (r ActivityRepository) SaveActivity(
	ctx context.Context, evt domain.ActivityEvent,
) error {
	const op = "ActivityRepository.SaveActivity"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.sqldb.ExecContext(ctx, insertActivityQuery,
		evt.ID,
		evt.Username,
		string(evt.Action),
		evt.ProductID,
		evt.ProductName,
		evt.OccurredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		slog.Debug("duplicate event skipped", "op", op, "id", evt.ID)
	}
	return nil
}

func (r ActivityRepository) ReadActivity(
	ctx context.Context, username string, limit int,
) ([]domain.ActivityEvent, error) {
	const op = "ActivityRepository.ReadActivity"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.sqldb.QueryContext(ctx, selectActivityQuery, username, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Warn("failed to close rows", "op", op, "err", err)
		}
	}()

	evts := make([]domain.ActivityEvent, 0, limit)
	for rows.Next() {
		var (
			evt    domain.ActivityEvent
			action string
		)
		err := rows.Scan(
			&evt.ID,
			&evt.Username,
			&action,
			&evt.ProductID,
			&evt.ProductName,
			&evt.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		evt.Action = domain.Action(action)
		evt.OccurredAt = evt.OccurredAt.UTC()
		evts = append(evts, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return evts, nil
}
