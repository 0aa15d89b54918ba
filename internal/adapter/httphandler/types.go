package httphandler

import (
	"time"

	"github.com/niksmo/shop-admin/internal/core/domain"
)

type Activity struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Action      string    `json:"action"`
	ProductID   int64     `json:"product_id,omitempty"`
	ProductName string    `json:"product_name,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func activityFromDomain(evts []domain.ActivityEvent) []Activity {
	vs := make([]Activity, 0, len(evts))
	for _, e := range evts {
		vs = append(vs, Activity{
			ID:          e.ID,
			Username:    e.Username,
			Action:      string(e.Action),
			ProductID:   e.ProductID,
			ProductName: e.ProductName,
			OccurredAt:  e.OccurredAt,
		})
	}
	return vs
}
