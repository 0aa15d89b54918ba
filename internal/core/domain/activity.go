package domain

import "time"

type Action string

const (
	ActionLogin          Action = "login"
	ActionLogout         Action = "logout"
	ActionProductCreated Action = "product_created"
	ActionProductUpdated Action = "product_updated"
	ActionProductDeleted Action = "product_deleted"
)

type ActivityEvent struct {
	ID          string
	Username    string
	Action      Action
	ProductID   int64
	ProductName string
	OccurredAt  time.Time
}
