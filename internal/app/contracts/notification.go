package contracts

import "context"

type NotificationIntent struct {
	TemplateKind  string
	Recipient     string
	ContextFields map[string]string
	// IdempotencyKey scopes de-duplication; empty disables it.
	IdempotencyKey string
}

type NotificationPort interface {
	Send(ctx context.Context, intent *NotificationIntent) error
}
