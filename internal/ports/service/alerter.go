package service

import "context"

// IAlerterService алерты дежурным (ошибки джоб, внешний webhook)
type IAlerterService interface {
	SendAlert(ctx context.Context, message string) error
}
