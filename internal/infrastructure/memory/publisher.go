package memory

import (
	"context"

	"github.com/mealmate/mealmate-api/internal/application/auth"
	"github.com/mealmate/mealmate-api/internal/logger"
)

// NoopPublisher logs events instead of publishing them; used in dev
// when RabbitMQ is unreachable and in tests.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	logger.WithCtx(ctx).Debug().Str("user_id", evt.UserID).Msg("noop-pub: user registered")
	return nil
}

func (p *NoopPublisher) PublishMFAEnabled(ctx context.Context, evt auth.MFAEnabledEvent) error {
	logger.WithCtx(ctx).Debug().Str("user_id", evt.UserID).Msg("noop-pub: mfa enabled")
	return nil
}
