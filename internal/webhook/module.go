package webhook

import (
	"github.com/socialdesk/socialdesk/internal/webhook/handler"
	"github.com/socialdesk/socialdesk/internal/webhook/publisher"
	"go.uber.org/fx"
)

// Module provides the system event publisher and the webhook forwarding handler
var Module = fx.Options(
	fx.Provide(
		publisher.NewPublisher,
		handler.NewHandler,
	),
)
