package router

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/socialdesk/socialdesk/internal/config"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/sentry"
)

// Router runs the handlers consuming the internal bus
type Router struct {
	router *message.Router
	logger *logger.Logger
	sentry *sentry.Service
}

func NewRouter(cfg *config.Configuration, logger *logger.Logger, sentry *sentry.Service) (*Router, error) {
	wmLogger := logger.GetWatermillLogger()

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, err
	}

	// messages that exhausted their retries land here and are only logged
	dlq := gochannel.NewGoChannel(gochannel.Config{Persistent: false}, wmLogger)
	poisonQueue, err := middleware.PoisonQueue(dlq, "system_events_dlq")
	if err != nil {
		return nil, err
	}

	router.AddMiddleware(
		poisonQueue,
		middleware.Recoverer,
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:          cfg.PubSub.MaxRetries,
			InitialInterval:     cfg.PubSub.InitialInterval,
			MaxInterval:         10 * cfg.PubSub.InitialInterval,
			Multiplier:          2,
			RandomizationFactor: 0.5,
			Logger:              wmLogger,
			OnRetryHook: func(retryNum int, delay time.Duration) {
				logger.Debugw("retrying message",
					"retry_number", retryNum,
					"max_retries", cfg.PubSub.MaxRetries,
					"delay", delay,
				)
			},
		}.Middleware,
	)

	return &Router{
		router: router,
		logger: logger,
		sentry: sentry,
	}, nil
}

// AddNoPublishHandler registers a consumer that does not publish follow up messages.
// Errors the handler deems permanent are reported and acked instead of retried.
func (r *Router) AddNoPublishHandler(
	handlerName string,
	topicName string,
	subscriber message.Subscriber,
	handlerFunc func(msg *message.Message) error,
	middlewares ...message.HandlerMiddleware,
) {
	handler := r.router.AddNoPublisherHandler(
		handlerName,
		topicName,
		subscriber,
		func(msg *message.Message) error {
			err := handlerFunc(msg)
			if err == nil {
				return nil
			}

			r.sentry.CaptureException(err)
			r.logger.Errorw("message handler failed",
				"handler", handlerName,
				"error", err,
				"correlation_id", middleware.MessageCorrelationID(msg),
				"message_uuid", msg.UUID,
			)
			if !shouldRetry(r.logger, err) {
				return nil
			}
			return err
		},
	)

	for _, m := range middlewares {
		handler.AddMiddleware(m)
	}
}

// Run blocks until the router is closed
func (r *Router) Run() error {
	r.logger.Info("starting message router")
	return r.router.Run(context.Background())
}

// Running is closed once all handlers are subscribed
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

func (r *Router) Close() error {
	r.logger.Info("closing message router")
	return r.router.Close()
}
