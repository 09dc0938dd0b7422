package memory

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/socialdesk/socialdesk/internal/config"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/pubsub"
)

// PubSub is the in-process bus backed by watermill's gochannel.
// It also satisfies message.Subscriber so the router can consume from it directly.
type PubSub struct {
	goChannel *gochannel.GoChannel
	logger    *logger.Logger
}

func NewPubSub(cfg *config.Configuration, logger *logger.Logger) *PubSub {
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            cfg.PubSub.OutputBufferSize,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		},
		logger.GetWatermillLogger(),
	)

	return &PubSub{
		goChannel: goChannel,
		logger:    logger,
	}
}

var _ pubsub.PubSub = (*PubSub)(nil)

func (p *PubSub) Publish(ctx context.Context, topic string, msg *message.Message) error {
	msg.SetContext(ctx)
	return p.goChannel.Publish(topic, msg)
}

func (p *PubSub) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return p.goChannel.Subscribe(ctx, topic)
}

func (p *PubSub) Close() error {
	return p.goChannel.Close()
}
