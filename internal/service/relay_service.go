package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/CodeTanzania/emis-feature/internal/pkg/logger"
	"github.com/CodeTanzania/emis-feature/pkg/events"
	pkgNats "github.com/CodeTanzania/emis-feature/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IRelayService drains the in-process lifecycle topic, logs every event
// and forwards it to NATS when a publisher is configured.
type IRelayService interface {
	Relay(ctx context.Context) error
}

type relayService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	natsPub   *pkgNats.Publisher
	log       logger.ILogger
}

func NewRelayService(
	pubSub *gochannel.GoChannel,
	topicName string,
	natsPub *pkgNats.Publisher,
	log logger.ILogger,
) IRelayService {
	return &relayService{
		pubSub:    pubSub,
		topicName: topicName,
		natsPub:   natsPub,
		log:       log,
	}
}

func (rs *relayService) Relay(ctx context.Context) error {
	messages, err := rs.pubSub.Subscribe(ctx, rs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			rs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (rs *relayService) processMessage(ctx context.Context, msg *message.Message) {
	var payload FeatureEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		rs.log.Error("relay", "Failed to unmarshal lifecycle event", map[string]interface{}{"error": err.Error()})
		// Ack malformed messages to prevent infinite redelivery.
		msg.Ack()
		return
	}

	rs.log.Info("relay", "Feature "+payload.Action, map[string]interface{}{
		"id":     payload.Id,
		"nature": payload.Nature,
		"family": payload.Family,
		"type":   payload.Type,
		"name":   payload.Name,
	})

	if rs.natsPub != nil {
		event := events.BaseEvent{
			Type: "FEATURE_" + strings.ToUpper(payload.Action),
			Data: map[string]interface{}{
				"id":     payload.Id,
				"nature": payload.Nature,
				"family": payload.Family,
				"type":   payload.Type,
				"name":   payload.Name,
			},
			OccurredAt: payload.At,
		}
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := rs.natsPub.Publish(pubCtx, event); err != nil {
			rs.log.Warn("relay", "Failed to forward event to NATS", map[string]interface{}{"error": err.Error()})
		}
		cancel()
	}

	msg.Ack()
}
