package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/CodeTanzania/emis-feature/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Lifecycle actions published after successful commits.
const (
	FeatureCreated = "created"
	FeatureUpdated = "updated"
	FeatureDeleted = "deleted"
)

// FeatureEventMessage is the payload carried on the lifecycle topic.
type FeatureEventMessage struct {
	Action string    `json:"action"`
	Id     string    `json:"id"`
	Nature string    `json:"nature"`
	Family string    `json:"family"`
	Type   string    `json:"type"`
	Name   string    `json:"name"`
	At     time.Time `json:"at"`
}

type IPublisherService interface {
	PublishFeatureEvent(ctx context.Context, action string, feature *entity.Feature) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (ps *publisherService) PublishFeatureEvent(ctx context.Context, action string, feature *entity.Feature) error {
	payload := FeatureEventMessage{
		Action: action,
		Id:     feature.Id.String(),
		Nature: feature.Nature,
		Family: feature.Family,
		Type:   feature.Type,
		Name:   feature.Name,
		At:     time.Now(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	return ps.pubSub.Publish(ps.topicName, msg)
}
