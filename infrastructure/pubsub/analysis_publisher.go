package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"comment-insight/domain/model"
	"comment-insight/infrastructure/logger"

	"cloud.google.com/go/pubsub"
)

// AnalysisPublisher sends analysis events to a Pub/Sub topic.
// A nil client turns publishing into a no-op.
type AnalysisPublisher struct {
	client    *pubsub.Client
	topicName string

	mu    sync.Mutex
	topic *pubsub.Topic
}

func NewAnalysisPublisher(client *pubsub.Client, topicName string) *AnalysisPublisher {
	return &AnalysisPublisher{client: client, topicName: topicName}
}

// NewClient returns a Pub/Sub client for projectID, or nil when no project is configured
func NewClient(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		logger.GetLogger().Info("Pub/Sub publishing disabled")
		return nil, nil
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return client, nil
}

// PublishAnalysis encodes event as JSON and waits for the server id
func (p *AnalysisPublisher) PublishAnalysis(ctx context.Context, event *model.AnalysisEvent) error {
	if p == nil || p.client == nil || event == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode analysis event: %w", err)
	}

	topic, err := p.ensureTopic(ctx)
	if err != nil {
		return err
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"type": event.Type, "video_id": event.VideoID},
	}).Get(ctx)
	if err != nil {
		return fmt.Errorf("publish analysis event: %w", err)
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"server ID": serverID,
		"video_id":  event.VideoID,
	}).Info("Message published")
	return nil
}

func (p *AnalysisPublisher) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		return p.topic, nil
	}

	topic := p.client.Topic(p.topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic %s: %w", p.topicName, err)
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topicName).Info("Topic doesn't exist - creating it")
		if topic, err = p.client.CreateTopic(ctx, p.topicName); err != nil {
			return nil, fmt.Errorf("create topic %s: %w", p.topicName, err)
		}
	}
	p.topic = topic
	return topic, nil
}

// Close flushes pending messages and releases the client
func (p *AnalysisPublisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	p.mu.Lock()
	if p.topic != nil {
		p.topic.Stop()
	}
	p.mu.Unlock()
	return p.client.Close()
}
