package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSink publishes audit entries to a Kafka topic so the compliance
// pipeline can consume them independently of the serving database. It
// implements Store and is wired as an additional sink behind the worker;
// the worker's swallow-and-count behavior keeps broker outages away from
// request handling.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSink connects to the brokers and ensures the topic exists.
func NewKafkaSink(ctx context.Context, brokers []string, topic string) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	if _, err := admin.CreateTopic(ctx, 1, 1, nil, topic); err != nil {
		// Topic may already exist; anything else is surfaced at startup
		// rather than during request handling.
		if !isTopicExistsErr(err) {
			client.Close()
			return nil, fmt.Errorf("ensure audit topic: %w", err)
		}
	}

	return &KafkaSink{client: client, topic: topic}, nil
}

func isTopicExistsErr(err error) bool {
	// kadm surfaces TOPIC_ALREADY_EXISTS in the response error string.
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "already exists")
}

// kafkaPayload is the JSON structure published to the topic.
type kafkaPayload struct {
	ActorID        string `json:"actor_id"`
	Classification string `json:"classification"`
	Action         string `json:"action"`
	Detail         string `json:"detail,omitempty"`
	RequestID      string `json:"request_id,omitempty"`
	Client         string `json:"client,omitempty"`
	Timestamp      string `json:"timestamp"`
}

func (k *KafkaSink) Append(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(kafkaPayload{
		ActorID:        entry.ActorID.String(),
		Classification: entry.Classification.String(),
		Action:         string(entry.Action),
		Detail:         entry.Detail,
		RequestID:      entry.RequestID,
		Client:         entry.Client,
		Timestamp:      entry.Timestamp.Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(entry.ActorID.String()),
		Value: payload,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit entry: %w", err)
	}
	return nil
}

// Close flushes pending records and releases the client.
func (k *KafkaSink) Close() {
	k.client.Close()
}
