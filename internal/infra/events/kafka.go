// Package events は注文イベントをKafkaへ送る。
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"atelier/internal/domain/event"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// KafkaPublisher は event.Publisher のKafka実装。
type KafkaPublisher struct {
	producer   sarama.SyncProducer
	orderTopic string
	log        logrus.FieldLogger
}

// NewProducerConfig は送達確認ありの同期producer設定。
func NewProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Version = sarama.V2_6_0_0
	return cfg
}

func NewKafkaPublisher(brokers []string, orderTopic string, log logrus.FieldLogger) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, orderTopic, log), nil
}

// NewKafkaPublisherWithProducer はproducerを外から渡す（テストではsarama/mocks）。
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, orderTopic string, log logrus.FieldLogger) *KafkaPublisher {
	if orderTopic == "" {
		orderTopic = string(event.OrderCreated)
	}
	return &KafkaPublisher{producer: producer, orderTopic: orderTopic, log: log}
}

// TopicFor はイベント種別ごとの送信先。order.created だけ設定で変えられる。
func (p *KafkaPublisher) TopicFor(t event.Type) string {
	if t == event.OrderCreated {
		return p.orderTopic
	}
	return string(t)
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	topic := p.TopicFor(ev.Type)
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(ev.Key()),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(ev.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send %s: %w", topic, err)
	}

	p.log.WithFields(logrus.Fields{
		"topic":       topic,
		"partition":   partition,
		"offset":      offset,
		"resource_id": ev.ResourceID,
	}).Debug("event published")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NewPublisher はブローカー未設定ならNopを返す。
// 返す close はアプリ終了時に呼ぶ。
func NewPublisher(brokers []string, orderTopic string, log logrus.FieldLogger) (event.Publisher, func() error, error) {
	if len(brokers) == 0 {
		log.Info("kafka brokers not configured, events are not published")
		return event.Nop{}, func() error { return nil }, nil
	}

	p, err := NewKafkaPublisher(brokers, orderTopic, log)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}
