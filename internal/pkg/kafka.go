package pkg

import (
	"context"
	"strconv"

	"github.com/segmentio/kafka-go"
)

// ModerationProducer 审核事件投递到 kafka，供下游（通知等）订阅
type ModerationProducer struct {
	writer *kafka.Writer
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func NewModerationProducer(cfg KafkaConfig) *ModerationProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &ModerationProducer{writer: w}
}

func (p *ModerationProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Send 以 report id 作分区键，同一报告的事件保序
func (p *ModerationProducer) Send(ctx context.Context, reportID uint64, eventType string, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(reportID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	})
}
