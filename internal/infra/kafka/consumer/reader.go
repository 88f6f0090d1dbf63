package consumer

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/config"
)

type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Processer 處理一批消息，必須是無狀態且可重入 (同一批可能被重送)
type Processer interface {
	Process(ctx context.Context, msgs []kafka.Message) error
}

// NewReader 建立 consumer group reader，commit 由 Consumer 在處理成功後手動執行
func NewReader(cfg *config.Config) (*kafka.Reader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       cfg.ConsumerMinBytes,
		MaxBytes:       cfg.ConsumerMaxBytes,
		MaxWait:        cfg.ConsumerMaxWait,
		CommitInterval: cfg.CommitInterval,
		StartOffset:    kafka.FirstOffset,
		Dialer: &kafka.Dialer{
			Timeout:   cfg.RetryBackoffMax,
			DualStack: true,
			KeepAlive: 30 * time.Second,
		},
		ReadBackoffMin: cfg.RetryBackoffMin,
		ReadBackoffMax: cfg.RetryBackoffMax,
	}), nil
}
