package producer

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/config"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/errors"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/message"
)

// Producer interface defines the methods that a Kafka producer must implement
type Producer interface {
	// Produce 同步送出，block 到所有消息寫入或失敗
	Produce(ctx context.Context, msgs []message.Message) error
	Close() error
}

// Writer kafka.Writer 的最小介面，測試時替換成 mock
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaProducer struct {
	writer Writer
	cfg    *config.Config
	logger *zerolog.Logger
	closed atomic.Bool
}

// New creates a new Kafka producer
func New(cfg *config.Config, logger *zerolog.Logger) (Producer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     cfg.GetBalancer(),
		BatchTimeout: cfg.BatchTimeout,
		BatchSize:    cfg.BatchSize,
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
		WriteTimeout: cfg.Timeout,
		Async:        false,
		// 重試由 Produce 自己處理
		MaxAttempts: 1,
		Transport: &kafka.Transport{
			Dial: func(ctx context.Context, network string, address string) (net.Conn, error) {
				dialer := &kafka.Dialer{
					Timeout:   10 * time.Second,
					DualStack: true,
					KeepAlive: 30 * time.Second,
				}
				return dialer.DialContext(ctx, network, address)
			},
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error().Str("topic", cfg.Topic).Msgf("kafka producer error: "+msg, args...)
		}),
	}

	return NewWithWriter(cfg, writer, logger), nil
}

// NewWithWriter 使用外部提供的 writer，cfg 不做 broker 檢查
func NewWithWriter(cfg *config.Config, writer Writer, logger *zerolog.Logger) Producer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &kafkaProducer{
		writer: writer,
		cfg:    cfg,
		logger: logger,
	}
}

func (p *kafkaProducer) Produce(ctx context.Context, msgs []message.Message) error {
	if p.closed.Load() {
		return errors.ErrProducerClosed
	}
	if len(msgs) == 0 {
		return nil
	}

	kafkaMsgs := make([]kafka.Message, len(msgs))
	for i, msg := range msgs {
		kafkaMsgs[i] = msg.ToKafkaMessage()
	}

	backoff := p.cfg.RetryBackoffMin
	var err error
	for attempt := 0; attempt <= p.cfg.RetryAttempts; attempt++ {
		if ctx.Err() != nil {
			return errors.NewKafkaError("Produce", p.cfg.Topic, ctx.Err())
		}

		err = p.writer.WriteMessages(ctx, kafkaMsgs...)
		if err == nil {
			return nil
		}
		if !errors.IsTemporaryError(err) && !errors.IsConnectionError(err) {
			break
		}

		p.logger.Warn().Err(err).Int("attempt", attempt+1).Str("topic", p.cfg.Topic).Msg("kafka produce retry")
		select {
		case <-ctx.Done():
			return errors.NewKafkaError("Produce", p.cfg.Topic, ctx.Err())
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff, p.cfg)
	}

	return errors.NewKafkaError("Produce", p.cfg.Topic, err)
}

func (p *kafkaProducer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

func nextBackoff(cur time.Duration, cfg *config.Config) time.Duration {
	factor := cfg.RetryBackoffFactor
	if factor < 1 {
		factor = 1
	}
	next := time.Duration(float64(cur) * factor)
	if cfg.RetryBackoffMax > 0 && next > cfg.RetryBackoffMax {
		next = cfg.RetryBackoffMax
	}
	return next
}
