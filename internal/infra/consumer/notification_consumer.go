package consumer

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model/event"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/consumer"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/message"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/producer"
)

// NotificationRecorder 寫入通知，必須對 (order, kind) 冪等
type NotificationRecorder interface {
	RecordPaymentSucceeded(ctx context.Context, evt *event.PaymentSucceededEvent) error
}

/*
負責接收付款成功事件，寫入使用者通知
無法解析的消息只記 log 並略過，避免整個 partition 卡住
*/
type NotificationProcesser struct {
	recorder NotificationRecorder
	logger   *zerolog.Logger
}

func NewNotificationProcesser(recorder NotificationRecorder, logger *zerolog.Logger) *NotificationProcesser {
	if recorder == nil {
		panic("notification recorder cannot be nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &NotificationProcesser{recorder: recorder, logger: logger}
}

func (p *NotificationProcesser) Process(ctx context.Context, msgs []kafka.Message) error {
	for _, km := range msgs {
		msg := message.FromKafkaMessage(km)

		if typ, ok := msg.HeaderValue(producer.HeaderEventType); ok && typ != string(event.PaymentSucceededEventName) {
			p.logger.Debug().Str("event_type", typ).Msg("skip unsupported event")
			continue
		}

		var evt event.PaymentSucceededEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil || evt.OrderOID == "" {
			p.logger.Error().Err(err).
				Int64("offset", msg.Offset).
				Int("partition", msg.Partition).
				Msg("drop malformed payment event")
			continue
		}

		if err := p.recorder.RecordPaymentSucceeded(ctx, &evt); err != nil {
			return err
		}
	}
	return nil
}

var _ consumer.Processer = (*NotificationProcesser)(nil)
