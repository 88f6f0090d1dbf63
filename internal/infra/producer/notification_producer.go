package producer

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model/event"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/message"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/producer"
)

const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)

// NotificationProducer 將付款成功事件送到通知 topic，key = user id
type NotificationProducer struct {
	producer producer.Producer
}

func NewNotificationProducer(p producer.Producer) *NotificationProducer {
	if p == nil {
		panic("kafka producer cannot be nil")
	}
	return &NotificationProducer{producer: p}
}

func (p *NotificationProducer) PaymentSucceeded(ctx context.Context, evt *event.PaymentSucceededEvent) error {
	msg, err := convertToMessage(evt)
	if err != nil {
		return err
	}
	return p.producer.Produce(ctx, []message.Message{msg})
}

func (p *NotificationProducer) Close() error {
	return p.producer.Close()
}

func convertToMessage(evt event.Event) (message.Message, error) {
	value, err := json.Marshal(evt)
	if err != nil {
		return message.Message{}, err
	}

	var key string
	switch e := evt.(type) {
	case *event.PaymentSucceededEvent:
		key = strconv.FormatInt(e.UserID, 10)
	default:
		key = evt.GetID()
	}

	return message.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []message.Header{
			{Key: HeaderEventType, Value: []byte(evt.Type())},
			{Key: HeaderEventID, Value: []byte(evt.GetID())},
		},
	}, nil
}
