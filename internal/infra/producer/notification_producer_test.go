package producer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model/event"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/message"
	mock_producer "github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/producer/mock"
)

func TestPaymentSucceeded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	evt := event.NewPaymentSucceededEvent(3, "oid-3", 42, "PP-3", decimal.RequireFromString("19.90"))

	p := mock_producer.NewMockProducer(ctrl)
	p.EXPECT().Produce(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msgs []message.Message) error {
			require.Len(t, msgs, 1)
			msg := msgs[0]
			require.Equal(t, "42", string(msg.Key))

			typ, ok := msg.HeaderValue(HeaderEventType)
			require.True(t, ok)
			require.Equal(t, string(event.PaymentSucceededEventName), typ)

			id, ok := msg.HeaderValue(HeaderEventID)
			require.True(t, ok)
			require.Equal(t, evt.EventID, id)

			var decoded event.PaymentSucceededEvent
			require.NoError(t, json.Unmarshal(msg.Value, &decoded))
			require.Equal(t, "oid-3", decoded.OrderOID)
			require.True(t, decoded.Amount.Equal(evt.Amount))
			return nil
		}).Times(1)

	require.NoError(t, NewNotificationProducer(p).PaymentSucceeded(context.Background(), evt))
}

func TestPaymentSucceeded_ProduceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	errBroker := errors.New("broker down")
	p := mock_producer.NewMockProducer(ctrl)
	p.EXPECT().Produce(gomock.Any(), gomock.Any()).Return(errBroker)

	evt := event.NewPaymentSucceededEvent(1, "oid", 1, "PP", decimal.NewFromInt(1))
	require.ErrorIs(t, NewNotificationProducer(p).PaymentSucceeded(context.Background(), evt), errBroker)
}
