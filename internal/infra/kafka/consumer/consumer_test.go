package consumer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/config"
	mock_consumer "github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/consumer/mock"
	kerrors "github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/errors"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Brokers = []string{"localhost:9092"}
	cfg.Topic = "shop.payment.succeeded"
	cfg.ProcesserNum = 3
	cfg.BatchSize = 10
	cfg.MaxRetryAttempts = 2
	cfg.RetryBackoffMin = time.Millisecond
	cfg.RetryBackoffMax = 5 * time.Millisecond
	return cfg
}

func generateTestMessage(n int) []kafka.Message {
	msgs := make([]kafka.Message, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, kafka.Message{
			Key:    []byte(fmt.Sprintf("%d", i)),
			Value:  []byte(fmt.Sprintf(`{"n":%d}`, i)),
			Offset: int64(i),
		})
	}
	return msgs
}

// feedReader 依序回傳 msgs，之後回傳 endErr
func feedReader(reader *mock_consumer.MockKafkaReader, msgs []kafka.Message, errs []error, endErr error) {
	var mu sync.Mutex
	i, j := 0, 0
	reader.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
			mu.Lock()
			defer mu.Unlock()
			if j < len(errs) {
				j++
				return kafka.Message{}, errs[j-1]
			}
			if i < len(msgs) {
				i++
				return msgs[i-1], nil
			}
			return kafka.Message{}, endErr
		}).AnyTimes()
}

type recorder struct {
	mu        sync.Mutex
	committed map[string]struct{}
	success   int
	failed    int
}

func newRecorder() *recorder {
	return &recorder{committed: map[string]struct{}{}}
}

func (r *recorder) commit(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed[string(m.Key)] = struct{}{}
	}
	return nil
}

func (r *recorder) onSuccess(kafka.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
}

func (r *recorder) onError(ConsumeError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
}

func waitStopped(t *testing.T, c *Consumer) {
	select {
	case <-c.C():
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestConsumer(t *testing.T) {
	testCases := []struct {
		name          string
		msgs          int
		setUpMock     func(reader *mock_consumer.MockKafkaReader, p *mock_consumer.MockProcesser, rec *recorder, msgs []kafka.Message)
		checkResponse func(t *testing.T, c *Consumer, rec *recorder)
	}{
		{
			name: "all pass, reader EOF end",
			msgs: 100,
			setUpMock: func(reader *mock_consumer.MockKafkaReader, p *mock_consumer.MockProcesser, rec *recorder, msgs []kafka.Message) {
				feedReader(reader, msgs, nil, io.EOF)
				reader.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).DoAndReturn(rec.commit).AnyTimes()
				p.EXPECT().Process(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			checkResponse: func(t *testing.T, c *Consumer, rec *recorder) {
				require.NoError(t, c.Err())
				require.Len(t, rec.committed, 100)
				require.Equal(t, 100, rec.success)
				require.Zero(t, rec.failed)
			},
		},
		{
			name: "process keeps failing, nothing committed",
			msgs: 20,
			setUpMock: func(reader *mock_consumer.MockKafkaReader, p *mock_consumer.MockProcesser, rec *recorder, msgs []kafka.Message) {
				feedReader(reader, msgs, nil, io.EOF)
				reader.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Times(0)
				p.EXPECT().Process(gomock.Any(), gomock.Any()).Return(errors.New("db down")).AnyTimes()
			},
			checkResponse: func(t *testing.T, c *Consumer, rec *recorder) {
				require.Empty(t, rec.committed)
				require.Equal(t, 20, rec.failed)
			},
		},
		{
			name: "process recovers on retry",
			msgs: 1,
			setUpMock: func(reader *mock_consumer.MockKafkaReader, p *mock_consumer.MockProcesser, rec *recorder, msgs []kafka.Message) {
				feedReader(reader, msgs, nil, io.EOF)
				reader.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).DoAndReturn(rec.commit).AnyTimes()
				gomock.InOrder(
					p.EXPECT().Process(gomock.Any(), gomock.Any()).Return(errors.New("db down")),
					p.EXPECT().Process(gomock.Any(), gomock.Any()).Return(nil),
				)
			},
			checkResponse: func(t *testing.T, c *Consumer, rec *recorder) {
				require.Len(t, rec.committed, 1)
				require.Zero(t, rec.failed)
			},
		},
		{
			name: "transient fetch errors are retried",
			msgs: 5,
			setUpMock: func(reader *mock_consumer.MockKafkaReader, p *mock_consumer.MockProcesser, rec *recorder, msgs []kafka.Message) {
				feedReader(reader, msgs, []error{kafka.LeaderNotAvailable, kafka.LeaderNotAvailable}, io.EOF)
				reader.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).DoAndReturn(rec.commit).AnyTimes()
				p.EXPECT().Process(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			checkResponse: func(t *testing.T, c *Consumer, rec *recorder) {
				require.NoError(t, c.Err())
				require.Len(t, rec.committed, 5)
			},
		},
		{
			name: "fetch errors exhaust retries",
			msgs: 0,
			setUpMock: func(reader *mock_consumer.MockKafkaReader, p *mock_consumer.MockProcesser, rec *recorder, msgs []kafka.Message) {
				reader.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, kafka.LeaderNotAvailable).Times(3)
			},
			checkResponse: func(t *testing.T, c *Consumer, rec *recorder) {
				require.ErrorIs(t, c.Err(), kerrors.ErrRetryExhausted)
			},
		},
		{
			name: "fatal fetch error stops consumer",
			msgs: 0,
			setUpMock: func(reader *mock_consumer.MockKafkaReader, p *mock_consumer.MockProcesser, rec *recorder, msgs []kafka.Message) {
				reader.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, kafka.TopicAuthorizationFailed).Times(1)
			},
			checkResponse: func(t *testing.T, c *Consumer, rec *recorder) {
				require.ErrorIs(t, c.Err(), kafka.TopicAuthorizationFailed)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			reader := mock_consumer.NewMockKafkaReader(ctrl)
			p := mock_consumer.NewMockProcesser(ctrl)
			rec := newRecorder()
			tc.setUpMock(reader, p, rec, generateTestMessage(tc.msgs))

			c := NewConsumer(reader, p, testConfig(), nil,
				WithSuccessHandler(rec.onSuccess),
				WithErrorHandler(rec.onError),
			)
			require.NoError(t, c.Start())
			waitStopped(t, c)

			rec.mu.Lock()
			defer rec.mu.Unlock()
			tc.checkResponse(t, c, rec)
		})
	}
}

func TestConsumer_StartTwiceAndStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := mock_consumer.NewMockKafkaReader(ctrl)
	reader.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
			<-ctx.Done()
			return kafka.Message{}, ctx.Err()
		}).AnyTimes()
	reader.EXPECT().Close().Return(nil).Times(1)
	p := mock_consumer.NewMockProcesser(ctrl)

	c := NewConsumer(reader, p, testConfig(), nil)
	require.NoError(t, c.Start())
	require.ErrorIs(t, c.Start(), kerrors.ErrConsumerAlreadyRunning)

	require.NoError(t, c.Stop(time.Second))
	waitStopped(t, c)
	require.NoError(t, c.Err())
}

func TestConsumer_StopBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := NewConsumer(mock_consumer.NewMockKafkaReader(ctrl), mock_consumer.NewMockProcesser(ctrl), testConfig(), nil)
	require.NoError(t, c.Stop(time.Second))
}
