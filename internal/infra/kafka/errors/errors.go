package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/segmentio/kafka-go"
)

var (
	// ErrProducerClosed producer 已經 Close
	ErrProducerClosed = errors.New("kafka producer is closed")
	// ErrConsumerClosed consumer 已經停止
	ErrConsumerClosed = errors.New("kafka consumer is closed")
	// ErrConsumerAlreadyRunning 同一個 consumer 只能 Start 一次
	ErrConsumerAlreadyRunning = errors.New("kafka consumer is already running")
	// ErrRetryExhausted 連續讀取失敗超過上限
	ErrRetryExhausted = errors.New("kafka retry attempts exhausted")
)

// KafkaError 代表 Kafka 操作錯誤
type KafkaError struct {
	Operation string
	Topic     string
	Err       error
}

func (e *KafkaError) Error() string {
	return fmt.Sprintf("kafka operation %s on topic %s failed: %v", e.Operation, e.Topic, e.Err)
}

func (e *KafkaError) Unwrap() error {
	return e.Err
}

func NewKafkaError(operation, topic string, err error) error {
	return &KafkaError{
		Operation: operation,
		Topic:     topic,
		Err:       err,
	}
}

func unwrapKafkaError(err error) error {
	var kafkaErr *KafkaError
	if errors.As(err, &kafkaErr) {
		return kafkaErr.Err
	}
	return err
}

// IsConnectionError 判斷是否為網路層錯誤，需要等待重連
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	err = unwrapKafkaError(err)

	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset by peer") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no route to host") ||
		strings.Contains(errStr, "network is unreachable")
}

// IsFatalError 判斷是否為致命錯誤（不可重試）
func IsFatalError(err error) bool {
	if err == nil {
		return false
	}
	err = unwrapKafkaError(err)

	if errors.Is(err, kafka.TopicAuthorizationFailed) ||
		errors.Is(err, kafka.GroupAuthorizationFailed) ||
		errors.Is(err, kafka.ClusterAuthorizationFailed) ||
		errors.Is(err, kafka.SASLAuthenticationFailed) ||
		errors.Is(err, kafka.UnknownTopicOrPartition) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "authentication failed") ||
		strings.Contains(errStr, "authorization failed") ||
		strings.Contains(errStr, "not authorized") ||
		strings.Contains(errStr, "permission denied") ||
		strings.Contains(errStr, "invalid topic")
}

// IsTemporaryError 判斷是否為可重試的臨時錯誤
// 連線錯誤與致命錯誤都不在此列
func IsTemporaryError(err error) bool {
	if err == nil {
		return false
	}
	if IsConnectionError(err) || IsFatalError(err) {
		return false
	}
	err = unwrapKafkaError(err)

	if errors.Is(err, kafka.LeaderNotAvailable) ||
		errors.Is(err, kafka.NotLeaderForPartition) ||
		errors.Is(err, kafka.RequestTimedOut) ||
		errors.Is(err, kafka.RebalanceInProgress) ||
		errors.Is(err, kafka.NotEnoughReplicas) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var kerr kafka.Error
	if errors.As(err, &kerr) {
		return kerr.Temporary()
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "temporary") ||
		strings.Contains(errStr, "retriable") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "coordinator load in progress")
}
