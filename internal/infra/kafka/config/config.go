package config

import (
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
)

var ErrInvalidConfig = errors.New("invalid kafka config")

// Config represents the configuration for Kafka client
type Config struct {
	// Broker 配置
	Brokers []string
	Topic   string

	// 消費者配置
	ConsumerGroup    string
	ConsumerMinBytes int
	ConsumerMaxBytes int
	ConsumerMaxWait  time.Duration
	CommitInterval   time.Duration
	ProcesserNum     int
	BatchSize        int

	// 生產者配置
	RequiredAcks  int
	BatchTimeout  time.Duration
	RetryAttempts int
	Timeout       time.Duration

	// 重連相關配置
	MaxRetryAttempts   int           // 讀取連續失敗次數上限
	RetryBackoffMin    time.Duration // 最小重試間隔
	RetryBackoffMax    time.Duration // 最大重試間隔
	RetryBackoffFactor float64       // 重試間隔增長因子

	// 分區策略配置
	Balancer kafka.Balancer
}

// GetBalancer 取得負載平衡器，沒有設定則使用 Hash，讓同一個 user 的事件落在同一個分區
func (c *Config) GetBalancer() kafka.Balancer {
	if c.Balancer != nil {
		return c.Balancer
	}
	return &kafka.Hash{}
}

func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return errors.Join(ErrInvalidConfig, errors.New("brokers is empty"))
	}
	for _, b := range c.Brokers {
		if b == "" {
			return errors.Join(ErrInvalidConfig, errors.New("broker address is empty"))
		}
	}
	if c.Topic == "" {
		return errors.Join(ErrInvalidConfig, errors.New("topic is empty"))
	}
	if c.RetryAttempts < 0 || c.MaxRetryAttempts < 0 {
		return errors.Join(ErrInvalidConfig, errors.New("retry attempts must not be negative"))
	}
	if c.RetryBackoffFactor != 0 && c.RetryBackoffFactor < 1 {
		return errors.Join(ErrInvalidConfig, errors.New("retry backoff factor must be >= 1"))
	}
	return nil
}

// DefaultConfig returns a Config with default settings
func DefaultConfig() *Config {
	return &Config{
		ConsumerMinBytes:   1,
		ConsumerMaxBytes:   10e6, // 10MB
		ConsumerMaxWait:    500 * time.Millisecond,
		CommitInterval:     0, // 同步 commit，處理成功才 commit
		ProcesserNum:       1,
		BatchSize:          100,
		RequiredAcks:       -1, // 等待所有副本確認
		BatchTimeout:       10 * time.Millisecond,
		RetryAttempts:      3,
		Timeout:            5 * time.Second,
		MaxRetryAttempts:   5,
		RetryBackoffMin:    100 * time.Millisecond,
		RetryBackoffMax:    5 * time.Second,
		RetryBackoffFactor: 2,
	}
}
