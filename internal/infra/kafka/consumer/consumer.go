package consumer

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/config"
	kerrors "github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/errors"
)

const flushInterval = 100 * time.Millisecond

type ConsumeError struct {
	Message kafka.Message
	Err     error
}

type Option func(*Consumer)

// WithSuccessHandler 每筆處理成功 (commit 前) 的消息都會呼叫
func WithSuccessHandler(f func(kafka.Message)) Option {
	return func(c *Consumer) {
		c.handlerSuccessfunc = f
	}
}

// WithErrorHandler 重試後仍失敗的消息會交給此 handler，預設只記 log
func WithErrorHandler(f func(ConsumeError)) Option {
	return func(c *Consumer) {
		c.handlerErrorfunc = f
	}
}

// Consumer
// readMsg -> processer 處理 -> 成功 commit，失敗交給 error handler
// kafka reader 並非併發安全，只有一個 goroutine 在讀
type Consumer struct {
	isRunning atomic.Bool
	cfg       *config.Config
	logger    *zerolog.Logger
	processer Processer
	reader    KafkaReader

	ctx            context.Context
	cancel         context.CancelFunc
	processWg      sync.WaitGroup
	handleResultWg sync.WaitGroup
	stopOnce       sync.Once

	processChan chan kafka.Message
	resultChan  chan kafka.Message
	dlq         chan ConsumeError
	isStopped   chan struct{}

	handlerSuccessfunc func(kafka.Message)
	handlerErrorfunc   func(ConsumeError)

	errMu sync.Mutex
	err   error
}

func NewConsumer(reader KafkaReader, p Processer, cfg *config.Config, logger *zerolog.Logger, opts ...Option) *Consumer {
	if reader == nil {
		panic("kafka reader cannot be nil")
	}
	if p == nil {
		panic("processer cannot be nil")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	c := &Consumer{
		cfg:         cfg,
		logger:      logger,
		processer:   p,
		reader:      reader,
		processChan: make(chan kafka.Message, max(cfg.BatchSize, 1)),
		resultChan:  make(chan kafka.Message, max(cfg.BatchSize, 1)),
		dlq:         make(chan ConsumeError, max(cfg.BatchSize, 1)),
		isStopped:   make(chan struct{}),
	}
	c.handlerSuccessfunc = func(kafka.Message) {}
	c.handlerErrorfunc = func(e ConsumeError) {
		c.logger.Error().Err(e.Err).
			Str("topic", e.Message.Topic).
			Int("partition", e.Message.Partition).
			Int64("offset", e.Message.Offset).
			Msg("kafka message process failed")
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start 啟動消費，重複呼叫回傳 ErrConsumerAlreadyRunning
func (c *Consumer) Start() error {
	if !c.isRunning.CompareAndSwap(false, true) {
		return kerrors.ErrConsumerAlreadyRunning
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())

	c.handleResultWg.Add(2)
	go func() {
		defer c.handleResultWg.Done()
		c.handleResult(c.resultChan)
	}()
	go func() {
		defer c.handleResultWg.Done()
		c.handleError(c.dlq)
	}()

	workers := max(c.cfg.ProcesserNum, 1)
	for i := 0; i < workers; i++ {
		c.processWg.Add(1)
		go func() {
			defer c.processWg.Done()
			c.process(c.processChan, c.resultChan, c.dlq)
		}()
	}
	go c.readMsg(c.ctx, c.processChan)
	return nil
}

// 以關閉 in 當作結束訊號，會持續處理直到 in 沒有訊息
// 批次處理，若其中一個錯誤，則整批重試，仍失敗則整批進 dlq
func (c *Consumer) process(in <-chan kafka.Message, out chan<- kafka.Message, dlq chan<- ConsumeError) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batchSize := max(c.cfg.BatchSize, 1)
	batch := make([]kafka.Message, 0, batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := c.processWithRetry(batch); err != nil {
			for _, msg := range batch {
				dlq <- ConsumeError{Message: msg, Err: err}
			}
		} else {
			for _, msg := range batch {
				out <- msg
			}
		}
		batch = batch[:0]
	}

	for {
		select {
		case msg, ok := <-in:
			if !ok {
				flush()
				return
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// 處理不受 Stop 取消，讓已讀取的消息能處理完畢
func (c *Consumer) processWithRetry(batch []kafka.Message) error {
	ctx := context.Background()
	backoff := c.cfg.RetryBackoffMin
	var err error
	for attempt := 0; attempt <= c.cfg.MaxRetryAttempts; attempt++ {
		if err = c.processer.Process(ctx, batch); err == nil {
			return nil
		}
		if attempt == c.cfg.MaxRetryAttempts {
			break
		}
		c.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("kafka process retry")
		time.Sleep(backoff)
		backoff = c.nextBackoff(backoff)
	}
	return err
}

// readMsg 由單一 goroutine 執行
// 依據錯誤類型重試，或者直接關閉 consumer
func (c *Consumer) readMsg(ctx context.Context, in chan<- kafka.Message) {
	defer c.stop()
	defer close(in)

	failures := 0
	backoff := c.cfg.RetryBackoffMin

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded) ||
				ctx.Err() != nil {
				c.logger.Info().Err(err).Str("topic", c.cfg.Topic).Msg("kafka reader closed")
				return
			}

			kafkaErr := kerrors.NewKafkaError("FetchMessage", c.cfg.Topic, err)
			if kerrors.IsFatalError(err) {
				c.logger.Error().Err(kafkaErr).Msg("kafka reader fatal error, stopping consumer")
				c.setErr(kafkaErr)
				return
			}

			failures++
			if failures > c.cfg.MaxRetryAttempts {
				c.logger.Error().Err(kafkaErr).Int("failures", failures).Msg("kafka reader retry exhausted")
				c.setErr(errors.Join(kerrors.ErrRetryExhausted, kafkaErr))
				return
			}

			c.logger.Warn().Err(kafkaErr).Int("failures", failures).Msg("kafka fetch failed, retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff = c.nextBackoff(backoff)
			continue
		}

		failures = 0
		backoff = c.cfg.RetryBackoffMin

		select {
		case in <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// 藉由關閉 in 來退出
func (c *Consumer) handleResult(in <-chan kafka.Message) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	toCommit := make([]kafka.Message, 0, max(c.cfg.BatchSize, 1))

	commitMsgs := func() {
		if len(toCommit) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		if err := c.reader.CommitMessages(ctx, toCommit...); err != nil {
			c.logger.Error().Err(kerrors.NewKafkaError("CommitMessages", c.cfg.Topic, err)).
				Int("count", len(toCommit)).Msg("kafka commit failed")
		}
		cancel()
		toCommit = toCommit[:0]
	}

	for {
		select {
		case msg, ok := <-in:
			if !ok {
				commitMsgs()
				return
			}
			c.handlerSuccessfunc(msg)
			toCommit = append(toCommit, msg)
		case <-ticker.C:
			commitMsgs()
		}
	}
}

func (c *Consumer) handleError(dlq <-chan ConsumeError) {
	for e := range dlq {
		c.handlerErrorfunc(e)
	}
}

// Stop
// 1. reader 停止讀取並關閉 processChan
// 2. 等待 process goroutine 消耗完剩餘消息
// 3. 關閉 resultChan / dlq，等待最後一次 commit
// timeout 內未完成回傳錯誤，剩餘資料交給 kafka 重送
func (c *Consumer) Stop(timeout time.Duration) error {
	if !c.isRunning.Load() {
		select {
		case <-c.isStopped:
		default:
			return nil
		}
	}
	c.cancel()

	select {
	case <-c.isStopped:
		return c.reader.Close()
	case <-time.After(timeout):
		return errors.New("kafka consumer close timeout")
	}
}

func (c *Consumer) stop() {
	c.stopOnce.Do(func() {
		c.cancel()
		c.processWg.Wait()
		close(c.resultChan)
		close(c.dlq)
		c.handleResultWg.Wait()
		c.isRunning.Store(false)
		close(c.isStopped)
	})
}

// C 在 consumer 完全停止後關閉
func (c *Consumer) C() <-chan struct{} {
	return c.isStopped
}

// Err 回傳讓 consumer 自行停止的錯誤，正常關閉為 nil
func (c *Consumer) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *Consumer) setErr(err error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	c.err = err
}

func (c *Consumer) nextBackoff(cur time.Duration) time.Duration {
	factor := c.cfg.RetryBackoffFactor
	if factor < 1 {
		factor = 1
	}
	next := time.Duration(float64(cur) * factor)
	if c.cfg.RetryBackoffMax > 0 && next > c.cfg.RetryBackoffMax {
		next = c.cfg.RetryBackoffMax
	}
	return next
}
