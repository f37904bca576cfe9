package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/jitter"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/jackc/pgx/v5"
)

// WorkerCfg: параметры разбора outbox.
type WorkerCfg struct {
	BatchSize    int
	PollInterval time.Duration
	StaleAfter   time.Duration
	Channel      string // канал LISTEN; пустой dbConnStr отключает подписку
}

// OutboxWorker переносит события из outbox в Kafka. Будится NOTIFY после коммита
// и периодическим опросом на случай потерянного уведомления.
type OutboxWorker struct {
	queue     usecase.OutboxQueue
	logger    logger.Logger
	producer  usecase.MessageProducer
	cfg       WorkerCfg
	dbConnStr string

	wake   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOutboxWorker(
	queue usecase.OutboxQueue,
	logger logger.Logger,
	producer usecase.MessageProducer,
	cfg WorkerCfg,
	dbConnStr string,
) *OutboxWorker {
	return &OutboxWorker{
		queue:     queue,
		logger:    logger,
		producer:  producer,
		cfg:       cfg,
		dbConnStr: dbConnStr,
		wake:      make(chan struct{}, 1),
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	if w.dbConnStr != "" {
		// Запускаем слушатель уведомлений
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.listenOutboxNotifications(ctx)
		}()
	}
}

func (w *OutboxWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

// Notify будит воркер без ожидания очередного тика.
func (w *OutboxWorker) Notify() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *OutboxWorker) run(ctx context.Context) {
	// Обрабатываем "остатки" при старте
	w.logger.Infof("Draining pending outbox events on startup...")
	w.drain(ctx)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Outbox worker stopped")
			return
		case <-ticker.C:
			if n, err := w.queue.ReclaimStale(ctx, w.cfg.StaleAfter); err != nil {
				w.logger.Warnf("reclaim stale outbox events failed: %v", err)
			} else if n > 0 {
				w.logger.Infof("Reclaimed %d stale outbox events", n)
			}
			w.drain(ctx)
		case <-w.wake:
			w.drain(ctx)
		}
	}
}

func (w *OutboxWorker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	var (
		conn     *pgx.Conn
		failures int
		backoff  = jitter.NewBackoff(time.Second, 30*time.Second)
	)

	connect := func() error {
		var err error
		conn, err = pgx.Connect(ctx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err = conn.Exec(ctx, "LISTEN "+w.cfg.Channel); err != nil {
			conn.Close(ctx)
			conn = nil
			return e.Wrap("failed to LISTEN", err)
		}

		w.logger.Infof("Subscribed to '%s' channel", w.cfg.Channel)
		return nil
	}

	defer func() {
		if conn != nil {
			conn.Close(context.Background())
		}
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		if conn == nil {
			if err := connect(); err != nil {
				w.logger.Warnf("LISTEN connect failed: %v", err)
				if !sleepCtx(ctx, backoff.Delay(failures)) {
					return
				}
				failures++
				continue
			}
			failures = 0
			// пока подписки не было, уведомления могли потеряться
			w.Notify()
		}

		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.Warnf("Connection lost: %v. Reconnecting...", err)
			conn.Close(ctx)
			conn = nil
			if !sleepCtx(ctx, backoff.Delay(0)) {
				return
			}
			continue
		}

		if notif != nil && notif.Channel == w.cfg.Channel {
			w.logger.Debugf("Received outbox notification")
			w.Notify()
		}
	}
}

// processBatch отправляет одну пачку и сообщает, могут ли остаться ещё события.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.queue.GetAndMarkAsProcessing(ctx, w.cfg.BatchSize)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			w.logger.Warnf("outbox event %d not delivered: %v", event.ID, err)

			// Временную ошибку сразу возвращаем в очередь; остальные
			// дождутся ReclaimStale, чтобы не крутить отправку в цикле.
			if isRetryableError(err) {
				if rerr := w.queue.ReleaseToPending(ctx, event.ID); rerr != nil {
					w.logger.Warnf("release outbox event %d failed: %v", event.ID, rerr)
				}
				return false, nil
			}
			continue
		}

		if err := w.queue.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	return len(events) == w.cfg.BatchSize, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	if err := w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event.AggregateID, event.Payload)); err != nil {
		if isRetryableError(err) {
			return e.Wrap("Temporary Kafka failure, will retry", err)
		}
		return e.Wrap("Permanent Kafka failure", err)
	}
	return nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"leader not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
