package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/repository/memory"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeProducer struct {
	mu   sync.Mutex
	sent []*usecase.WriteRawMessageReq
	errs []error // ошибки по очереди на каждый вызов
	got  chan struct{}
}

func (p *fakeProducer) WriteRawMessage(ctx context.Context, req *usecase.WriteRawMessageReq) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.errs) > 0 {
		err := p.errs[0]
		p.errs = p.errs[1:]
		if err != nil {
			return err
		}
	}

	p.sent = append(p.sent, req)
	if p.got != nil {
		p.got <- struct{}{}
	}
	return nil
}

func (p *fakeProducer) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	keys := make([]string, 0, len(p.sent))
	for _, r := range p.sent {
		keys = append(keys, r.Key)
	}
	return keys
}

func seedEvents(t *testing.T, outbox *memory.OutboxRepo, n int) []string {
	t.Helper()

	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		order := domain.NewOrder(uuid.New(), "user-1", nil, nil, nil)
		event := usecase.NewOrderEvent(usecase.EventOrderCreated, order, "", "user-1", time.Now())
		_, err := outbox.Create(context.Background(), usecase.NewOutboxEvent(event, []byte("payload")))
		require.NoError(t, err)
		keys = append(keys, order.ID.String())
	}
	return keys
}

func statuses(outbox *memory.OutboxRepo) []usecase.OutboxStatus {
	var res []usecase.OutboxStatus
	for _, ev := range outbox.Events() {
		res = append(res, ev.Status)
	}
	return res
}

func newTestWorker(outbox usecase.OutboxQueue, producer usecase.MessageProducer, batch int) *OutboxWorker {
	return NewOutboxWorker(outbox, logger.NewDiscardLogger(), producer, WorkerCfg{
		BatchSize:    batch,
		PollInterval: time.Hour,
		StaleAfter:   time.Minute,
		Channel:      "outbox_pending",
	}, "")
}

func TestOutboxWorker_DrainDeliversInOrder(t *testing.T) {
	outbox := memory.NewStore().Outbox()
	keys := seedEvents(t, outbox, 5)
	producer := &fakeProducer{}

	w := newTestWorker(outbox, producer, 2)
	w.drain(context.Background())

	assert.Equal(t, keys, producer.Keys())
	for _, s := range statuses(outbox) {
		assert.Equal(t, usecase.Processed, s)
	}
}

func TestOutboxWorker_RetryableFailureReleasesEvent(t *testing.T) {
	outbox := memory.NewStore().Outbox()
	seedEvents(t, outbox, 2)
	producer := &fakeProducer{errs: []error{errors.New("dial tcp: connection refused")}}

	w := newTestWorker(outbox, producer, 10)

	hasMore, err := w.processBatch(context.Background())
	require.NoError(t, err)
	assert.False(t, hasMore)
	assert.Empty(t, producer.Keys())
	assert.Equal(t, []usecase.OutboxStatus{usecase.Pending, usecase.Processing}, statuses(outbox))

	// второе событие осталось в processing до ReclaimStale
	_, err = outbox.ReclaimStale(context.Background(), 0)
	require.NoError(t, err)

	w.drain(context.Background())
	assert.Len(t, producer.Keys(), 2)
	assert.Equal(t, []usecase.OutboxStatus{usecase.Processed, usecase.Processed}, statuses(outbox))
}

func TestOutboxWorker_PermanentFailureWaitsForReclaim(t *testing.T) {
	outbox := memory.NewStore().Outbox()
	keys := seedEvents(t, outbox, 2)
	producer := &fakeProducer{errs: []error{errors.New("message too large")}}

	w := newTestWorker(outbox, producer, 10)
	w.drain(context.Background())

	assert.Equal(t, keys[1:], producer.Keys())
	assert.Equal(t, []usecase.OutboxStatus{usecase.Processing, usecase.Processed}, statuses(outbox))

	n, err := outbox.ReclaimStale(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	w.drain(context.Background())
	assert.Equal(t, []string{keys[1], keys[0]}, producer.Keys())
}

func TestOutboxWorker_StartNotifyStop(t *testing.T) {
	outbox := memory.NewStore().Outbox()
	producer := &fakeProducer{got: make(chan struct{}, 10)}

	w := newTestWorker(outbox, producer, 10)
	w.Start(context.Background())
	defer w.Stop()

	keys := seedEvents(t, outbox, 1)
	w.Notify()

	select {
	case <-producer.got:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not published")
	}
	assert.Equal(t, keys, producer.Keys())
}

func TestEventCodec_EncodeOrderEvent(t *testing.T) {
	codec := NewEventCodec()
	order := domain.NewOrder(uuid.New(), "user-7", []domain.OrderItem{
		{ProductID: 3, ProductName: "Lamp", Quantity: 2, Price: decimal.RequireFromString("10.5")},
	}, nil, nil)
	event := usecase.NewOrderEvent(usecase.EventOrderCancelled, order, domain.StatusPending, "admin-1", time.Now())

	payload, err := codec.EncodeOrderEvent(event)
	require.NoError(t, err)

	msg, err := codec.DecodeOrderEvent(payload)
	require.NoError(t, err)

	fields := msg.AsMap()
	assert.Equal(t, "order.cancelled", fields["eventType"])
	assert.Equal(t, order.ID.String(), fields["orderId"])
	assert.Equal(t, "pending", fields["previousStatus"])
	assert.Equal(t, "21.00", fields["totalAmount"])

	items, ok := fields["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "10.50", items[0].(map[string]any)["price"])
}
