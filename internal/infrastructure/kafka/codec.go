package kafka

import (
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// EventCodec кодирует события заказов в protobuf (google.protobuf.Struct).
// Денежные суммы передаются строками, чтобы не терять точность.
type EventCodec struct{}

func NewEventCodec() EventCodec {
	return EventCodec{}
}

func (EventCodec) EncodeOrderEvent(event *usecase.OrderEvent) ([]byte, error) {
	items := make([]any, 0, len(event.Items))
	for _, it := range event.Items {
		items = append(items, map[string]any{
			"productId":   it.ProductID,
			"productName": it.ProductName,
			"quantity":    it.Quantity,
			"price":       it.Price.StringFixed(2),
		})
	}

	fields := map[string]any{
		"eventId":     event.EventID.String(),
		"eventType":   string(event.Type),
		"orderId":     event.OrderID.String(),
		"userId":      event.UserID,
		"actorId":     event.ActorID,
		"status":      string(event.Status),
		"totalAmount": event.TotalAmount.StringFixed(2),
		"items":       items,
		"occurredAt":  event.OccurredAt.UnixNano(),
	}
	if event.PreviousStatus != "" {
		fields["previousStatus"] = string(event.PreviousStatus)
	}

	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return proto.Marshal(msg)
}

// DecodeOrderEvent разбирает payload обратно в Struct; используется потребителями и тестами.
func (EventCodec) DecodeOrderEvent(payload []byte) (*structpb.Struct, error) {
	var msg structpb.Struct
	if err := proto.Unmarshal(payload, &msg); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &msg, nil
}
