// README: Realtime order feed over Redis pub/sub. Outbound: status changes and
// courier positions fan out to per-customer and per-order channels. Inbound:
// out-of-band status pushes funnel through Service.ApplyRemote, the same
// mutation path the local scheduler uses.
package order

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"kart/internal/types"
)

const (
	statusChannelPrefix   = "kart:orders:"    // + customer id
	positionChannelPrefix = "kart:positions:" // + order id
)

type statusMessage struct {
	OrderID       types.ID      `json:"order_id"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

type positionMessage struct {
	OrderID           types.ID     `json:"order_id"`
	Position          *types.Point `json:"position,omitempty"`
	DistanceRemaining float64      `json:"distance_remaining,omitempty"`
	TimeRemainingSec  int64        `json:"time_remaining_sec,omitempty"`
	Cleared           bool         `json:"cleared,omitempty"`
}

type Feed struct {
	redis *redis.Client
}

func NewFeed(redis *redis.Client) *Feed {
	return &Feed{redis: redis}
}

func (f *Feed) PublishStatus(ctx context.Context, o Order) {
	f.publish(ctx, statusChannelPrefix+string(o.CustomerID), statusMessage{
		OrderID:       o.ID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
	})
}

func (f *Feed) PublishPosition(ctx context.Context, orderID types.ID, p DriverPosition) {
	pos := p.Position
	f.publish(ctx, positionChannelPrefix+string(orderID), positionMessage{
		OrderID:           orderID,
		Position:          &pos,
		DistanceRemaining: p.DistanceRemaining,
		TimeRemainingSec:  int64(p.TimeRemaining.Seconds()),
	})
}

func (f *Feed) PublishPositionCleared(ctx context.Context, orderID types.ID) {
	f.publish(ctx, positionChannelPrefix+string(orderID), positionMessage{
		OrderID: orderID,
		Cleared: true,
	})
}

func (f *Feed) publish(ctx context.Context, channel string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("feed: marshal for %s: %v", channel, err)
		return
	}
	if err := f.redis.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("feed: publish to %s: %v", channel, err)
	}
}

// RunInbound consumes remote status pushes for all customers until the
// context is cancelled. One pattern subscription covers every per-customer
// remote channel; the payload carries the order id, so no per-session
// subscription management is needed.
func (f *Feed) RunInbound(ctx context.Context, svc *Service) {
	sub := f.redis.PSubscribe(ctx, statusChannelPrefix+"*:remote")
	defer sub.Close()

	consumeRemote(ctx, svc, sub.Channel())
}

// consumeRemote funnels each push through the service so the transition graph
// still holds; the motion loop notices conflicting pushes and stops itself.
// Malformed payloads are logged and skipped, never fatal to the feed.
func consumeRemote(ctx context.Context, svc *Service, ch <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var m statusMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				log.Printf("feed: bad remote push: %v", err)
				continue
			}
			svc.ApplyRemote(ctx, m.OrderID, m.Status)
		}
	}
}
