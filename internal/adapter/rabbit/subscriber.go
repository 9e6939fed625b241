package rabbit

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	"github.com/yasir870/khobzak-delivery-system/pkg/metrics"
	"github.com/yasir870/khobzak-delivery-system/pkg/rabbit"
)

// Subscriber attaches ephemeral, per-viewer subscriptions to the topic
// exchanges. Each subscription gets its own exclusive auto-delete queue,
// so a closed tracking session leaves nothing behind on the broker.
//
// Delivery is at-least-once: after a reconnect the broker may replay
// messages the subscriber already saw, possibly out of order. Consumers
// downstream deduplicate by timestamp.
type Subscriber struct {
	client      *rabbit.RabbitMQ
	serviceName string
	l           logger.Logger
}

func NewSubscriber(client *rabbit.RabbitMQ, serviceName string, l logger.Logger) *Subscriber {
	return &Subscriber{
		client:      client,
		serviceName: serviceName,
		l:           l,
	}
}

func (s *Subscriber) SubscribeCourierLocation(ctx context.Context, courierID uuid.UUID) (<-chan models.CourierLocationUpdate, error) {
	out := make(chan models.CourierLocationUpdate, 16)

	go s.consume(ctx, ExchangeCourierTopic, courierLocationKey(courierID.String()), func(body []byte) {
		var msg models.CourierLocationUpdate
		if err := json.Unmarshal(body, &msg); err != nil {
			s.l.Warn(ctx, "failed to decode location update", "error", err.Error())
			return
		}
		select {
		case out <- msg:
		case <-ctx.Done():
		default:
			// Viewer is not keeping up. Dropping is safe, the next
			// message carries the full latest state anyway.
		}
	}, func() { close(out) })

	return out, nil
}

func (s *Subscriber) SubscribeOrderStatus(ctx context.Context, orderID uuid.UUID) (<-chan models.OrderStatusUpdate, error) {
	out := make(chan models.OrderStatusUpdate, 16)

	go s.consume(ctx, ExchangeOrderTopic, orderStatusKey(orderID.String()), func(body []byte) {
		var msg models.OrderStatusUpdate
		if err := json.Unmarshal(body, &msg); err != nil {
			s.l.Warn(ctx, "failed to decode order status update", "error", err.Error())
			return
		}
		select {
		case out <- msg:
		case <-ctx.Done():
		}
	}, func() { close(out) })

	return out, nil
}

// SubscribeOrderStatusAll delivers every order transition in the system.
// Used by the notification bridge, which fans toasts out to whichever
// customers are connected to this instance.
func (s *Subscriber) SubscribeOrderStatusAll(ctx context.Context) (<-chan models.OrderStatusUpdate, error) {
	out := make(chan models.OrderStatusUpdate, 64)

	go s.consume(ctx, ExchangeOrderTopic, "order.status.*", func(body []byte) {
		var msg models.OrderStatusUpdate
		if err := json.Unmarshal(body, &msg); err != nil {
			s.l.Warn(ctx, "failed to decode order status update", "error", err.Error())
			return
		}
		select {
		case out <- msg:
		case <-ctx.Done():
		}
	}, func() { close(out) })

	return out, nil
}

// consume runs the reconnecting consumer loop: declare an exclusive
// queue, bind it to the exchange with the routing key, and pump
// deliveries into handle until the context ends.
func (s *Subscriber) consume(ctx context.Context, exchange, routingKey string, handle func(body []byte), done func()) {
	defer done()

	for {
		if ctx.Err() != nil {
			return
		}

		if err := s.client.EnsureConnection(ctx); err != nil {
			s.l.Error(ctx, "ensure connection failed", err, "exchange", exchange)
			time.Sleep(2 * time.Second)
			continue
		}

		msgs, err := s.attach(exchange, routingKey)
		if err != nil {
			s.l.Error(ctx, "failed to attach subscription", err, "exchange", exchange, "key", routingKey)
			time.Sleep(2 * time.Second)
			continue
		}

		s.l.Debug(ctx, "subscription attached", "exchange", exchange, "key", routingKey)

	consumeLoop:
		for {
			select {
			case <-ctx.Done():
				return

			case msg, ok := <-msgs:
				if !ok {
					s.l.Warn(ctx, "message channel closed, reconnecting...", "exchange", exchange)
					time.Sleep(2 * time.Second)
					break consumeLoop
				}

				metrics.RecordRabbitMQConsume(s.serviceName, exchange, nil)
				handle(msg.Body)
			}
		}
	}
}

func (s *Subscriber) attach(exchange, routingKey string) (<-chan amqp.Delivery, error) {
	q, err := s.client.Channel.QueueDeclare(
		"",    // broker-generated name
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, err
	}

	if err := s.client.Channel.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
		return nil, err
	}

	return s.client.Channel.Consume(q.Name, "", true, true, false, false, nil)
}
