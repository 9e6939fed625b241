package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
	"github.com/yasir870/khobzak-delivery-system/pkg/metrics"
	"github.com/yasir870/khobzak-delivery-system/pkg/rabbit"
)

// Producer publishes delivery events to the topic exchanges. Publishes
// are retried a few times before giving up; callers treat a returned
// error as a dropped fan-out, not a failed operation.
type Producer struct {
	client      *rabbit.RabbitMQ
	serviceName string
}

func NewProducer(client *rabbit.RabbitMQ, serviceName string) *Producer {
	return &Producer{
		client:      client,
		serviceName: serviceName,
	}
}

func (p *Producer) publish(ctx context.Context, exchange, routingKey string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:   "application/json",
		Body:          body,
		Timestamp:     time.Now(),
		CorrelationId: wrap.GetRequestID(ctx),
	}

	err = retry(5, 2*time.Second, func() error {
		if err := p.client.EnsureConnection(ctx); err != nil {
			return err
		}
		return p.client.Channel.PublishWithContext(ctx, exchange, routingKey, false, false, pub)
	})

	metrics.RecordRabbitMQPublish(p.serviceName, exchange, err)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (p *Producer) PublishLocationUpdate(ctx context.Context, msg models.CourierLocationUpdate) error {
	ctx = wrap.WithAction(ctx, "publish_location_update")

	if err := p.publish(ctx, ExchangeCourierTopic, courierLocationKey(msg.CourierID.String()), msg); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrPublishFailed, err))
	}
	return nil
}

func (p *Producer) PublishOrderStatus(ctx context.Context, msg models.OrderStatusUpdate) error {
	ctx = wrap.WithAction(ctx, "publish_order_status")
	msg.CorrelationID = wrap.GetRequestID(ctx)

	if err := p.publish(ctx, ExchangeOrderTopic, orderStatusKey(msg.OrderID.String()), msg); err != nil {
		return wrap.Error(ctx, err)
	}
	return nil
}

func (p *Producer) PublishCourierStatus(ctx context.Context, msg models.CourierStatusUpdate) error {
	ctx = wrap.WithAction(ctx, "publish_courier_status")

	if err := p.publish(ctx, ExchangeCourierTopic, courierStatusKey(msg.CourierID.String()), msg); err != nil {
		return wrap.Error(ctx, err)
	}
	return nil
}
