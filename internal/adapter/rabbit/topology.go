package rabbit

import (
	"fmt"

	"github.com/yasir870/khobzak-delivery-system/pkg/rabbit"
)

const (
	// ExchangeOrderTopic carries order lifecycle messages, routed by
	// order.status.<order_id>.
	ExchangeOrderTopic = "order_topic"

	// ExchangeCourierTopic carries courier availability and location
	// messages, routed by courier.status.<courier_id> and
	// location.courier.<courier_id>.
	ExchangeCourierTopic = "courier_topic"
)

// DeclareTopology declares the exchanges every service relies on.
// Idempotent, each service declares on startup.
func DeclareTopology(client *rabbit.RabbitMQ) error {
	for _, exchange := range []string{ExchangeOrderTopic, ExchangeCourierTopic} {
		if err := client.Channel.ExchangeDeclare(
			exchange,
			"topic",
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
		}
	}
	return nil
}

func orderStatusKey(orderID string) string {
	return fmt.Sprintf("order.status.%s", orderID)
}

func courierStatusKey(courierID string) string {
	return fmt.Sprintf("courier.status.%s", courierID)
}

func courierLocationKey(courierID string) string {
	return fmt.Sprintf("location.courier.%s", courierID)
}
