package types

// OrderEvent tags rows in the order_events audit table.
type OrderEvent string

func (s OrderEvent) String() string {
	return string(s)
}

const (
	EventOrderCreated    OrderEvent = "ORDER_CREATED"
	EventOrderAccepted   OrderEvent = "ORDER_ACCEPTED"
	EventOrderRejected   OrderEvent = "ORDER_REJECTED"
	EventOrderOnTheWay   OrderEvent = "ORDER_ON_THE_WAY"
	EventOrderDelivered  OrderEvent = "ORDER_DELIVERED"
	EventOrderReceived   OrderEvent = "ORDER_RECEIVED"
	EventStatusChanged   OrderEvent = "STATUS_CHANGED"
	EventLocationUpdated OrderEvent = "LOCATION_UPDATED"
)
