package order

import (
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
)

type transition struct {
	from types.OrderStatus
	to   types.OrderStatus
}

// allowed maps each legal transition to the actor that may cause it.
//
//	PENDING  → ACCEPTED    courier (assigns courier to order)
//	PENDING  → REJECTED    courier (courier stays unassigned)
//	ACCEPTED → REJECTED    courier (backs out, courier reset to null)
//	ACCEPTED → ON_THE_WAY  courier (departs with the order)
//	ACCEPTED → DELIVERED   courier (stamps delivered-at)
//	ON_THE_WAY → DELIVERED courier (stamps delivered-at)
//	ON_THE_WAY → RECEIVED  customer (confirms receipt, stamps delivered-at)
//	DELIVERED → RECEIVED   customer (confirms after the courier's hand-off)
var allowed = map[transition]types.Actor{
	{types.StatusPending, types.StatusAccepted}:   types.ActorCourier,
	{types.StatusPending, types.StatusRejected}:   types.ActorCourier,
	{types.StatusAccepted, types.StatusRejected}:  types.ActorCourier,
	{types.StatusAccepted, types.StatusOnTheWay}:  types.ActorCourier,
	{types.StatusAccepted, types.StatusDelivered}: types.ActorCourier,
	{types.StatusOnTheWay, types.StatusDelivered}: types.ActorCourier,
	{types.StatusOnTheWay, types.StatusReceived}:  types.ActorCustomer,
	{types.StatusDelivered, types.StatusReceived}: types.ActorCustomer,
}

// CanTransition reports whether actor may move an order from one status
// to another.
func CanTransition(from, to types.OrderStatus, actor types.Actor) bool {
	want, ok := allowed[transition{from, to}]
	return ok && want == actor
}

// StampsDeliveredAt reports whether entering the status records the
// delivery timestamp.
func StampsDeliveredAt(to types.OrderStatus) bool {
	return to == types.StatusDelivered || to == types.StatusReceived
}

// eventFor maps a target status to its audit event type.
func eventFor(to types.OrderStatus) types.OrderEvent {
	switch to {
	case types.StatusAccepted:
		return types.EventOrderAccepted
	case types.StatusRejected:
		return types.EventOrderRejected
	case types.StatusOnTheWay:
		return types.EventOrderOnTheWay
	case types.StatusDelivered:
		return types.EventOrderDelivered
	case types.StatusReceived:
		return types.EventOrderReceived
	default:
		return types.EventStatusChanged
	}
}
