package order

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
)

var testLog = logger.InitLogger("test", logger.LevelError)

/*========================= fakes =========================*/

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type updateCall struct {
	from, to    types.OrderStatus
	courierID   *uuid.UUID
	deliveredAt *time.Time
}

type fakeOrderRepo struct {
	orders  map[uuid.UUID]*models.Order
	updates []updateCall
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	order.ID = uuid.New()
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, types.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to types.OrderStatus, courierID *uuid.UUID, deliveredAt *time.Time) error {
	o, ok := r.orders[orderID]
	if !ok {
		return types.ErrOrderNotFound
	}
	if o.Status != from {
		if from == types.StatusPending && to == types.StatusAccepted {
			return types.ErrOrderAlreadyTaken
		}
		return types.ErrInvalidTransition
	}
	o.Status = to
	o.CourierID = courierID
	if deliveredAt != nil && o.DeliveredAt == nil {
		o.DeliveredAt = deliveredAt
	}
	r.updates = append(r.updates, updateCall{from: from, to: to, courierID: courierID, deliveredAt: deliveredAt})
	return nil
}

func (r *fakeOrderRepo) ListPending(ctx context.Context) ([]models.OrderSummary, error) {
	return nil, nil
}

func (r *fakeOrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.OrderSummary, error) {
	return nil, nil
}

func (r *fakeOrderRepo) ListByCourier(ctx context.Context, courierID uuid.UUID, active bool) ([]models.OrderSummary, error) {
	return nil, nil
}

func (r *fakeOrderRepo) CountByStatus(ctx context.Context, statuses ...types.OrderStatus) (int, error) {
	return 0, nil
}

type eventRow struct {
	orderID   uuid.UUID
	eventType types.OrderEvent
	record    models.OrderEventRecord
}

type fakeEventRepo struct {
	events []eventRow
}

func (r *fakeEventRepo) CreateEvent(ctx context.Context, orderID uuid.UUID, eventType types.OrderEvent, eventData json.RawMessage) error {
	var record models.OrderEventRecord
	if err := json.Unmarshal(eventData, &record); err != nil {
		return err
	}
	r.events = append(r.events, eventRow{orderID: orderID, eventType: eventType, record: record})
	return nil
}

type fakeCourierRepo struct {
	couriers map[uuid.UUID]*models.Courier
}

func (r *fakeCourierRepo) Get(ctx context.Context, courierID uuid.UUID) (*models.Courier, error) {
	c, ok := r.couriers[courierID]
	if !ok {
		return nil, types.ErrCourierNotFound
	}
	return c, nil
}

func (r *fakeCourierRepo) ChangeStatus(ctx context.Context, courierID uuid.UUID, newStatus types.CourierStatus) (types.CourierStatus, error) {
	c, ok := r.couriers[courierID]
	if !ok {
		return "", types.ErrCourierNotFound
	}
	old := c.Status
	c.Status = newStatus
	return old, nil
}

type fakeStatusPublisher struct {
	msgs []models.OrderStatusUpdate
	err  error
}

func (p *fakeStatusPublisher) PublishOrderStatus(ctx context.Context, msg models.OrderStatusUpdate) error {
	p.msgs = append(p.msgs, msg)
	return p.err
}

/*========================= helpers =========================*/

type fixture struct {
	svc      *Service
	orders   *fakeOrderRepo
	events   *fakeEventRepo
	couriers *fakeCourierRepo
	pub      *fakeStatusPublisher
}

func newFixture(orders ...*models.Order) *fixture {
	f := &fixture{
		orders:   newFakeOrderRepo(orders...),
		events:   &fakeEventRepo{},
		couriers: &fakeCourierRepo{couriers: make(map[uuid.UUID]*models.Courier)},
		pub:      &fakeStatusPublisher{},
	}
	f.svc = New(f.orders, f.events, f.couriers, nil, f.pub, fakeTx{}, testLog)
	return f
}

func (f *fixture) addCourier(status types.CourierStatus) uuid.UUID {
	id := uuid.New()
	f.couriers.couriers[id] = &models.Courier{ID: id, Status: status}
	return id
}

func pendingOrder(customerID uuid.UUID) *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-20260801-0001",
		CustomerID:  customerID,
		Status:      types.StatusPending,
		Address:     "23 Bakery Lane",
	}
}

/*========================= tests =========================*/

func TestAccept_AssignsCourierAndPublishes(t *testing.T) {
	order := pendingOrder(uuid.New())
	f := newFixture(order)
	courierID := f.addCourier(types.StatusCourierAvailable)

	if err := f.svc.Accept(context.Background(), order.ID, courierID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	got, _ := f.orders.Get(context.Background(), order.ID)
	if got.Status != types.StatusAccepted {
		t.Fatalf("status = %s, want ACCEPTED", got.Status)
	}
	if got.CourierID == nil || *got.CourierID != courierID {
		t.Fatal("courier must be assigned on accept")
	}

	if len(f.pub.msgs) != 1 || f.pub.msgs[0].Status != types.StatusAccepted {
		t.Fatalf("expected one ACCEPTED status message, got %+v", f.pub.msgs)
	}
	if len(f.events.events) != 1 || f.events.events[0].eventType != types.EventOrderAccepted {
		t.Fatalf("expected ORDER_ACCEPTED audit event, got %+v", f.events.events)
	}
}

func TestAccept_OfflineCourier(t *testing.T) {
	order := pendingOrder(uuid.New())
	f := newFixture(order)
	courierID := f.addCourier(types.StatusCourierOffline)

	err := f.svc.Accept(context.Background(), order.ID, courierID)
	if !errors.Is(err, types.ErrCourierOffline) {
		t.Fatalf("expected ErrCourierOffline, got %v", err)
	}

	got, _ := f.orders.Get(context.Background(), order.ID)
	if got.Status != types.StatusPending {
		t.Fatalf("order must stay PENDING, got %s", got.Status)
	}
}

func TestAccept_AlreadyTaken(t *testing.T) {
	order := pendingOrder(uuid.New())
	f := newFixture(order)
	first := f.addCourier(types.StatusCourierAvailable)
	second := f.addCourier(types.StatusCourierAvailable)

	if err := f.svc.Accept(context.Background(), order.ID, first); err != nil {
		t.Fatalf("first accept: %v", err)
	}

	err := f.svc.Accept(context.Background(), order.ID, second)
	if !errors.Is(err, types.ErrOrderAlreadyTaken) {
		t.Fatalf("expected ErrOrderAlreadyTaken, got %v", err)
	}

	got, _ := f.orders.Get(context.Background(), order.ID)
	if *got.CourierID != first {
		t.Fatal("losing courier must not displace the winner")
	}
}

func TestReject_KeepsCourierUnassigned(t *testing.T) {
	order := pendingOrder(uuid.New())
	f := newFixture(order)
	courierID := f.addCourier(types.StatusCourierAvailable)

	if err := f.svc.Reject(context.Background(), order.ID, courierID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	got, _ := f.orders.Get(context.Background(), order.ID)
	if got.Status != types.StatusRejected {
		t.Fatalf("status = %s, want REJECTED", got.Status)
	}
	if got.CourierID != nil {
		t.Fatal("rejected order must keep courier_id null")
	}

	// The audit trail still records who rejected.
	if len(f.events.events) != 1 || f.events.events[0].eventType != types.EventOrderRejected {
		t.Fatalf("expected ORDER_REJECTED event, got %+v", f.events.events)
	}
}

func TestReject_AfterAcceptReleasesCourier(t *testing.T) {
	order := pendingOrder(uuid.New())
	f := newFixture(order)
	courierID := f.addCourier(types.StatusCourierAvailable)

	ctx := context.Background()
	if err := f.svc.Accept(ctx, order.ID, courierID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := f.svc.Reject(ctx, order.ID, courierID); err != nil {
		t.Fatalf("reject after accept: %v", err)
	}

	got, _ := f.orders.Get(ctx, order.ID)
	if got.Status != types.StatusRejected {
		t.Fatalf("status = %s, want REJECTED", got.Status)
	}
	if got.CourierID != nil {
		t.Fatal("backing out must reset courier_id to null")
	}

	last := f.events.events[len(f.events.events)-1]
	if last.eventType != types.EventOrderRejected {
		t.Fatalf("expected ORDER_REJECTED event, got %s", last.eventType)
	}
}

func TestReject_AcceptedByAnotherCourier(t *testing.T) {
	order := pendingOrder(uuid.New())
	f := newFixture(order)
	assigned := f.addCourier(types.StatusCourierAvailable)
	intruder := f.addCourier(types.StatusCourierAvailable)

	ctx := context.Background()
	if err := f.svc.Accept(ctx, order.ID, assigned); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if err := f.svc.Reject(ctx, order.ID, intruder); !errors.Is(err, types.ErrOrderCourierMismatch) {
		t.Fatalf("expected ErrOrderCourierMismatch, got %v", err)
	}

	got, _ := f.orders.Get(ctx, order.ID)
	if got.Status != types.StatusAccepted || got.CourierID == nil || *got.CourierID != assigned {
		t.Fatalf("order must stay with the assigned courier, got status=%s", got.Status)
	}
}

func TestDepartAndDeliver_Lifecycle(t *testing.T) {
	order := pendingOrder(uuid.New())
	f := newFixture(order)
	courierID := f.addCourier(types.StatusCourierAvailable)

	ctx := context.Background()
	if err := f.svc.Accept(ctx, order.ID, courierID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := f.svc.Depart(ctx, order.ID, courierID); err != nil {
		t.Fatalf("depart: %v", err)
	}
	if err := f.svc.Deliver(ctx, order.ID, courierID); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	got, _ := f.orders.Get(ctx, order.ID)
	if got.Status != types.StatusDelivered {
		t.Fatalf("status = %s, want DELIVERED", got.Status)
	}
	if got.DeliveredAt == nil {
		t.Fatal("deliver must stamp delivered_at")
	}
}

func TestDepart_WrongCourier(t *testing.T) {
	order := pendingOrder(uuid.New())
	f := newFixture(order)
	assigned := f.addCourier(types.StatusCourierAvailable)
	intruder := f.addCourier(types.StatusCourierAvailable)

	ctx := context.Background()
	if err := f.svc.Accept(ctx, order.ID, assigned); err != nil {
		t.Fatalf("accept: %v", err)
	}

	err := f.svc.Depart(ctx, order.ID, intruder)
	if !errors.Is(err, types.ErrOrderCourierMismatch) {
		t.Fatalf("expected ErrOrderCourierMismatch, got %v", err)
	}
}

func TestConfirmReceipt(t *testing.T) {
	customerID := uuid.New()
	order := pendingOrder(customerID)
	f := newFixture(order)
	courierID := f.addCourier(types.StatusCourierAvailable)

	ctx := context.Background()
	if err := f.svc.Accept(ctx, order.ID, courierID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := f.svc.Depart(ctx, order.ID, courierID); err != nil {
		t.Fatalf("depart: %v", err)
	}

	// A stranger confirming sees "not found", not "forbidden".
	if err := f.svc.ConfirmReceipt(ctx, order.ID, uuid.New()); !errors.Is(err, types.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign customer, got %v", err)
	}

	if err := f.svc.ConfirmReceipt(ctx, order.ID, customerID); err != nil {
		t.Fatalf("confirm receipt: %v", err)
	}

	got, _ := f.orders.Get(ctx, order.ID)
	if got.Status != types.StatusReceived {
		t.Fatalf("status = %s, want RECEIVED", got.Status)
	}
	if got.DeliveredAt == nil {
		t.Fatal("receipt confirmation must stamp delivered_at")
	}
	if got.CourierID == nil || *got.CourierID != courierID {
		t.Fatal("courier assignment must survive receipt confirmation")
	}
}

func TestConfirmReceipt_AfterDelivered(t *testing.T) {
	customerID := uuid.New()
	order := pendingOrder(customerID)
	f := newFixture(order)
	courierID := f.addCourier(types.StatusCourierAvailable)

	ctx := context.Background()
	for _, step := range []func(context.Context, uuid.UUID, uuid.UUID) error{
		f.svc.Accept, f.svc.Depart, f.svc.Deliver,
	} {
		if err := step(ctx, order.ID, courierID); err != nil {
			t.Fatalf("lifecycle step: %v", err)
		}
	}
	delivered, _ := f.orders.Get(ctx, order.ID)

	if err := f.svc.ConfirmReceipt(ctx, order.ID, customerID); err != nil {
		t.Fatalf("confirm receipt after delivery: %v", err)
	}

	got, _ := f.orders.Get(ctx, order.ID)
	if got.Status != types.StatusReceived {
		t.Fatalf("status = %s, want RECEIVED", got.Status)
	}
	if got.DeliveredAt == nil || !got.DeliveredAt.Equal(*delivered.DeliveredAt) {
		t.Fatal("confirmation must not overwrite the courier's delivery timestamp")
	}
	if got.CourierID == nil || *got.CourierID != courierID {
		t.Fatal("courier assignment must survive receipt confirmation")
	}
}

func TestConfirmReceipt_InvalidFromPending(t *testing.T) {
	customerID := uuid.New()
	order := pendingOrder(customerID)
	f := newFixture(order)

	err := f.svc.ConfirmReceipt(context.Background(), order.ID, customerID)
	if !errors.Is(err, types.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCreate_ParsesEmbeddedCoordinates(t *testing.T) {
	f := newFixture()

	order := &models.Order{
		OrderNumber:  "ORD-20260801-0002",
		CustomerID:   uuid.New(),
		Address:      "حي الشهداء (36.861900, 42.978800)",
		TotalPrice:   12.5,
		ItemsSummary: "2x samoon",
	}

	if err := f.svc.Create(context.Background(), order); err != nil {
		t.Fatalf("create: %v", err)
	}

	if order.Status != types.StatusPending {
		t.Fatalf("new order status = %s, want PENDING", order.Status)
	}
	if order.Destination == nil {
		t.Fatal("embedded coordinates must populate the destination")
	}
	if order.Destination.Latitude != 36.8619 || order.Destination.Longitude != 42.9788 {
		t.Fatalf("unexpected destination: %+v", order.Destination)
	}

	if len(f.events.events) != 1 || f.events.events[0].eventType != types.EventOrderCreated {
		t.Fatalf("expected ORDER_CREATED event, got %+v", f.events.events)
	}
}

func TestCreate_PlainAddressWithoutGeocoder(t *testing.T) {
	f := newFixture()

	order := &models.Order{
		OrderNumber: "ORD-20260801-0003",
		CustomerID:  uuid.New(),
		Address:     "23 Bakery Lane, Duhok",
	}

	if err := f.svc.Create(context.Background(), order); err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.Destination != nil {
		t.Fatal("unresolvable address must leave destination nil")
	}
}

func TestTransition_PublishFailureIsNotFatal(t *testing.T) {
	order := pendingOrder(uuid.New())
	f := newFixture(order)
	f.pub.err = errors.New("broker down")
	courierID := f.addCourier(types.StatusCourierAvailable)

	if err := f.svc.Accept(context.Background(), order.ID, courierID); err != nil {
		t.Fatalf("accept must succeed despite publish failure, got %v", err)
	}

	got, _ := f.orders.Get(context.Background(), order.ID)
	if got.Status != types.StatusAccepted {
		t.Fatalf("status = %s, want ACCEPTED", got.Status)
	}
}
