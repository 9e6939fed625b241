package types

type ServiceMode string

// Order Service - customer-facing order lifecycle and live tracking views
// Courier Service - courier operations and the real-time location pipeline
// Admin Service - monitoring and oversight
// Auth Service - accounts and session issuance
const (
	OrderService   ServiceMode = "order-service"
	CourierService ServiceMode = "courier-service"
	AdminService   ServiceMode = "admin-service"
	AuthService    ServiceMode = "auth-service"
)

// OrderStatus enumerates the order lifecycle.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusAccepted  OrderStatus = "ACCEPTED"
	StatusOnTheWay  OrderStatus = "ON_THE_WAY"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusReceived  OrderStatus = "RECEIVED"
	StatusRejected  OrderStatus = "REJECTED"
)

func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the delivery itself is over. A DELIVERED
// order may still be confirmed as RECEIVED by the customer, but the
// courier's work (and live tracking) ends here.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusDelivered, StatusReceived, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTrackable reports whether live courier tracking is offered for this status.
// Tracking is only meaningful between acceptance and delivery.
func (s OrderStatus) IsTrackable() bool {
	return s == StatusAccepted || s == StatusOnTheWay
}

// Actor identifies who performs an order transition.
type Actor string

const (
	ActorCourier  Actor = "courier"
	ActorCustomer Actor = "customer"
)

// CourierStatus enumerates courier availability.
type CourierStatus string

const (
	StatusCourierOffline    CourierStatus = "OFFLINE"
	StatusCourierAvailable  CourierStatus = "AVAILABLE"
	StatusCourierDelivering CourierStatus = "DELIVERING"
)

// UserRole enumerates account roles.
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleCourier  UserRole = "COURIER"
	RoleAdmin    UserRole = "ADMIN"
)

// UserStatus enumerates account states.
type UserStatus string

const (
	StatusUserActive   UserStatus = "ACTIVE"
	StatusUserInactive UserStatus = "INACTIVE"
	StatusUserBanned   UserStatus = "BANNED"
)
