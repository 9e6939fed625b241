package types

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidTransition  = errors.New("order status transition not allowed")
	ErrOrderAlreadyTaken  = errors.New("order already taken by another courier")
	ErrOrderCourierMismatch = errors.New("order is assigned to another courier")

	ErrCourierNotFound       = errors.New("courier not found")
	ErrCourierAlreadyOnline  = errors.New("courier already online")
	ErrCourierAlreadyOffline = errors.New("courier already offline")
	ErrCourierOffline        = errors.New("courier must be online")

	// Tracking guards, checked before any lookup is attempted.
	ErrCourierNotAssigned   = errors.New("no courier assigned to order yet")
	ErrNotTrackableInState  = errors.New("order is not trackable in its current state")
	ErrLocationNotAvailable = errors.New("courier has not started sharing location")

	// Sampler-level errors surfaced by the location provider.
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrLocationTimeout     = errors.New("location request timed out")
	ErrSamplerStarted      = errors.New("sampler already started")

	ErrPublishFailed        = errors.New("failed to publish location")
	ErrRoutingServiceFailed = errors.New("routing service failed")

	ErrNotFound = errors.New("requested item not found")
)
