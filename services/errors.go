package services

import "errors"

// Errors surfaced to route handlers. Routes map these to specific 4xx
// responses so clients can react (refresh the slot list, resync state).
var (
	ErrSlotUnavailable    = errors.New("time slot is not available")
	ErrTherapistNotFound  = errors.New("therapist not found or inactive")
	ErrServiceNotOffered  = errors.New("therapist does not offer this service")
	ErrAddressNotFound    = errors.New("address not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrCouponInvalid      = errors.New("coupon is not usable for this order")
	ErrInsufficientPoints = errors.New("not enough points")
	ErrTherapistProfile   = errors.New("therapist profile not found")
)
