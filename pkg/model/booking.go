package model

import (
	"time"
)

// BusinessType fixes which policy and which booking_details shape applies.
// Immutable after creation.
type BusinessType string

const (
	TypeHotel      BusinessType = "hotel"
	TypeRestaurant BusinessType = "restaurant"
	TypeCafe       BusinessType = "cafe"
	TypeCab        BusinessType = "cab"
	TypeShopping   BusinessType = "shopping"
)

func (t BusinessType) String() string {
	return string(t)
}

// PaymentOption is the payment plan the consumer chose at creation.
type PaymentOption string

const (
	PayAdvance PaymentOption = "advance"
	PayFull    PaymentOption = "full"
)

// Booking is a reservation request against a business listing. BookingDetails
// is a variant record whose keys depend on BusinessType; the policy table
// defines the required keys per type.
type Booking struct {
	ID              string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BusinessID      string            `json:"business_id" bson:"business_id" validate:"required,mongodb"`
	UserID          string            `json:"user_id" bson:"user_id" validate:"required,min=1,max=64"`
	BusinessType    BusinessType      `json:"business_type" bson:"business_type" validate:"required,oneof=hotel restaurant cafe cab shopping"`
	BookingDetails  map[string]string `json:"booking_details" bson:"booking_details" validate:"required"`
	Amount          float64           `json:"amount" bson:"amount" validate:"gte=0"`
	TotalAmount     float64           `json:"total_amount,omitempty" bson:"total_amount,omitempty" validate:"omitempty,gte=0"`
	PaymentOption   PaymentOption     `json:"payment_option,omitempty" bson:"payment_option,omitempty" validate:"omitempty,oneof=advance full"`
	Status          BookingStatus     `json:"status" bson:"status" validate:"required,oneof=pending pending_approval confirmed cancelled declined completed"`
	PaymentStatus   PaymentStatus     `json:"payment_status" bson:"payment_status" validate:"required,oneof=pending pending_verification paid failed"`
	TransactionID   string            `json:"transaction_id,omitempty" bson:"transaction_id,omitempty"`
	RoomNumber      string            `json:"room_number,omitempty" bson:"room_number,omitempty"`
	SpecialRequests string            `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=500"`

	PaymentReviewedAt *time.Time `json:"payment_reviewed_at,omitempty" bson:"payment_reviewed_at,omitempty"`
	PaymentReviewedBy string     `json:"payment_reviewed_by,omitempty" bson:"payment_reviewed_by,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Actor identifies who is performing an operation. Identity is supplied by
// the caller; the service trusts it (authentication is an external concern).
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

const (
	RoleConsumer = "consumer"
	RoleBusiness = "business"
	RoleAdmin    = "admin"
)

// BookingFilter narrows list queries along both status axes.
type BookingFilter struct {
	Status        BookingStatus
	PaymentStatus PaymentStatus
}
