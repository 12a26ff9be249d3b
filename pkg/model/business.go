package model

import "time"

// Business is a marketplace listing. Bookings hold a weak reference to it via
// BusinessID; resolving a booking's business never joins documents.
type Business struct {
	ID           string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID      string       `json:"owner_id" bson:"owner_id" validate:"required,min=1,max=64"`
	Name         string       `json:"name" bson:"name" validate:"required,min=2,max=100"`
	BusinessType BusinessType `json:"business_type" bson:"business_type" validate:"required,oneof=hotel restaurant cafe cab shopping"`
	UPIID        string       `json:"upi_id" bson:"upi_id" validate:"required,upi"`
	Phone        string       `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Email        string       `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	City         string       `json:"city" bson:"city" validate:"required,min=2,max=60"`
	Address      string       `json:"address,omitempty" bson:"address,omitempty" validate:"omitempty,max=300"`
	Active       bool         `json:"active" bson:"active"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BusinessUpdate carries the mutable subset of a listing.
type BusinessUpdate struct {
	Name    string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	UPIID   string `json:"upi_id,omitempty" validate:"omitempty,upi"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,e164"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	City    string `json:"city,omitempty" validate:"omitempty,min=2,max=60"`
	Address string `json:"address,omitempty" validate:"omitempty,max=300"`
	Active  *bool  `json:"active,omitempty"`
}
