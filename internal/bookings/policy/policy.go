package policy

import (
	"math"

	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
)

// ConfirmationMode controls how a booking of a given type gets confirmed.
type ConfirmationMode string

const (
	// ConfirmManual requires an explicit accept by the business owner.
	ConfirmManual ConfirmationMode = "manual"
	// ConfirmAutomatic confirms the booking at creation time.
	ConfirmAutomatic ConfirmationMode = "automatic"
)

// AdvanceMode selects how the payable amount is derived from the full bill.
type AdvanceMode string

const (
	// AdvancePercent charges a percentage of the total (consumer may still
	// choose to pay in full).
	AdvancePercent AdvanceMode = "percent"
	// AdvanceFlat charges a fixed reservation fee.
	AdvanceFlat AdvanceMode = "flat"
	// AdvanceNone means the type takes no bookings at all.
	AdvanceNone AdvanceMode = "none"
)

// Field names a required booking_details key. Some types accept an alternate
// key for the same datum (cafe forms historically sent either visitDate or
// bookingDate).
type Field struct {
	Key   string
	Alias string
}

// Policy is the per-business-type rule set consulted on create and accept.
// It is data, not code: adding a business type is a table edit.
type Policy struct {
	RequiredDetails    []Field
	Confirmation       ConfirmationMode
	RequiresRoomNumber bool
	Advance            AdvanceMode
	Bookable           bool
}

var table = map[model.BusinessType]Policy{
	model.TypeHotel: {
		RequiredDetails: []Field{
			{Key: "checkIn"},
			{Key: "checkOut"},
			{Key: "roomType"},
			{Key: "guests"},
		},
		Confirmation:       ConfirmManual,
		RequiresRoomNumber: true,
		Advance:            AdvancePercent,
		Bookable:           true,
	},
	model.TypeRestaurant: {
		RequiredDetails: []Field{
			{Key: "reservationDate"},
			{Key: "reservationTime"},
			{Key: "tableType"},
			{Key: "numberOfGuests"},
		},
		Confirmation: ConfirmAutomatic,
		Advance:      AdvanceFlat,
		Bookable:     true,
	},
	model.TypeCafe: {
		RequiredDetails: []Field{
			{Key: "visitDate", Alias: "bookingDate"},
			{Key: "visitTime", Alias: "bookingTime"},
			{Key: "tableType"},
			{Key: "numberOfGuests"},
		},
		Confirmation: ConfirmAutomatic,
		Advance:      AdvanceFlat,
		Bookable:     true,
	},
	model.TypeCab: {
		RequiredDetails: []Field{
			{Key: "pickupLocation"},
			{Key: "dropLocation"},
			{Key: "pickupTime"},
			{Key: "passengers"},
		},
		Confirmation: ConfirmManual,
		Advance:      AdvanceFlat,
		Bookable:     true,
	},
	model.TypeShopping: {
		Confirmation: ConfirmManual,
		Advance:      AdvanceNone,
		Bookable:     false,
	},
}

// ForType returns the policy for a business type. The second return is false
// for unrecognized types.
func ForType(businessType model.BusinessType) (Policy, bool) {
	p, ok := table[businessType]
	return p, ok
}

// MissingDetails returns the required keys absent from the supplied details.
// A field with an alias is satisfied by either key.
func (p Policy) MissingDetails(details map[string]string) []string {
	var missing []string
	for _, field := range p.RequiredDetails {
		if details[field.Key] != "" {
			continue
		}
		if field.Alias != "" && details[field.Alias] != "" {
			continue
		}
		missing = append(missing, field.Key)
	}
	return missing
}

// InitialStatus is the status a freshly created booking starts in.
func (p Policy) InitialStatus() model.BookingStatus {
	if p.Confirmation == ConfirmAutomatic {
		return model.StatusConfirmed
	}
	return model.StatusPending
}

// PayableAmount derives the amount due now from the full bill and the chosen
// payment option.
func (p Policy) PayableAmount(totalAmount float64, option model.PaymentOption, hotelAdvancePercent int, flatAdvance float64) float64 {
	if option == model.PayFull {
		return totalAmount
	}

	switch p.Advance {
	case AdvancePercent:
		advance := totalAmount * float64(hotelAdvancePercent) / 100
		return math.Round(advance*100) / 100
	case AdvanceFlat:
		if flatAdvance < totalAmount {
			return flatAdvance
		}
		return totalAmount
	default:
		return totalAmount
	}
}
