package validator

import (
	"strings"
	"testing"

	"github.com/Ruthreshjp/tour-app-sub001/pkg/logger"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
)

func newTestValidator(t *testing.T) *BusinessValidator {
	t.Helper()
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Service: "test"})
	return NewBusinessValidator(log)
}

func validBusiness() *model.Business {
	return &model.Business{
		OwnerID:      "owner-1",
		Name:         "Hill View Rooms",
		BusinessType: model.TypeHotel,
		UPIID:        "hillview@okaxis",
		Phone:        "+919876543210",
		Email:        "desk@hillview.example",
		City:         "Ooty",
		Active:       true,
	}
}

func TestValidateAcceptsCompleteBusiness(t *testing.T) {
	v := newTestValidator(t)
	if err := v.Validate(validBusiness()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateUPIHandles(t *testing.T) {
	tests := []struct {
		upi  string
		ok   bool
		name string
	}{
		{"shop@okaxis", true, "plain handle"},
		{"my.shop-1@ybl", true, "dots and hyphens"},
		{"Shop@OkAxis", true, "mixed case accepted"},
		{"shop", false, "no bank code"},
		{"@okaxis", false, "empty local part"},
		{"shop@", false, "empty bank code"},
		{"shop@ok axis", false, "space in bank code"},
		{"", false, "empty"},
	}

	v := newTestValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBusiness()
			b.UPIID = tt.upi
			err := v.Validate(b)
			if tt.ok && err != nil {
				t.Errorf("UPI %q rejected: %v", tt.upi, err)
			}
			if !tt.ok && err == nil {
				t.Errorf("UPI %q accepted", tt.upi)
			}
		})
	}
}

func TestValidateRejectsBadFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Business)
		wantSub string
	}{
		{"missing owner", func(b *model.Business) { b.OwnerID = "" }, "OwnerID"},
		{"short name", func(b *model.Business) { b.Name = "x" }, "Name"},
		{"unknown type", func(b *model.Business) { b.BusinessType = "spa" }, "BusinessType"},
		{"bad phone", func(b *model.Business) { b.Phone = "12345" }, "Phone"},
		{"bad email", func(b *model.Business) { b.Email = "not-an-email" }, "Email"},
		{"missing city", func(b *model.Business) { b.City = "" }, "City"},
	}

	v := newTestValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBusiness()
			tt.mutate(b)

			err := v.Validate(b)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestValidateUpdateAllowsPartial(t *testing.T) {
	v := newTestValidator(t)

	if err := v.ValidateUpdate(&model.BusinessUpdate{}); err != nil {
		t.Errorf("empty update rejected: %v", err)
	}
	if err := v.ValidateUpdate(&model.BusinessUpdate{City: "Chennai"}); err != nil {
		t.Errorf("partial update rejected: %v", err)
	}
	if err := v.ValidateUpdate(&model.BusinessUpdate{UPIID: "bad upi"}); err == nil {
		t.Error("invalid UPI accepted in update")
	}
}
