package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Ruthreshjp/tour-app-sub001/internal/bookings/service"
	apperrors "github.com/Ruthreshjp/tour-app-sub001/pkg/errors"
	httputil "github.com/Ruthreshjp/tour-app-sub001/pkg/http"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/logger"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
)

const (
	headerActorID   = "X-Actor-ID"
	headerActorRole = "X-Actor-Role"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

type statusRequest struct {
	Status     string `json:"status"`
	RoomNumber string `json:"room_number,omitempty"`
}

type paymentRequest struct {
	TransactionID string `json:"transaction_id"`
}

type reviewRequest struct {
	Action string `json:"action"`
}

func actorFromRequest(r *http.Request) model.Actor {
	return model.Actor{
		ID:   r.Header.Get(headerActorID),
		Role: r.Header.Get(headerActorRole),
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	actor := actorFromRequest(r)
	if actor.ID != "" {
		booking.UserID = actor.ID
	}

	if err := h.service.Create(r.Context(), &booking); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// List serves both owner and consumer views: exactly one of 'business_id' or
// 'user_id' selects the axis, with optional status filters on top.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	businessID := query.Get("business_id")
	userID := query.Get("user_id")

	if (businessID == "") == (userID == "") {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Exactly one of 'business_id' or 'user_id' is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	filter, err := parseFilter(query.Get("status"), query.Get("payment_status"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var bookings []*model.Booking
	var total int64
	if businessID != "" {
		bookings, total, err = h.service.ListByBusiness(r.Context(), businessID, filter, limit, offset)
	} else {
		bookings, total, err = h.service.ListByConsumer(r.Context(), userID, filter, limit, offset)
	}
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateStatus", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	target, err := model.ParseBookingStatus(req.Status)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(err.Error())); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), id, target, actorFromRequest(r), req.RoomNumber)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) SubmitPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SubmitPayment", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	booking, err := h.service.SubmitPayment(r.Context(), id, actorFromRequest(r), req.TransactionID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SubmitPayment", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "SubmitPayment", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ReviewPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "ReviewPayment", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	var approve bool
	switch req.Action {
	case "approve":
		approve = true
	case "reject":
		approve = false
	default:
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("action must be 'approve' or 'reject'")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ReviewPayment", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	booking, err := h.service.ReviewPayment(r.Context(), id, actorFromRequest(r), approve)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ReviewPayment", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "ReviewPayment", "operation", "WriteSuccess", "error", err)
	}
}

func parseFilter(status, paymentStatus string) (model.BookingFilter, error) {
	var filter model.BookingFilter

	if status != "" {
		parsed, err := model.ParseBookingStatus(status)
		if err != nil {
			return filter, apperrors.InvalidInput(err.Error())
		}
		filter.Status = parsed
	}

	if paymentStatus != "" {
		parsed, err := model.ParsePaymentStatus(paymentStatus)
		if err != nil {
			return filter, apperrors.InvalidInput(err.Error())
		}
		filter.PaymentStatus = parsed
	}

	return filter, nil
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id/status", h.UpdateStatus)
	router.PATCH("/api/v1/bookings/id/:id/payment", h.SubmitPayment)
	router.PATCH("/api/v1/bookings/id/:id/verify-payment", h.ReviewPayment)
}
