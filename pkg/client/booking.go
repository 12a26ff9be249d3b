package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
)

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseUrl string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *BookingClient) WithActor(actorID, actorRole string) *BookingClient {
	c.httpClient.WithActor(actorID, actorRole)
	return c
}

func (c *BookingClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/bookings", body)
}

func (c *BookingClient) CreateRaw(rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw("/api/v1/bookings", rawBody)
}

func (c *BookingClient) GetByID(id string) (*Response, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *BookingClient) ListByBusiness(businessID string, status string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("business_id", businessID)
	if status != "" {
		q.Set("status", status)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	return c.httpClient.GET("/api/v1/bookings?" + q.Encode())
}

func (c *BookingClient) ListByUser(userID string, paymentStatus string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("user_id", userID)
	if paymentStatus != "" {
		q.Set("payment_status", paymentStatus)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	return c.httpClient.GET("/api/v1/bookings?" + q.Encode())
}

func (c *BookingClient) UpdateStatus(id string, status string, roomNumber string) (*Response, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id) + "/status"
	body := map[string]string{"status": status}
	if roomNumber != "" {
		body["room_number"] = roomNumber
	}
	return c.httpClient.PATCH(path, body)
}

func (c *BookingClient) SubmitPayment(id string, transactionID string) (*Response, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id) + "/payment"
	return c.httpClient.PATCH(path, map[string]string{"transaction_id": transactionID})
}

func (c *BookingClient) ReviewPayment(id string, action string) (*Response, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id) + "/verify-payment"
	return c.httpClient.PATCH(path, map[string]string{"action": action})
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking:\n%+v\n%s", resp.ToString(), err)
	}
	return &booking, nil
}

func (c *BookingClient) DecodeBookings(resp *Response) ([]*model.Booking, int64, error) {
	var wrapper struct {
		Data       []*model.Booking `json:"data"`
		TotalCount int64            `json:"total_count"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, 0, fmt.Errorf("could not decode bookings page:\n%+v\n%s", resp.ToString(), err)
	}
	return wrapper.Data, wrapper.TotalCount, nil
}
