package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
)

type BusinessClient struct {
	httpClient *HttpClient
}

func NewBusinessClient(baseUrl string) *BusinessClient {
	return &BusinessClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *BusinessClient) WithActor(actorID, actorRole string) *BusinessClient {
	c.httpClient.WithActor(actorID, actorRole)
	return c
}

func (c *BusinessClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/businesses", body)
}

func (c *BusinessClient) GetByID(id string) (*Response, error) {
	path := "/api/v1/businesses/id/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *BusinessClient) Search(city string, businessType string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("city", city)
	if businessType != "" {
		q.Set("business_type", businessType)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	return c.httpClient.GET("/api/v1/businesses?" + q.Encode())
}

func (c *BusinessClient) GetMine() (*Response, error) {
	return c.httpClient.GET("/api/v1/businesses/mine")
}

func (c *BusinessClient) Update(id string, body any) (*Response, error) {
	path := "/api/v1/businesses/id/" + url.PathEscape(id)
	return c.httpClient.PATCH(path, body)
}

func (c *BusinessClient) DecodeBusiness(resp *Response) (*model.Business, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode business wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var business model.Business
	if err := json.Unmarshal(wrapper.Data, &business); err != nil {
		return nil, fmt.Errorf("could not decode business:\n%+v\n%s", resp.ToString(), err)
	}
	return &business, nil
}
