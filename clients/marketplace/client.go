package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"pawdispatch/models"
)

// Client is the REST client for the marketplace backend. The backend
// owns bookings, providers and the assignment invariant; this client
// only moves state back and forth. The bearer token is supplied per
// call by the session that owns it.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a marketplace client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// GetProviderBookings fetches the provider's booking worklist. The
// location is optional; when absent the backend falls back to the
// provider's stored location.
func (c *Client) GetProviderBookings(ctx context.Context, token string, loc *models.Coordinate) ([]models.Booking, error) {
	endpoint := c.BaseURL + "/api/provider/bookings"
	if loc != nil {
		q := url.Values{}
		q.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
		q.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
		endpoint += "?" + q.Encode()
	}

	var dtos []bookingDTO
	if err := c.do(ctx, http.MethodGet, endpoint, token, nil, &dtos); err != nil {
		return nil, err
	}
	bookings := make([]models.Booking, 0, len(dtos))
	for _, d := range dtos {
		bookings = append(bookings, d.toModel())
	}
	return bookings, nil
}

// GetProviderProfile fetches the authenticated provider's profile.
func (c *Client) GetProviderProfile(ctx context.Context, token string) (*models.ProviderProfile, error) {
	var profile models.ProviderProfile
	if err := c.do(ctx, http.MethodGet, c.BaseURL+"/api/provider/profile", token, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ConfirmBooking asks the backend to assign the booking to this
// provider. A 409 means another provider already took it.
func (c *Client) ConfirmBooking(ctx context.Context, token string, bookingID int64) (*models.Booking, error) {
	return c.putBooking(ctx, token, bookingID, "confirm", nil)
}

// CancelBooking rejects the booking on the backend.
func (c *Client) CancelBooking(ctx context.Context, token string, bookingID int64) (*models.Booking, error) {
	return c.putBooking(ctx, token, bookingID, "cancel", nil)
}

// CompleteBooking closes out the booking with the customer's OTP.
func (c *Client) CompleteBooking(ctx context.Context, token string, bookingID int64, otp string) (*models.Booking, error) {
	return c.putBooking(ctx, token, bookingID, "complete", map[string]string{"otp": otp})
}

func (c *Client) putBooking(ctx context.Context, token string, bookingID int64, action string, body any) (*models.Booking, error) {
	endpoint := fmt.Sprintf("%s/api/provider/%d/%s", c.BaseURL, bookingID, action)
	var dto bookingDTO
	if err := c.do(ctx, http.MethodPut, endpoint, token, body, &dto); err != nil {
		return nil, err
	}
	booking := dto.toModel()
	return &booking, nil
}

func (c *Client) do(ctx context.Context, method, endpoint, token string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("marketplace request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode marketplace response: %w", err)
	}
	return nil
}

// bookingDTO matches the backend's wire shape, which carries the
// service location as flat optional latitude/longitude fields.
type bookingDTO struct {
	ID          int64      `json:"id"`
	CustomerID  int64      `json:"customerId"`
	PackageID   int64      `json:"packageId"`
	ProviderID  int64      `json:"providerId"`
	Status      string     `json:"status"`
	RequestType string     `json:"requestType"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	TotalPrice  float64    `json:"totalPrice"`
	BookingDate string     `json:"bookingDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	OTP         string     `json:"otp"`
}

func (d bookingDTO) toModel() models.Booking {
	b := models.Booking{
		ID:          d.ID,
		CustomerID:  d.CustomerID,
		PackageID:   d.PackageID,
		ProviderID:  d.ProviderID,
		Status:      d.Status,
		RequestType: d.RequestType,
		TotalPrice:  d.TotalPrice,
		BookingDate: d.BookingDate,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		CompletedAt: d.CompletedAt,
		OTP:         d.OTP,
	}
	if d.Latitude != nil && d.Longitude != nil {
		b.Location = &models.Coordinate{Latitude: *d.Latitude, Longitude: *d.Longitude}
	}
	return b
}
