package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// AppointmentDetail mirrors the appointment ledger's by-id payload,
// including the embedded treatment.
type AppointmentDetail struct {
	ID        uint             `json:"id"`
	Treatment *TreatmentDetail `json:"treatment"`
	Date      string           `json:"appointment_date"`
	Time      string           `json:"appointment_time"`
	Status    string           `json:"status"`
	Notes     string           `json:"notes"`
}

// AppointmentClient reads the appointment ledger on behalf of a caller;
// the caller's bearer token is forwarded so ownership checks still apply.
type AppointmentClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewAppointmentClient(baseURL string) *AppointmentClient {
	return &AppointmentClient{
		BaseURL: baseURL,
		HTTP:    newHTTPClient(),
	}
}

func (c *AppointmentClient) GetAppointment(ctx context.Context, id uint, bearerToken string) (*AppointmentDetail, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/appointments/%d", c.BaseURL, id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", bearerToken)

	resp, err := doWithRetry(ctx, c.HTTP, req)
	if err != nil {
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, ErrUnavailable
	}

	var a AppointmentDetail
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode appointment response: %w", err)
	}
	return &a, nil
}
