package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TreatmentDetail mirrors the catalog's treatment payload.
type TreatmentDetail struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	PractitionerName string `json:"practitioner_name"`
	Price            int64  `json:"price"`
}

// TreatmentClient reads the treatment catalog service.
type TreatmentClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewTreatmentClient(baseURL string) *TreatmentClient {
	return &TreatmentClient{
		BaseURL: baseURL,
		HTTP:    newHTTPClient(),
	}
}

// GetTreatment fetches one treatment by id. Returns ErrNotFound when the
// catalog has no such treatment and ErrUnavailable when the catalog cannot
// be reached.
func (c *TreatmentClient) GetTreatment(ctx context.Context, id uint) (*TreatmentDetail, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/treatments/%d", c.BaseURL, id), nil)
	if err != nil {
		return nil, err
	}

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

	var t TreatmentDetail
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode treatment response: %w", err)
	}
	return &t, nil
}
