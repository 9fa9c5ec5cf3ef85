package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ConfirmationNotice is the webhook payload sent on appointment confirmation.
type ConfirmationNotice struct {
	AppointmentID uint   `json:"appointment_id"`
	UserID        string `json:"user_id"`
}

// PaymentClient delivers the appointment-confirmed webhook to the payment
// ledger. Delivery is at-most-once: the caller logs a final failure and
// moves on, it never rolls back the appointment.
type PaymentClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewPaymentClient(baseURL string) *PaymentClient {
	return &PaymentClient{
		BaseURL: baseURL,
		HTTP:    newHTTPClient(),
	}
}

func (c *PaymentClient) NotifyAppointmentConfirmed(ctx context.Context, notice ConfirmationNotice, bearerToken string) error {
	payload, err := json.Marshal(notice)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/webhook/appointment-confirmed", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken)
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(payload)), nil
	}

	resp, err := doWithRetry(ctx, c.HTTP, req)
	if err != nil {
		return ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook rejected: status %d", resp.StatusCode)
	}
	return nil
}
