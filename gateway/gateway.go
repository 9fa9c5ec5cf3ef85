package gateway

import (
	"fmt"

	"github.com/google/uuid"
)

// Gateway charges an invoice amount with a payment method and returns a
// transaction id. A returned error is a rejection: the invoice moves to
// failed, not completed.
type Gateway interface {
	Charge(amount int64, method string) (string, error)
}

var supportedMethods = map[string]bool{
	"credit_card":   true,
	"debit_card":    true,
	"bank_transfer": true,
	"e_wallet":      true,
	"cash":          true,
}

// Simulated stands in for a real payment provider. It accepts the known
// payment methods and assigns a fresh transaction id.
type Simulated struct{}

func (Simulated) Charge(amount int64, method string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("invalid charge amount: %d", amount)
	}
	if !supportedMethods[method] {
		return "", fmt.Errorf("unsupported payment method: %s", method)
	}
	return uuid.NewString(), nil
}
