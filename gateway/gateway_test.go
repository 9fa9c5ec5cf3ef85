package gateway

import "testing"

func TestSimulatedCharge(t *testing.T) {
	gw := Simulated{}

	txn, err := gw.Charge(300000, "bank_transfer")
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if txn == "" {
		t.Fatal("empty transaction id")
	}

	other, err := gw.Charge(150000, "cash")
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if other == txn {
		t.Fatal("transaction ids must be unique per charge")
	}
}

func TestSimulatedChargeRejections(t *testing.T) {
	gw := Simulated{}

	if _, err := gw.Charge(0, "cash"); err == nil {
		t.Fatal("zero amount accepted")
	}
	if _, err := gw.Charge(-100, "cash"); err == nil {
		t.Fatal("negative amount accepted")
	}
	if _, err := gw.Charge(150000, "barter"); err == nil {
		t.Fatal("unknown method accepted")
	}
}
