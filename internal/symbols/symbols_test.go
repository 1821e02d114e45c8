package symbols

import "testing"

func TestMarketValid(t *testing.T) {
	for _, m := range Markets() {
		if !m.Valid() {
			t.Errorf("Expected %s to be valid", m)
		}
	}
	if Market("bonds").Valid() {
		t.Error("Expected bonds to be invalid")
	}
}

func TestSupported(t *testing.T) {
	crypto := Supported(Crypto)
	if len(crypto) != 8 {
		t.Errorf("Expected 8 crypto symbols, got %d", len(crypto))
	}
	if !IsSupported(Crypto, "BTC") {
		t.Error("Expected BTC to be supported in crypto")
	}
	if IsSupported(Stocks, "BTC") {
		t.Error("Expected BTC not supported in stocks")
	}
	if got := Supported(Market("bonds")); got != nil {
		t.Errorf("Expected nil for unknown market, got %v", got)
	}

	// Returned slice is a copy
	crypto[0] = "MUTATED"
	if Supported(Crypto)[0] == "MUTATED" {
		t.Error("Expected Supported to return a copy")
	}
}
